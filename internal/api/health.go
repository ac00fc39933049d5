package api

import (
	"net/http"
	"time"

	"github.com/Bahadou-Badr/ResoNet-Music-Classification-API-Go/internal/inference"
)

const probeTimeout = 5 * time.Second

type healthResponse struct {
	Status          string    `json:"status"`
	Timestamp       time.Time `json:"timestamp"`
	WorkerAvailable bool      `json:"workerAvailable"`
}

// HealthHandler reports service health including worker runtime
// availability. Probing never runs a model, only a version check.
func (a *API) HealthHandler(w http.ResponseWriter, r *http.Request) {
	available := inference.Probe(r.Context(), a.Cfg.Worker.PythonPath, probeTimeout)
	status := "healthy"
	if !available {
		status = "degraded"
	}
	writeJSON(w, healthResponse{
		Status:          status,
		Timestamp:       time.Now().UTC(),
		WorkerAvailable: available,
	})
}

type infoResponse struct {
	Name      string   `json:"name"`
	Version   string   `json:"version"`
	Formats   []string `json:"acceptedFormats"`
	Endpoints []string `json:"endpoints"`
}

// InfoHandler describes the API surface.
func (a *API) InfoHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, infoResponse{
		Name:    "resonet-music-classification-api",
		Version: Version,
		Formats: a.Cfg.AcceptedFormats,
		Endpoints: []string{
			"GET /api/health",
			"GET /api/health/info",
			"POST /api/music/analyze",
			"POST /api/music/analyze/upload",
			"POST /api/music/analyze/preprocessed",
			"GET /api/music/analyses",
		},
	})
}
