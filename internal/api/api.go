package api

import (
	"encoding/json"
	"net/http"

	"github.com/Bahadou-Badr/ResoNet-Music-Classification-API-Go/internal/config"
	"github.com/Bahadou-Badr/ResoNet-Music-Classification-API-Go/internal/events"
	"github.com/Bahadou-Badr/ResoNet-Music-Classification-API-Go/internal/history"
	"github.com/Bahadou-Badr/ResoNet-Music-Classification-API-Go/internal/inference"
	"github.com/go-chi/chi/v5"
)

// Version reported by the info endpoint.
const Version = "1.0.0"

// API bundles the handlers' collaborators. History and Events are optional
// and may be nil.
type API struct {
	Svc     *inference.Service
	Cfg     *config.Config
	History *history.Store
	Events  *events.Client
}

// RegisterRoutes mounts the music analysis API.
func (a *API) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", a.HealthHandler)
		r.Get("/health/info", a.InfoHandler)
		r.Route("/music", func(r chi.Router) {
			r.Post("/analyze", a.AnalyzeHandler)
			r.Post("/analyze/upload", a.UploadHandler)
			r.Post("/analyze/preprocessed", a.PreprocessedHandler)
			r.Get("/analyses", a.ListAnalysesHandler)
		})
	})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
