package api

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/Bahadou-Badr/ResoNet-Music-Classification-API-Go/internal/events"
	"github.com/Bahadou-Badr/ResoNet-Music-Classification-API-Go/internal/history"
	"github.com/Bahadou-Badr/ResoNet-Music-Classification-API-Go/internal/inference"
	"github.com/Bahadou-Badr/ResoNet-Music-Classification-API-Go/internal/metrics"

	"github.com/rs/zerolog/log"
)

type analyzeRequest struct {
	AudioData string `json:"audioData"`
	FileName  string `json:"fileName"`
	Format    string `json:"format"`
}

// AnalyzeHandler accepts a JSON payload with base64 audio bytes.
func (a *API) AnalyzeHandler(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.AudioData == "" {
		http.Error(w, "audioData is required", http.StatusBadRequest)
		return
	}
	format := strings.ToLower(strings.TrimSpace(req.Format))
	if format != "" && !a.Cfg.FormatAccepted(format) {
		http.Error(w, "unsupported audio format: "+format, http.StatusBadRequest)
		return
	}
	if int64(base64.StdEncoding.DecodedLen(len(req.AudioData))) > a.Cfg.MaxFileSizeBytes() {
		http.Error(w, "audio payload exceeds size limit", http.StatusRequestEntityTooLarge)
		return
	}

	a.runAnalysis(w, r, "json", inference.Request{
		AudioData: req.AudioData,
		FileName:  req.FileName,
		Format:    format,
	})
}

// UploadHandler accepts a multipart upload with a "file" field.
func (a *API) UploadHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, a.Cfg.MaxFileSizeBytes()+(1<<20))
	if err := r.ParseMultipartForm(a.Cfg.MaxFileSizeBytes()); err != nil {
		http.Error(w, "failed to parse multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "field 'file' is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		log.Error().Err(err).Msg("read upload failed")
		http.Error(w, "failed to read file", http.StatusInternalServerError)
		return
	}
	if len(data) == 0 {
		http.Error(w, "uploaded file is empty", http.StatusBadRequest)
		return
	}
	if int64(len(data)) > a.Cfg.MaxFileSizeBytes() {
		http.Error(w, "file exceeds size limit", http.StatusRequestEntityTooLarge)
		return
	}

	filename := filepath.Base(header.Filename)
	format := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if format != "" && !a.Cfg.FormatAccepted(format) {
		http.Error(w, "unsupported audio format: "+format, http.StatusBadRequest)
		return
	}

	a.runAnalysis(w, r, "upload", inference.Request{
		AudioData: base64.StdEncoding.EncodeToString(data),
		FileName:  filename,
		Format:    format,
	})
}

// PreprocessedHandler analyzes precomputed feature/spectrogram artifacts
// addressed by path, skipping the temp-file step entirely.
func (a *API) PreprocessedHandler(w http.ResponseWriter, r *http.Request) {
	featuresPath := r.URL.Query().Get("featuresPath")
	spectrogramPath := r.URL.Query().Get("spectrogramPath")
	fileName := r.URL.Query().Get("fileName")

	if featuresPath == "" && spectrogramPath == "" {
		http.Error(w, "featuresPath or spectrogramPath is required", http.StatusBadRequest)
		return
	}

	a.runAnalysis(w, r, "preprocessed", inference.Request{
		FileName:        fileName,
		FeaturesPath:    featuresPath,
		SpectrogramPath: spectrogramPath,
	})
}

// runAnalysis drives the orchestrator and handles the shared response path.
// Analysis failures come back inside the response as warnings (fail-soft);
// only input rejection maps to a 4xx.
func (a *API) runAnalysis(w http.ResponseWriter, r *http.Request, source string, req inference.Request) {
	metrics.CurrentAnalyses.Inc()
	defer metrics.CurrentAnalyses.Dec()

	resp, err := a.Svc.Analyze(r.Context(), req)
	if err != nil {
		var invalid *inference.InvalidInputError
		if errors.As(err, &invalid) {
			metrics.AnalysesProcessed.WithLabelValues("rejected", source).Inc()
			http.Error(w, invalid.Error(), http.StatusBadRequest)
			return
		}
		log.Error().Err(err).Str("file", req.FileName).Msg("analysis failed unexpectedly")
		http.Error(w, "analysis failed", http.StatusInternalServerError)
		return
	}

	outcome := "ok"
	if len(resp.Warnings) > 0 {
		outcome = "degraded"
	}
	metrics.AnalysesProcessed.WithLabelValues(outcome, source).Inc()
	metrics.AnalysisDuration.WithLabelValues(source).Observe(resp.ProcessingTimeSeconds)

	a.record(r, resp)

	log.Info().
		Str("file", resp.FileName).
		Str("source", source).
		Str("outcome", outcome).
		Float64("seconds", resp.ProcessingTimeSeconds).
		Msg("analysis completed")
	writeJSON(w, resp)
}

// record persists and publishes the outcome, best effort.
func (a *API) record(r *http.Request, resp inference.Response) {
	ctx := r.Context()
	if a.History != nil {
		_, err := a.History.Save(ctx, history.Record{
			FileName:          resp.FileName,
			Genre:             resp.Predictions.Genre.Label,
			GenreConfidence:   resp.Predictions.Genre.Confidence,
			Mood:              resp.Predictions.Mood.Label,
			MoodConfidence:    resp.Predictions.Mood.Confidence,
			MusicalKey:        resp.Predictions.Key.Label,
			KeyConfidence:     resp.Predictions.Key.Confidence,
			BPM:               resp.Predictions.BPM.Value,
			BPMCategory:       resp.Predictions.BPM.Category,
			ProcessingSeconds: resp.ProcessingTimeSeconds,
			Warnings:          resp.Warnings,
		})
		if err != nil {
			log.Error().Err(err).Msg("failed to save analysis record")
		}
	}
	if a.Events != nil {
		err := a.Events.PublishAnalysis(ctx, events.AnalysisEvent{
			FileName:    resp.FileName,
			Genre:       resp.Predictions.Genre.Label,
			Mood:        resp.Predictions.Mood.Label,
			MusicalKey:  resp.Predictions.Key.Label,
			BPM:         resp.Predictions.BPM.Value,
			BPMCategory: resp.Predictions.BPM.Category,
			Warnings:    resp.Warnings,
			ProcessedAt: time.Now().UTC(),
		})
		if err != nil {
			log.Error().Err(err).Msg("failed to publish analysis event")
		}
	}
}

// ListAnalysesHandler returns recent stored analyses when history is enabled.
func (a *API) ListAnalysesHandler(w http.ResponseWriter, r *http.Request) {
	if a.History == nil {
		http.Error(w, "analysis history is not configured", http.StatusServiceUnavailable)
		return
	}
	records, err := a.History.Recent(r.Context(), 50)
	if err != nil {
		log.Error().Err(err).Msg("list analyses failed")
		http.Error(w, "list analyses failed", http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []history.Record{}
	}
	writeJSON(w, records)
}
