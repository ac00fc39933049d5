package server

import (
	"context"
	"net/http"
	"os"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/Bahadou-Badr/ResoNet-Music-Classification-API-Go/internal/api"
	"github.com/Bahadou-Badr/ResoNet-Music-Classification-API-Go/internal/config"
	"github.com/Bahadou-Badr/ResoNet-Music-Classification-API-Go/internal/events"
	"github.com/Bahadou-Badr/ResoNet-Music-Classification-API-Go/internal/history"
	"github.com/Bahadou-Badr/ResoNet-Music-Classification-API-Go/internal/inference"
	"github.com/Bahadou-Badr/ResoNet-Music-Classification-API-Go/internal/logging"
	"github.com/Bahadou-Badr/ResoNet-Music-Classification-API-Go/internal/metrics"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

var healthy int32 = 1

// RunAPIServer starts the API server in-process. Caller cancels ctx to shut
// it down; shutdown closes the history store and event client too.
func RunAPIServer(ctx context.Context, cfg *config.Config) (*http.Server, error) {
	if err := logging.Init(cfg.Server.DevLogging); err != nil {
		return nil, err
	}
	logging.Logger.Info("server.RunAPIServer starting", zap.String("addr", cfg.Server.Addr))

	metrics.Register()

	if err := os.MkdirAll(cfg.Storage.TempDir, 0o755); err != nil {
		logging.Logger.Error("temp dir create failed", zap.Error(err))
		return nil, err
	}

	svc := inference.NewService(inference.Options{
		PythonPath: cfg.Worker.PythonPath,
		ScriptPath: cfg.Worker.ScriptPath,
		ModelPath:  cfg.Worker.ModelPath,
		WorkingDir: cfg.Worker.WorkingDir,
		TempDir:    cfg.Storage.TempDir,
		Timeout:    cfg.WorkerTimeout(),
	}, logging.Logger)

	// optional history store
	var store *history.Store
	if cfg.History.DatabaseURL != "" {
		s, err := history.New(ctx, cfg.History.DatabaseURL)
		if err != nil {
			logging.Logger.Error("history.New failed", zap.Error(err))
			return nil, err
		}
		if err := s.EnsureSchema(ctx); err != nil {
			logging.Logger.Error("EnsureSchema failed", zap.Error(err))
			s.Close()
			return nil, err
		}
		store = s
	}

	// optional event publisher
	var evClient *events.Client
	if cfg.Events.NatsURL != "" {
		c, err := events.NewClient(cfg.Events.NatsURL)
		if err != nil {
			logging.Logger.Error("events.NewClient failed", zap.Error(err))
			if store != nil {
				store.Close()
			}
			return nil, err
		}
		evClient = c
	}

	apiSvc := &api.API{
		Svc:     svc,
		Cfg:     cfg,
		History: store,
		Events:  evClient,
	}

	r := chi.NewRouter()
	r.Use(metricsMiddleware)
	r.Get("/health", healthHandler)
	r.Get("/ready", readyHandler)
	r.Handle("/metrics", promhttp.Handler())
	apiSvc.RegisterRoutes(r)

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 3 * cfg.WorkerTimeout(),
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		<-ctx.Done()
		logging.Logger.Info("server.RunAPIServer shutdown requested")
		atomic.StoreInt32(&healthy, 0)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		if store != nil {
			store.Close()
		}
		if evClient != nil {
			evClient.Close()
		}
	}()

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Logger.Error("ListenAndServe error", zap.Error(err))
		}
	}()

	return srv, nil
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		metrics.HTTPRequests.WithLabelValues(r.URL.Path, r.Method, strconv.Itoa(sw.status)).Inc()
	})
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

func readyHandler(w http.ResponseWriter, r *http.Request) {
	if atomic.LoadInt32(&healthy) == 1 {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ready":true}`))
		return
	}
	w.WriteHeader(http.StatusServiceUnavailable)
	_, _ = w.Write([]byte(`{"ready":false}`))
}
