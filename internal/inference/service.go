package inference

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/Bahadou-Badr/ResoNet-Music-Classification-API-Go/internal/metrics"
	"go.uber.org/zap"
)

// Options carries the immutable worker configuration a Service needs.
type Options struct {
	PythonPath string
	ScriptPath string
	ModelPath  string
	WorkingDir string
	TempDir    string
	Timeout    time.Duration
}

// Service is the orchestration façade: request in, well-formed response out.
// Analysis failures never escape as errors; they become warnings on the
// response with predictions left at defaults.
type Service struct {
	opts   Options
	store  *ArtifactStore
	logger *zap.Logger
}

func NewService(opts Options, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		opts:   opts,
		store:  NewArtifactStore(opts.TempDir),
		logger: logger,
	}
}

// Store exposes the artifact store, mainly for tests.
func (s *Service) Store() *ArtifactStore { return s.store }

// Analyze runs one request end to end. The only error it ever returns is an
// *InvalidInputError raised before orchestration (no usable input, or a
// payload that cannot be decoded). Everything downstream of a successful
// materialize is recovered into response warnings.
func (s *Service) Analyze(ctx context.Context, req Request) (Response, error) {
	start := time.Now()
	resp := Response{
		FileName:    req.FileName,
		Predictions: DefaultPredictions(),
		Warnings:    []string{},
	}

	if !req.HasInput() {
		return resp, &InvalidInputError{Reason: "no audio data, features path, or spectrogram path provided"}
	}

	var audioPath string
	if req.AudioData != "" {
		path, err := s.store.Materialize(req.AudioData, req.Format)
		if err != nil {
			var invalid *InvalidInputError
			if errors.As(err, &invalid) {
				return resp, err
			}
			// temp-file trouble degrades, it does not reject
			s.degrade(&resp, err)
			resp.ProcessingTimeSeconds = time.Since(start).Seconds()
			return resp, nil
		}
		audioPath = path
		if fi, statErr := os.Stat(audioPath); statErr == nil {
			resp.Metadata.SizeBytes = fi.Size()
		}
		defer func() {
			if relErr := s.store.Release(audioPath); relErr != nil {
				// best-effort cleanup: log, never fail the request
				s.logger.Warn("temp artifact release failed",
					zap.String("path", audioPath), zap.Error(relErr))
			}
		}()
	}

	out, err := Invoke(ctx, Invocation{
		PythonPath:      s.opts.PythonPath,
		ScriptPath:      s.opts.ScriptPath,
		ModelPath:       s.opts.ModelPath,
		AudioPath:       audioPath,
		FeaturesPath:    req.FeaturesPath,
		SpectrogramPath: req.SpectrogramPath,
		WorkingDir:      s.opts.WorkingDir,
		Timeout:         s.opts.Timeout,
	})
	if err != nil {
		s.degrade(&resp, err)
		resp.ProcessingTimeSeconds = time.Since(start).Seconds()
		return resp, nil
	}

	result, err := Normalize(out)
	if err != nil {
		s.degrade(&resp, err)
		resp.ProcessingTimeSeconds = time.Since(start).Seconds()
		return resp, nil
	}

	resp.Predictions = result.Predictions
	resp.Metadata.DurationSeconds = result.AudioDurationSeconds
	resp.Metadata.ModelVersion = result.ModelVersion
	resp.ProcessingTimeSeconds = time.Since(start).Seconds()
	return resp, nil
}

// degrade records an analysis failure as a warning and instruments it.
func (s *Service) degrade(resp *Response, err error) {
	resp.Warnings = append(resp.Warnings, "Analysis failed: "+failureDetail(err))
	metrics.WorkerFailures.WithLabelValues(failureKind(err)).Inc()
	s.logger.Warn("analysis degraded",
		zap.String("file", resp.FileName),
		zap.String("kind", failureKind(err)),
		zap.Error(err))
}

func failureDetail(err error) string {
	var execErr *WorkerExecutionError
	if errors.As(err, &execErr) {
		return execErr.Detail()
	}
	return err.Error()
}

func failureKind(err error) string {
	var (
		timeoutErr   *WorkerTimeoutError
		execErr      *WorkerExecutionError
		malformedErr *MalformedOutputError
		artifactErr  *ArtifactIOError
	)
	switch {
	case errors.As(err, &timeoutErr):
		return "timeout"
	case errors.As(err, &execErr):
		return "execution"
	case errors.As(err, &malformedErr):
		return "malformed_output"
	case errors.As(err, &artifactErr):
		return "artifact_io"
	default:
		return "internal"
	}
}
