package inference

import (
	"encoding/json"
	"errors"
)

// rawSlot mirrors one prediction slot as the worker emits it. Every field is
// optional so that a partially populated payload degrades to defaults
// instead of aborting the parse.
type rawSlot struct {
	Label         *string            `json:"label"`
	Value         *float64           `json:"value"`
	Confidence    *float64           `json:"confidence"`
	Probabilities map[string]float64 `json:"probabilities"`
}

type rawPredictions struct {
	Genre *rawSlot `json:"genre"`
	Mood  *rawSlot `json:"mood"`
	BPM   *rawSlot `json:"bpm"`
	Key   *rawSlot `json:"key"`
}

type rawMetadata struct {
	ModelVersion          string  `json:"model_version"`
	ProcessingTimeSeconds float64 `json:"processing_time_seconds"`
	AudioDurationSeconds  float64 `json:"audio_duration_seconds"`
}

type rawOutput struct {
	Predictions *rawPredictions `json:"predictions"`
	Metadata    *rawMetadata    `json:"metadata"`
}

// Result is the normalized worker output.
type Result struct {
	Predictions          Predictions
	ModelVersion         string
	AudioDurationSeconds float64
}

// Normalize parses untrusted worker stdout into a typed, default-filled
// Result. Invalid JSON or a missing top-level predictions section is a
// MalformedOutputError; anything missing below that level becomes a safe
// default.
func Normalize(raw []byte) (Result, error) {
	var out rawOutput
	if err := json.Unmarshal(raw, &out); err != nil {
		return Result{}, &MalformedOutputError{Err: err}
	}
	if out.Predictions == nil {
		return Result{}, &MalformedOutputError{Err: errors.New("missing predictions section")}
	}

	res := Result{
		Predictions: Predictions{
			Genre: classification(out.Predictions.Genre),
			Mood:  classification(out.Predictions.Mood),
			Key:   classification(out.Predictions.Key),
			BPM:   tempo(out.Predictions.BPM),
		},
	}
	if out.Metadata != nil {
		res.ModelVersion = out.Metadata.ModelVersion
		res.AudioDurationSeconds = out.Metadata.AudioDurationSeconds
	}
	return res, nil
}

func classification(s *rawSlot) Classification {
	c := Classification{Label: UnknownLabel}
	if s == nil {
		return c
	}
	if s.Label != nil && *s.Label != "" {
		c.Label = *s.Label
	}
	if s.Confidence != nil {
		c.Confidence = *s.Confidence
	}
	if len(s.Probabilities) > 0 {
		c.Probabilities = s.Probabilities
	}
	return c
}

func tempo(s *rawSlot) Tempo {
	t := Tempo{}
	if s != nil {
		if s.Value != nil {
			t.Value = *s.Value
		}
		if s.Confidence != nil {
			t.Confidence = *s.Confidence
		}
	}
	t.Category = TempoCategory(t.Value)
	return t
}

// TempoCategory buckets a bpm value into one of five fixed labels using
// left-closed boundaries. Pure function of v.
func TempoCategory(v float64) string {
	switch {
	case v < 60:
		return "very_slow"
	case v < 90:
		return "slow"
	case v < 120:
		return "moderate"
	case v < 140:
		return "fast"
	default:
		return "very_fast"
	}
}
