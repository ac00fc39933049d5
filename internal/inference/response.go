package inference

// UnknownLabel is the default for any classification slot the worker omitted.
const UnknownLabel = "unknown"

// Classification is one label/confidence slot (genre, mood, key).
type Classification struct {
	Label         string             `json:"label"`
	Confidence    float64            `json:"confidence"`
	Probabilities map[string]float64 `json:"probabilities,omitempty"`
}

// Tempo is the bpm slot with its derived category.
type Tempo struct {
	Value      float64 `json:"value"`
	Confidence float64 `json:"confidence"`
	Category   string  `json:"category"`
}

// Predictions holds the four analysis slots. The zero value (after
// applyDefaults) is a valid degraded result.
type Predictions struct {
	Genre Classification `json:"genre"`
	Mood  Classification `json:"mood"`
	BPM   Tempo          `json:"bpm"`
	Key   Classification `json:"key"`
}

// DefaultPredictions returns a fully defaulted predictions value: every
// label "unknown", every number zero, tempo category derived from zero.
func DefaultPredictions() Predictions {
	unknown := Classification{Label: UnknownLabel}
	return Predictions{
		Genre: unknown,
		Mood:  unknown,
		Key:   unknown,
		BPM:   Tempo{Category: TempoCategory(0)},
	}
}

// AudioMetadata describes the analyzed audio as far as it is known.
type AudioMetadata struct {
	DurationSeconds float64 `json:"durationSeconds"`
	SampleRate      int     `json:"sampleRate"`
	SizeBytes       int64   `json:"sizeBytes"`
	ModelVersion    string  `json:"modelVersion,omitempty"`
}

// Response is the well-formed analysis outcome. A response with warnings and
// defaulted predictions is the designed degradation mode, not an error.
type Response struct {
	FileName              string        `json:"fileName"`
	Predictions           Predictions   `json:"predictions"`
	ProcessingTimeSeconds float64       `json:"processingTimeSeconds"`
	Metadata              AudioMetadata `json:"metadata"`
	Warnings              []string      `json:"warnings"`
}
