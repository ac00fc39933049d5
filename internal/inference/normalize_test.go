package inference

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTempoCategoryBoundaries(t *testing.T) {
	cases := []struct {
		value float64
		want  string
	}{
		{0, "very_slow"},
		{59.999, "very_slow"},
		{60, "slow"},
		{89.999, "slow"},
		{90, "moderate"},
		{119.999, "moderate"},
		{120, "fast"},
		{139.999, "fast"},
		{140, "very_fast"},
		{210.5, "very_fast"},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, TempoCategory(tc.value), "bpm=%v", tc.value)
	}
}

func TestNormalizeFullOutput(t *testing.T) {
	raw := []byte(`{"predictions":{"genre":{"label":"rock","confidence":0.85},"mood":{"label":"energetic","confidence":0.78},"bpm":{"value":120.5,"confidence":0.82},"key":{"label":"C","confidence":0.71}},"metadata":{"model_version":"1.0.0","processing_time_seconds":1.2,"audio_duration_seconds":182.4}}`)

	res, err := Normalize(raw)
	require.NoError(t, err)
	require.Equal(t, "rock", res.Predictions.Genre.Label)
	require.Equal(t, 0.85, res.Predictions.Genre.Confidence)
	require.Equal(t, "energetic", res.Predictions.Mood.Label)
	require.Equal(t, 120.5, res.Predictions.BPM.Value)
	require.Equal(t, "fast", res.Predictions.BPM.Category)
	require.Equal(t, "C", res.Predictions.Key.Label)
	require.Equal(t, "1.0.0", res.ModelVersion)
	require.Equal(t, 182.4, res.AudioDurationSeconds)
}

func TestNormalizeMissingMoodDefaults(t *testing.T) {
	raw := []byte(`{"predictions":{"genre":{"label":"jazz","confidence":0.9},"bpm":{"value":95},"key":{"label":"F#"}}}`)

	res, err := Normalize(raw)
	require.NoError(t, err)
	require.Equal(t, UnknownLabel, res.Predictions.Mood.Label)
	require.Equal(t, 0.0, res.Predictions.Mood.Confidence)
	// key confidence missing but label present
	require.Equal(t, "F#", res.Predictions.Key.Label)
	require.Equal(t, 0.0, res.Predictions.Key.Confidence)
	// bpm confidence missing, category still derived
	require.Equal(t, "moderate", res.Predictions.BPM.Category)
}

func TestNormalizeEmptySlotsDefault(t *testing.T) {
	raw := []byte(`{"predictions":{"genre":{},"mood":{"confidence":0.5},"bpm":{},"key":null}}`)

	res, err := Normalize(raw)
	require.NoError(t, err)
	require.Equal(t, UnknownLabel, res.Predictions.Genre.Label)
	require.Equal(t, UnknownLabel, res.Predictions.Mood.Label)
	require.Equal(t, 0.5, res.Predictions.Mood.Confidence)
	require.Equal(t, UnknownLabel, res.Predictions.Key.Label)
	require.Equal(t, 0.0, res.Predictions.BPM.Value)
	require.Equal(t, "very_slow", res.Predictions.BPM.Category)
}

func TestNormalizeProbabilities(t *testing.T) {
	raw := []byte(`{"predictions":{"genre":{"label":"rock","confidence":0.6,"probabilities":{"rock":0.6,"pop":0.3,"jazz":0.1}}}}`)

	res, err := Normalize(raw)
	require.NoError(t, err)
	require.Len(t, res.Predictions.Genre.Probabilities, 3)
	require.Equal(t, 0.6, res.Predictions.Genre.Probabilities["rock"])
}

func TestNormalizeInvalidJSON(t *testing.T) {
	_, err := Normalize([]byte("this is not json"))
	var malformed *MalformedOutputError
	require.ErrorAs(t, err, &malformed)
}

func TestNormalizeMissingPredictionsSection(t *testing.T) {
	_, err := Normalize([]byte(`{"metadata":{"model_version":"1.0.0"}}`))
	var malformed *MalformedOutputError
	require.ErrorAs(t, err, &malformed)
}
