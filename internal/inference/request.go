package inference

// Request is the analysis input handed to the orchestrator. Exactly one of
// the two source kinds is expected: inline base64 audio, or a pair of
// precomputed artifact paths produced by an offline feature extractor.
type Request struct {
	AudioData       string // base64-encoded audio bytes
	FileName        string
	Format          string // declared audio format, e.g. "wav"
	FeaturesPath    string
	SpectrogramPath string
}

// HasInput reports whether the request carries any usable source. Requests
// without one are rejected before orchestration begins.
func (r Request) HasInput() bool {
	return r.AudioData != "" || r.FeaturesPath != "" || r.SpectrogramPath != ""
}
