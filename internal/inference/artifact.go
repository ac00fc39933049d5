package inference

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// fallbackExt is used when the request declares no audio format.
const fallbackExt = "bin"

// ArtifactStore owns temp audio files for the duration of one request.
// Names are uuid-based so concurrent requests never collide.
type ArtifactStore struct {
	dir string
}

func NewArtifactStore(dir string) *ArtifactStore {
	return &ArtifactStore{dir: dir}
}

// Dir returns the temp directory the store writes into.
func (s *ArtifactStore) Dir() string { return s.dir }

// Materialize decodes the base64 payload into a fresh temp file and returns
// its path. An undecodable payload is an InvalidInputError; disk trouble is
// an ArtifactIOError. The temp directory is created if absent.
func (s *ArtifactStore) Materialize(encoded, format string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", &InvalidInputError{Reason: "audio data is not valid base64", Err: err}
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", &ArtifactIOError{Op: "mkdir", Path: s.dir, Err: err}
	}
	ext := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(format)), ".")
	if ext == "" {
		ext = fallbackExt
	}
	path := filepath.Join(s.dir, uuid.NewString()+"."+ext)
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return "", &ArtifactIOError{Op: "write", Path: path, Err: err}
	}
	return path, nil
}

// Release deletes a materialized file. Idempotent: a missing file is a
// no-op, never an error.
func (s *ArtifactStore) Release(path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return &ArtifactIOError{Op: "remove", Path: path, Err: err}
	}
	return nil
}
