package inference

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMaterializeAndRelease(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "artifacts")
	store := NewArtifactStore(dir)

	payload := []byte("RIFF....WAVEfmt ")
	path, err := store.Materialize(base64.StdEncoding.EncodeToString(payload), "wav")
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(path, ".wav"))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, payload, got)

	require.NoError(t, store.Release(path))
	_, err = os.Stat(path)
	require.True(t, os.IsNotExist(err))

	// directory is back to empty, no orphans
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestMaterializeCreatesTempDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "tmp")
	store := NewArtifactStore(dir)

	path, err := store.Materialize(base64.StdEncoding.EncodeToString([]byte("x")), "mp3")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Release(path) })

	_, err = os.Stat(dir)
	require.NoError(t, err)
}

func TestMaterializeInvalidBase64(t *testing.T) {
	store := NewArtifactStore(t.TempDir())

	_, err := store.Materialize("!!!not-base64!!!", "wav")
	var invalid *InvalidInputError
	require.ErrorAs(t, err, &invalid)
}

func TestMaterializeFallbackExtension(t *testing.T) {
	store := NewArtifactStore(t.TempDir())

	path, err := store.Materialize(base64.StdEncoding.EncodeToString([]byte("x")), "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Release(path) })
	require.True(t, strings.HasSuffix(path, ".bin"))
}

func TestMaterializeDistinctNames(t *testing.T) {
	store := NewArtifactStore(t.TempDir())
	encoded := base64.StdEncoding.EncodeToString([]byte("x"))

	a, err := store.Materialize(encoded, "wav")
	require.NoError(t, err)
	b, err := store.Materialize(encoded, "wav")
	require.NoError(t, err)
	require.NotEqual(t, a, b)
	require.NoError(t, store.Release(a))
	require.NoError(t, store.Release(b))
}

func TestReleaseIdempotent(t *testing.T) {
	store := NewArtifactStore(t.TempDir())

	path, err := store.Materialize(base64.StdEncoding.EncodeToString([]byte("x")), "wav")
	require.NoError(t, err)

	require.NoError(t, store.Release(path))
	require.NoError(t, store.Release(path)) // second call is a no-op
	require.NoError(t, store.Release(""))   // empty path too
}
