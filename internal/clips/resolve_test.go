package clips

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scsbarna-pixel/automatizador/api"
	autoerrors "github.com/scsbarna-pixel/automatizador/pkg/errors"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
}

func TestResolve_File(t *testing.T) {
	dir := t.TempDir()
	clip := filepath.Join(dir, "jingle.mp3")
	touch(t, clip)

	got, err := Resolve(api.Event{Type: api.TypeFile, Value: clip})
	require.NoError(t, err)
	assert.Equal(t, clip, got)
}

func TestResolve_FileMissing(t *testing.T) {
	_, err := Resolve(api.Event{Type: api.TypeFile, Value: "/no/such/clip.mp3"})
	require.Error(t, err)

	var scanErr *autoerrors.ScanError
	assert.ErrorAs(t, err, &scanErr)
}

func TestResolve_FileUnsupportedFormat(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "notes.txt")
	touch(t, doc)

	_, err := Resolve(api.Event{Type: api.TypeFile, Value: doc})
	assert.ErrorIs(t, err, autoerrors.ErrInvalidFormat)
}

func TestResolve_RandomPicksFromFolder(t *testing.T) {
	dir := t.TempDir()
	want := map[string]bool{
		filepath.Join(dir, "a.mp3"):          true,
		filepath.Join(dir, "b.wav"):          true,
		filepath.Join(dir, "deep", "c.flac"): true,
	}
	for p := range want {
		touch(t, p)
	}
	touch(t, filepath.Join(dir, "cover.jpg")) // never picked

	for i := 0; i < 20; i++ {
		got, err := Resolve(api.Event{Type: api.TypeRandom, Value: dir})
		require.NoError(t, err)
		assert.True(t, want[got], "picked unexpected file %s", got)
	}
}

func TestResolve_RandomEmptyFolder(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "cover.jpg"))

	_, err := Resolve(api.Event{Type: api.TypeRandom, Value: dir})
	assert.ErrorIs(t, err, autoerrors.ErrEmptyFolder)
}

func TestResolve_HostOwnedTypes(t *testing.T) {
	for _, typ := range []api.EventType{api.TypeTime, api.TypeTemp, api.TypeSat} {
		_, err := Resolve(api.Event{Type: typ})
		assert.ErrorIs(t, err, autoerrors.ErrHostResolved, "type %s", typ)
	}
}

func TestReadInfo_Untagged(t *testing.T) {
	dir := t.TempDir()
	clip := filepath.Join(dir, "legal-id.mp3")
	touch(t, clip)

	info, err := ReadInfo(clip)
	require.NoError(t, err)
	assert.Equal(t, "legal-id.mp3", info.Title)
}
