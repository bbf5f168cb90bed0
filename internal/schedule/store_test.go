package schedule

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scsbarna-pixel/automatizador/api"
	autoerrors "github.com/scsbarna-pixel/automatizador/pkg/errors"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "events.json"))
}

func sampleEvent(name, clock string) api.Event {
	return api.Event{
		Name:        name,
		Time:        clock,
		Periodicity: api.PeriodicityOnce,
		Days:        api.AllDays(),
		Active:      true,
		Priority:    api.PriorityLow,
		Type:        api.TypeFile,
		Value:       "/audio/" + name + ".mp3",
	}
}

func TestStore_LoadMissingFile(t *testing.T) {
	s := newTestStore(t)
	assert.Empty(t, s.Load(), "missing file should load as an empty sequence")
}

func TestStore_LoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0644))

	s := NewStore(path)
	assert.Empty(t, s.Load(), "malformed file should load as an empty sequence")
}

func TestStore_AppendPersistsWholeFile(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Append(sampleEvent("jingle", "08:00:00")))
	require.NoError(t, s.Append(sampleEvent("news", "09:00:00")))

	// A fresh store over the same path sees both records in order.
	reread := NewStore(s.path).Load()
	require.Len(t, reread, 2)
	assert.Equal(t, "jingle", reread[0].Name)
	assert.Equal(t, "news", reread[1].Name)
}

func TestStore_UpdateReplacesRecord(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Append(sampleEvent("jingle", "08:00:00")))

	updated := sampleEvent("jingle", "08:30:00")
	require.NoError(t, s.Update(0, updated))

	reread := NewStore(s.path).Load()
	require.Len(t, reread, 1)
	assert.Equal(t, "08:30:00", reread[0].Time)
}

func TestStore_DeleteShiftsPositions(t *testing.T) {
	s := newTestStore(t)
	for _, name := range []string{"a", "b", "c"} {
		require.NoError(t, s.Append(sampleEvent(name, "08:00:00")))
	}

	require.NoError(t, s.Delete(1))

	reread := NewStore(s.path).Load()
	require.Len(t, reread, 2)
	assert.Equal(t, "a", reread[0].Name)
	assert.Equal(t, "c", reread[1].Name, "record after the deleted one shifts down")
}

func TestStore_ToggleActivePersists(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Append(sampleEvent("jingle", "08:00:00")))

	active, err := s.ToggleActive(0)
	require.NoError(t, err)
	assert.False(t, active)

	reread := NewStore(s.path).Load()
	require.Len(t, reread, 1)
	assert.False(t, reread[0].Active, "reload must reflect the flipped value")

	active, err = s.ToggleActive(0)
	require.NoError(t, err)
	assert.True(t, active)
}

func TestStore_DuplicateAppendsDeepCopy(t *testing.T) {
	s := newTestStore(t)
	ev := sampleEvent("top", "10:00:00")
	ev.Periodicity = api.PeriodicityGrid
	ev.OtherHours = []int{9, 13}
	require.NoError(t, s.Append(ev))

	require.NoError(t, s.Duplicate(0))

	events := NewStore(s.path).Load()
	require.Len(t, events, 2)
	assert.Equal(t, "top (copy)", events[1].Name)
	assert.Equal(t, []int{9, 13}, events[1].OtherHours)

	// Mutating the copy must not leak into the original's slices.
	events[1].OtherHours[0] = 0
	assert.Equal(t, 9, events[0].OtherHours[0])
}

func TestStore_IndexOutOfRange(t *testing.T) {
	s := newTestStore(t)
	assert.ErrorIs(t, s.Update(0, sampleEvent("x", "08:00:00")), autoerrors.ErrEventNotFound)
	assert.ErrorIs(t, s.Delete(3), autoerrors.ErrEventNotFound)
	_, err := s.ToggleActive(-1)
	assert.ErrorIs(t, err, autoerrors.ErrEventNotFound)
}

func TestStore_SaveFailureKeepsMemory(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(filepath.Join(dir, "sub", "events.json")) // parent dir missing

	err := s.Append(sampleEvent("jingle", "08:00:00"))
	require.Error(t, err)

	var storeErr *autoerrors.StoreError
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, 1, s.Len(), "in-memory sequence is retained for retry")

	// After fixing the cause, the retry persists the pending mutation.
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0755))
	require.NoError(t, s.save())
	assert.Len(t, NewStore(s.path).Load(), 1)
}

func TestStore_FileIsPlainJSONSequence(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Append(sampleEvent("jingle", "08:00:00")))

	data, err := os.ReadFile(s.path)
	require.NoError(t, err)

	var raw []map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))
	require.Len(t, raw, 1)
	assert.Equal(t, "08:00:00", raw[0]["time"])
	assert.Equal(t, "once", raw[0]["periodicity"])
}
