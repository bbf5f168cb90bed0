package schedule

import (
	"encoding/json"
	"os"

	"github.com/scsbarna-pixel/automatizador/api"
	autoerrors "github.com/scsbarna-pixel/automatizador/pkg/errors"
)

// Store owns the persisted sequence of scheduling rules. Records carry no
// identifier: callers address them by position, so the stored order is part
// of the contract (first-match-wins in the trigger scan, shifting indexes on
// delete). Every mutation rewrites the whole file; a change is durable only
// once the rewrite succeeds. A single logical writer is assumed.
type Store struct {
	path   string
	events []api.Event
}

// NewStore creates a store over the given file path. Nothing is read until
// Load is called.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads the full persisted sequence into memory and returns a copy.
// A missing or malformed file yields an empty sequence, never an error:
// the operator rebuilds the schedule from the editor.
func (s *Store) Load() []api.Event {
	s.events = nil

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil
	}

	var events []api.Event
	if err := json.Unmarshal(data, &events); err != nil {
		return nil
	}

	s.events = events
	return s.Events()
}

// Events returns a copy of the in-memory sequence.
func (s *Store) Events() []api.Event {
	out := make([]api.Event, len(s.events))
	for i, e := range s.events {
		out[i] = e.Clone()
	}
	return out
}

// Len returns the number of records currently in memory.
func (s *Store) Len() int {
	return len(s.events)
}

// Append adds a record at the end of the sequence and persists.
func (s *Store) Append(e api.Event) error {
	s.events = append(s.events, e.Clone())
	return s.save()
}

// Update replaces the record at index and persists.
func (s *Store) Update(index int, e api.Event) error {
	if index < 0 || index >= len(s.events) {
		return autoerrors.ErrEventNotFound
	}
	s.events[index] = e.Clone()
	return s.save()
}

// Delete removes the record at index and persists. Every later record
// shifts down one position.
func (s *Store) Delete(index int) error {
	if index < 0 || index >= len(s.events) {
		return autoerrors.ErrEventNotFound
	}
	s.events = append(s.events[:index], s.events[index+1:]...)
	return s.save()
}

// ToggleActive flips the active flag of the record at index and persists
// immediately, independent of any other pending edit. Returns the new value.
func (s *Store) ToggleActive(index int) (bool, error) {
	if index < 0 || index >= len(s.events) {
		return false, autoerrors.ErrEventNotFound
	}
	s.events[index].Active = !s.events[index].Active
	return s.events[index].Active, s.save()
}

// Duplicate deep-copies the record at index, marks the copy's name, appends
// it at the end of the sequence and persists.
func (s *Store) Duplicate(index int) error {
	if index < 0 || index >= len(s.events) {
		return autoerrors.ErrEventNotFound
	}
	c := s.events[index].Clone()
	c.Name = c.Name + " (copy)"
	s.events = append(s.events, c)
	return s.save()
}

// save rewrites the whole persisted file. On failure the in-memory sequence
// keeps the mutation so the caller can retry without re-entering data.
func (s *Store) save() error {
	data, err := json.MarshalIndent(s.events, "", "  ")
	if err != nil {
		return &autoerrors.StoreError{Op: "encode", Path: s.path, Err: err}
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return &autoerrors.StoreError{Op: "write", Path: s.path, Err: err}
	}
	return nil
}
