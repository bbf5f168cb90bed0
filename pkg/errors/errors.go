package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions
var (
	ErrNoClip        = errors.New("no clip loaded")
	ErrInvalidFormat = errors.New("unsupported audio format")
	ErrEventNotFound = errors.New("event index out of range")
	ErrHostResolved  = errors.New("content type is resolved by the host")
	ErrEmptyFolder   = errors.New("folder contains no playable audio")
)

// PlayerError wraps playback failures with the operation and clip involved.
// Op "open"/"decode" failures are the decode error class: no partial buffer
// is kept. Op "stream" failures mean the output device was unavailable.
type PlayerError struct {
	Op   string // Operation that failed
	Clip string // Clip path if applicable
	Err  error  // Underlying error
}

func (e *PlayerError) Error() string {
	if e.Clip != "" {
		return fmt.Sprintf("%s failed for %s: %v", e.Op, e.Clip, e.Err)
	}
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *PlayerError) Unwrap() error {
	return e.Err
}

// NewPlayerError creates a new PlayerError
func NewPlayerError(op, clip string, err error) *PlayerError {
	return &PlayerError{Op: op, Clip: clip, Err: err}
}

// ScanError represents a failure while resolving a clip path
type ScanError struct {
	Path string
	Err  error
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("scan error at %s: %v", e.Path, e.Err)
}

func (e *ScanError) Unwrap() error {
	return e.Err
}

// StoreError is the persistence error class: a whole-file rewrite of the
// event store failed. The in-memory sequence is retained so the caller can
// fix the cause and retry the save.
type StoreError struct {
	Op   string
	Path string
	Err  error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
