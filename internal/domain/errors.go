package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidResolution  = errors.New("invalid resolution")
	ErrInvalidExtent      = errors.New("invalid extent")
	ErrDatasetUnavailable = errors.New("map dataset unavailable")
	ErrCaptureFailed      = errors.New("extent capture failed")
)

// ErrCaptureAborted wraps ErrCaptureFailed so callers can match the whole
// capture family with a single errors.Is check.
var ErrCaptureAborted = fmt.Errorf("aborted by user: %w", ErrCaptureFailed)
