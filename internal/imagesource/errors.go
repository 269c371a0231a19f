package imagesource

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInputKind is returned when the source is not a string.
	ErrInvalidInputKind = errors.New("image source must be a string (file path or URL)")
	// ErrFileNotFound is returned when a local source does not exist.
	ErrFileNotFound = errors.New("image file not found")
	// ErrFileRead is returned when a local source exists but cannot be read.
	ErrFileRead = errors.New("image file not readable")
	// ErrRemoteFetch is returned when a remote source cannot be downloaded.
	ErrRemoteFetch = errors.New("image download failed")
)

// FetchError describes a failed download. It matches ErrRemoteFetch with
// errors.Is. StatusCode is zero when no response was received.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: %s: status %d", ErrRemoteFetch, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("%s: %s: %v", ErrRemoteFetch, e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

func (e *FetchError) Is(target error) bool { return target == ErrRemoteFetch }
