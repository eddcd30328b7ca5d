package tmdb

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnavailable matches every failure to obtain a usable upstream response.
	ErrUnavailable = errors.New("tmdb: upstream unavailable")
	// ErrNotFound matches upstream 404 responses.
	ErrNotFound = errors.New("tmdb: not found")
)

// UnavailableError carries the upstream status (0 for transport failures) and message.
type UnavailableError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *UnavailableError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("tmdb: status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("tmdb: %s", e.Message)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// Is reports ErrUnavailable for every instance and ErrNotFound for 404s.
func (e *UnavailableError) Is(target error) bool {
	switch target {
	case ErrUnavailable:
		return true
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	}
	return false
}

func statusOf(err error) int {
	var ue *UnavailableError
	if errors.As(err, &ue) {
		return ue.StatusCode
	}
	return 0
}
