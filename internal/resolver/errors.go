package resolver

import (
	"errors"
	"fmt"
)

// ErrSearch wraps every failure of the remote search lookup.
var ErrSearch = errors.New("template search failed")

// StatusError is returned when the search API answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Term       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("search API failed (%d) for term: %s", e.StatusCode, e.Term)
}

// Unwrap lets callers match StatusError with errors.Is(err, ErrSearch).
func (e *StatusError) Unwrap() error {
	return ErrSearch
}
