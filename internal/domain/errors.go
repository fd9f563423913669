package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when an operation references an id that is not
// (or is no longer) in the store.
var ErrNotFound = errors.New("request not found")

// ValidationError reports malformed or missing input. Field names the
// offending field so clients can surface the message inline.
type ValidationError struct {
	Field string
	Msg   string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

// InvalidStatusError reports a status value outside the workflow enum.
type InvalidStatusError struct {
	Status string
}

func (e InvalidStatusError) Error() string {
	return fmt.Sprintf("invalid status %q", e.Status)
}
