package cards

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrSubmitInProgress is returned when a submit is attempted while the
// previous one has not completed yet.
var ErrSubmitInProgress = errors.New("submit already in progress")

// ValidationErrors maps a field name to its error message.
// It blocks submission and is shown inline next to the field.
type ValidationErrors map[string]string

// Error implements the error interface. Fields are listed in name order.
func (v ValidationErrors) Error() string {
	names := make([]string, 0, len(v))
	for name := range v {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = name + ": " + v[name]
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// Request operations reported by RequestFailure.
const (
	OpLoad   = "loading"
	OpCreate = "creating"
	OpUpdate = "updating"
	OpDelete = "deleting"
)

// RequestFailure wraps a network or server error from the API.
// It is not retried; the caller surfaces it with GenericFailureMessage.
type RequestFailure struct {
	Op  string
	ID  string // empty for list loads
	Err error
}

func (e *RequestFailure) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s entries: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s entry %q: %v", e.Op, e.ID, e.Err)
}

func (e *RequestFailure) Unwrap() error { return e.Err }
