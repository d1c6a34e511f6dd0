package api

import (
	"fmt"
	"net/http"
)

// ErrorResponse is the JSON error envelope returned by the password-cards server.
type ErrorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Code    int
	Message string // envelope message, or the status text
	Detail  string // envelope error field, if any
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("server returned %d %s: %s", e.Code, e.Message, e.Detail)
	}
	return fmt.Sprintf("server returned %d %s", e.Code, e.Message)
}

// NotFound reports whether the server did not know the addressed entry.
func (e *StatusError) NotFound() bool { return e.Code == http.StatusNotFound }

// Conflict reports whether the entry collided with an existing id or URL.
func (e *StatusError) Conflict() bool { return e.Code == http.StatusConflict }
