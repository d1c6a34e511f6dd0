package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"sync"

	"pwcards/internal/cards"
	"pwcards/internal/model"
)

// MemoryAPI is an in-memory implementation of cards.API with the same
// conflict rules as the password-cards server: ids and URLs are unique.
// This implementation is safe for concurrent use.
type MemoryAPI struct {
	mu      sync.RWMutex
	entries []model.PasswordEntry
}

var _ cards.API = (*MemoryAPI)(nil)

// NewMemoryAPI creates a MemoryAPI seeded with entries.
func NewMemoryAPI(entries ...model.PasswordEntry) *MemoryAPI {
	return &MemoryAPI{entries: slices.Clone(entries)}
}

// List returns a copy of all entries in insertion order.
func (m *MemoryAPI) List(_ context.Context) ([]model.PasswordEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]model.PasswordEntry, len(m.entries))
	copy(out, m.entries)
	return out, nil
}

// Create appends entry unless its id or URL is already taken.
func (m *MemoryAPI) Create(_ context.Context, entry model.PasswordEntry) (model.PasswordEntry, error) {
	if err := validateEntry(entry); err != nil {
		return model.PasswordEntry{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, e := range m.entries {
		if e.ID == entry.ID {
			return model.PasswordEntry{}, conflict(fmt.Sprintf("password with ID %q already exists", entry.ID))
		}
		if e.URL == entry.URL {
			return model.PasswordEntry{}, conflict(fmt.Sprintf("password with URL %q already exists", entry.URL))
		}
	}

	m.entries = append(m.entries, entry)
	return entry, nil
}

// Update replaces the entry addressed by id in place.
func (m *MemoryAPI) Update(_ context.Context, id string, entry model.PasswordEntry) (model.PasswordEntry, error) {
	entry.ID = id
	if err := validateEntry(entry); err != nil {
		return model.PasswordEntry{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	idx := -1
	for i, e := range m.entries {
		if e.ID != id && e.URL == entry.URL {
			return model.PasswordEntry{}, conflict(fmt.Sprintf("password with URL %q already exists", entry.URL))
		}
		if e.ID == id {
			idx = i
		}
	}
	if idx < 0 {
		return model.PasswordEntry{}, notFound(id)
	}

	m.entries[idx] = entry
	return entry, nil
}

// Delete removes the entry addressed by id.
func (m *MemoryAPI) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, e := range m.entries {
		if e.ID == id {
			m.entries = slices.Delete(m.entries, i, i+1)
			return nil
		}
	}
	return notFound(id)
}

// validateEntry applies the server's rules, which are stricter than the
// client's: blank values are rejected and the URL must parse.
func validateEntry(e model.PasswordEntry) *StatusError {
	var detail string
	switch {
	case strings.TrimSpace(e.ID) == "":
		detail = "invalid id"
	case strings.TrimSpace(e.Name) == "":
		detail = "invalid name"
	case strings.TrimSpace(e.Username) == "":
		detail = "username can't be empty"
	case strings.TrimSpace(e.Password) == "":
		detail = "password can't be empty"
	case strings.TrimSpace(e.URL) == "":
		detail = "invalid URL"
	default:
		if _, err := url.Parse(e.URL); err != nil {
			detail = fmt.Sprintf("invalid URL provided: %v", err)
		}
	}
	if detail == "" {
		return nil
	}
	return &StatusError{Code: http.StatusBadRequest, Message: "Validation error.", Detail: detail}
}

func conflict(detail string) *StatusError {
	return &StatusError{Code: http.StatusConflict, Message: "Conflict.", Detail: detail}
}

func notFound(id string) *StatusError {
	return &StatusError{
		Code:    http.StatusNotFound,
		Message: "Password Card not found.",
		Detail:  fmt.Sprintf("password with ID %q not found", id),
	}
}
