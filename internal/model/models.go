package model

import "time"

// PasswordEntry is one stored password card as exchanged with the API.
// Field names and JSON keys match the password-cards endpoints.
type PasswordEntry struct {
	ID       string `json:"id"`
	URL      string `json:"url"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// Operation is a recorded client action that mutated remote state.
// The password of the affected entry is never part of the record.
type Operation struct {
	ID         int64
	Operation  string // "Create", "Update", "Delete", "Export", "Import"
	EntryID    string // empty for operations that are not tied to one entry
	Status     string // "success" or "error"
	Message    string
	StartedAt  time.Time
	FinishedAt *time.Time
}

// Backup is a snapshot of the whole entry list, written encrypted to a vault.
type Backup struct {
	Version   int             `json:"version"`
	CreatedAt time.Time       `json:"created_at"`
	Entries   []PasswordEntry `json:"entries"`
}
