package cards

import (
	"context"

	"pwcards/internal/model"
)

// API is the remote password-cards collaborator. Every mutation of the entry
// list round-trips through it and the list is updated from what it returns.
type API interface {
	// List returns all stored entries in server order.
	List(ctx context.Context) ([]model.PasswordEntry, error)

	// Create stores a new entry. The entry carries a client-generated ID.
	Create(ctx context.Context, entry model.PasswordEntry) (model.PasswordEntry, error)

	// Update replaces the entry addressed by id. The ID field of entry is ignored.
	Update(ctx context.Context, id string, entry model.PasswordEntry) (model.PasswordEntry, error)

	// Delete removes the entry addressed by id.
	Delete(ctx context.Context, id string) error
}
