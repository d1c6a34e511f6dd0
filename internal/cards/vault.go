package cards

import (
	"context"
	"io"
)

// Vault stores encrypted backups of the entry list.
// Objects are addressed by slash-separated names such as "backups/<ts>.json.age".
type Vault interface {
	// Put stores an object. size is the number of bytes that will be read from r.
	// An existing object with the same name is replaced.
	Put(ctx context.Context, name string, r io.Reader, size int64) error

	// Get writes the object to w.
	Get(ctx context.Context, name string, w io.Writer) error

	// List returns the names of all objects starting with prefix, sorted.
	List(ctx context.Context, prefix string) ([]string, error)

	// ValidateSetup verifies that the vault is accessible and properly configured.
	ValidateSetup(ctx context.Context) error
}
