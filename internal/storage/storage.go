package storage

import (
	"context"
	"io"
)

// Store persists uploaded image assets. Implementations return the public
// path under which the asset is referenced from catalogue rows.
type Store interface {
	// Save writes the file contents under a freshly generated name with the
	// given extension and returns the public path.
	Save(ctx context.Context, ext string, r io.Reader) (string, error)

	// Delete removes the asset at the given public path. Deleting a path
	// that no longer exists is not an error.
	Delete(ctx context.Context, path string) error
}
