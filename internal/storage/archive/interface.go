// internal/storage/archive/interface.go
package archive

import "context"

// Storage is the backend for completed run artifacts. Artifacts are written
// once and never mutated, so the surface is intentionally small.
type Storage interface {
	// Write stores data at the given path
	Write(ctx context.Context, path string, data []byte) error

	// Read retrieves data from the given path
	Read(ctx context.Context, path string) ([]byte, error)

	// List returns all paths matching the prefix
	List(ctx context.Context, prefix string) ([]string, error)
}
