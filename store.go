package ljdl

import (
	"context"
	"io"
)

// FileStore persists downloaded files under a destination directory.
// Paths are relative to the destination and use forward slashes.
type FileStore interface {
	// Exists reports whether a file was already saved at path.
	Exists(path string) bool

	// Save writes r to path atomically and returns the number of bytes written.
	// A partially written file never appears at path.
	Save(ctx context.Context, path string, r io.Reader) (int64, error)
}
