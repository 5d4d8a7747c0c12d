// Package fs provides file-based storage for downloaded files.
package fs

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/ljdl"
)

// Ensure FileStore implements ljdl.FileStore at compile time.
var _ ljdl.FileStore = (*FileStore)(nil)

// partSuffix marks a file that is still being written.
const partSuffix = ".part"

// FileStore implements ljdl.FileStore on the local filesystem.
// Files are written next to their final path with a .part suffix and
// renamed into place once complete.
type FileStore struct {
	baseDir string
}

// NewFileStore creates a new FileStore rooted at baseDir.
func NewFileStore(baseDir string) *FileStore {
	return &FileStore{baseDir: baseDir}
}

// Path returns the absolute location of a relative store path.
func (s *FileStore) Path(path string) (string, error) {
	if path == "" {
		return "", ljdl.Errorf(ljdl.EINVALID, "empty path")
	}
	clean := filepath.Clean(filepath.FromSlash(path))
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", ljdl.Errorf(ljdl.EINVALID, "path %q escapes the destination", path)
	}
	return filepath.Join(s.baseDir, clean), nil
}

// Exists reports whether a complete file is stored at path.
func (s *FileStore) Exists(path string) bool {
	full, err := s.Path(path)
	if err != nil {
		return false
	}
	info, err := os.Stat(full)
	return err == nil && info.Mode().IsRegular()
}

// Save streams r into path. The .part file is removed on failure.
func (s *FileStore) Save(ctx context.Context, path string, r io.Reader) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	full, err := s.Path(path)
	if err != nil {
		return 0, err
	}

	// Create parent directories
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return 0, err
	}

	part := full + partSuffix
	f, err := os.Create(part)
	if err != nil {
		return 0, err
	}

	n, err := io.Copy(f, &contextReader{ctx: ctx, r: r})
	if err == nil {
		err = f.Sync()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(part)
		return n, err
	}

	if err := os.Rename(part, full); err != nil {
		_ = os.Remove(part)
		return n, err
	}
	return n, nil
}

// contextReader stops a copy once its context is canceled.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
