package mock

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/fwojciec/ljdl"
)

var _ ljdl.FileStore = (*FileStore)(nil)

// FileStore is an in-memory ljdl.FileStore that records saved files.
type FileStore struct {
	mu    sync.Mutex
	Files map[string][]byte

	// SaveErr, when set, is returned by every Save.
	SaveErr error
}

// NewFileStore returns an empty FileStore.
func NewFileStore() *FileStore {
	return &FileStore{Files: make(map[string][]byte)}
}

func (s *FileStore) Exists(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.Files[path]
	return ok
}

func (s *FileStore) Save(ctx context.Context, path string, r io.Reader) (int64, error) {
	if s.SaveErr != nil {
		return 0, s.SaveErr
	}
	var buf bytes.Buffer
	n, err := io.Copy(&buf, r)
	if err != nil {
		return n, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Files[path] = buf.Bytes()
	return n, nil
}

// Paths returns the saved paths in no particular order.
func (s *FileStore) Paths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	paths := make([]string, 0, len(s.Files))
	for p := range s.Files {
		paths = append(paths, p)
	}
	return paths
}
