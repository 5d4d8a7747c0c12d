package ljdl

import (
	"context"
	"time"
)

// ArchiveEntry records a post whose files were all downloaded.
type ArchiveEntry struct {
	ID           string    `json:"id"`
	Key          string    `json:"key"`
	Category     string    `json:"category"`
	Journal      string    `json:"journal"`
	PostID       string    `json:"postId"`
	Title        string    `json:"title"`
	URL          string    `json:"url"`
	Files        int       `json:"files"`
	Metadata     string    `json:"metadata"`
	MetadataHash string    `json:"metadataHash"`
	PostedAt     time.Time `json:"postedAt"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Validate returns an error if the entry contains invalid fields.
func (e *ArchiveEntry) Validate() error {
	if e.Key == "" {
		return Errorf(EINVALID, "archive key required")
	}
	if e.PostID == "" {
		return Errorf(EINVALID, "archive post ID required")
	}
	return nil
}

// ArchiveService represents a service for tracking downloaded posts.
type ArchiveService interface {
	// HasEntry reports whether a post with the given archive key was recorded.
	HasEntry(ctx context.Context, key string) (bool, error)

	// CreateEntry records a post.
	// Returns ECONFLICT if the key is already recorded.
	CreateEntry(ctx context.Context, entry *ArchiveEntry) error

	// FindEntries retrieves entries matching the filter, newest first.
	FindEntries(ctx context.Context, filter ArchiveFilter) ([]*ArchiveEntry, error)

	// DeleteEntry removes the entry with the given key so the post is downloaded again.
	// Returns ENOTFOUND if the key is not recorded.
	DeleteEntry(ctx context.Context, key string) error
}

// ArchiveFilter represents a filter for FindEntries.
type ArchiveFilter struct {
	Key     *string `json:"key"`
	Journal *string `json:"journal"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
