package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/ljdl"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ ljdl.ArchiveService = (*ArchiveService)(nil)

// ArchiveService implements ljdl.ArchiveService using SQLite.
type ArchiveService struct {
	db *DB
}

// NewArchiveService creates a new ArchiveService.
func NewArchiveService(db *DB) *ArchiveService {
	return &ArchiveService{db: db}
}

// hashMetadata computes the xxHash of the metadata JSON as a hex string.
func hashMetadata(metadata string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(metadata))
}

// HasEntry reports whether key is recorded.
func (s *ArchiveService) HasEntry(ctx context.Context, key string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM archive WHERE key = ?", key).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// CreateEntry records a post.
func (s *ArchiveService) CreateEntry(ctx context.Context, entry *ljdl.ArchiveEntry) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	exists, err := s.HasEntry(ctx, entry.Key)
	if err != nil {
		return err
	}
	if exists {
		return ljdl.Errorf(ljdl.ECONFLICT, "post %q already archived", entry.Key)
	}

	entry.ID = uuid.New().String()
	entry.CreatedAt = time.Now().UTC()
	entry.MetadataHash = hashMetadata(entry.Metadata)

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO archive (id, key, category, journal, post_id, title, url, files, metadata, metadata_hash, posted_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, entry.ID, entry.Key, entry.Category, entry.Journal, entry.PostID, entry.Title, entry.URL,
		entry.Files, entry.Metadata, entry.MetadataHash, timestamp(entry.PostedAt), timestamp(entry.CreatedAt))

	return err
}

// FindEntries retrieves entries matching the filter.
func (s *ArchiveService) FindEntries(ctx context.Context, filter ljdl.ArchiveFilter) ([]*ljdl.ArchiveEntry, error) {
	var w where
	if filter.Key != nil {
		w.add("key = ?", *filter.Key)
	}
	if filter.Journal != nil {
		w.add("journal = ?", *filter.Journal)
	}

	var query strings.Builder
	query.WriteString(`SELECT id, key, category, journal, post_id, title, url, files, metadata, metadata_hash, posted_at, created_at
		FROM archive`)
	w.writeTo(&query)
	query.WriteString(" ORDER BY created_at DESC, rowid DESC")
	args := w.args
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*ljdl.ArchiveEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// DeleteEntry removes the entry with the given key.
func (s *ArchiveService) DeleteEntry(ctx context.Context, key string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM archive WHERE key = ?", key)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ljdl.Errorf(ljdl.ENOTFOUND, "archive entry %q not found", key)
	}

	return nil
}

func scanEntry(rows *sql.Rows) (*ljdl.ArchiveEntry, error) {
	var entry ljdl.ArchiveEntry
	var postedAt, createdAt string

	if err := rows.Scan(&entry.ID, &entry.Key, &entry.Category, &entry.Journal, &entry.PostID,
		&entry.Title, &entry.URL, &entry.Files, &entry.Metadata, &entry.MetadataHash,
		&postedAt, &createdAt); err != nil {
		return nil, err
	}

	var err error
	if entry.PostedAt, err = parseTimestamp(postedAt, "posted_at"); err != nil {
		return nil, err
	}
	if entry.CreatedAt, err = parseTimestamp(createdAt, "created_at"); err != nil {
		return nil, err
	}

	return &entry, nil
}
