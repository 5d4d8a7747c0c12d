// Package job consumes extractor output, either downloading the files it
// announces or printing the messages as data.
package job

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/fwojciec/ljdl"
	"github.com/gabriel-vasile/mimetype"
)

// sniffLen is the number of leading bytes used to detect a file type.
const sniffLen = 3072

// DownloadJob saves the files of every post an extractor yields.
type DownloadJob struct {
	Extractor ljdl.Extractor
	Files     ljdl.FileFetcher
	Store     ljdl.FileStore

	// Archive records finished posts. Nil disables the archive.
	Archive ljdl.ArchiveService

	// Converter renders post bodies when WriteText is set.
	Converter ljdl.Converter

	Logger *slog.Logger

	// WriteMetadata saves each post's metadata as JSON next to its files.
	WriteMetadata bool

	// WriteText saves each post's body as Markdown next to its files.
	WriteText bool

	// Overwrite downloads files even if they already exist.
	Overwrite bool

	// RetryDelays overrides DefaultRetryDelays.
	RetryDelays []time.Duration
}

// Stats holds the outcome of a download job.
type Stats struct {
	Posts    int
	Skipped  int
	Empty    int
	Files    int
	Existing int
	Failed   int
	Bytes    int64
}

// postState tracks the post whose files are being downloaded.
type postState struct {
	post   *ljdl.Post
	key    string
	dir    string
	skip   bool
	files  int
	failed bool
}

// Run consumes the extractor until it is exhausted. File failures are
// logged and counted; the post is then left out of the archive so a later
// run retries it. Extractor, archive and context errors end the run.
func (j *DownloadJob) Run(ctx context.Context) (*Stats, error) {
	logger := j.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	delays := j.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}

	stats := &Stats{}
	var cur *postState

	for msg, err := range j.Extractor.Items(ctx) {
		if err != nil {
			if ferr := j.finishPost(ctx, cur, logger); ferr != nil {
				return stats, ferr
			}
			return stats, err
		}

		switch msg.Kind {
		case ljdl.MessageDirectory:
			if err := j.finishPost(ctx, cur, logger); err != nil {
				return stats, err
			}
			cur, err = j.startPost(ctx, msg.Post, stats, logger)
			if err != nil {
				return stats, err
			}

		case ljdl.MessageURL:
			if cur == nil || cur.skip {
				continue
			}
			if err := j.downloadFile(ctx, cur, msg, delays, stats, logger); err != nil {
				if ctx.Err() != nil {
					return stats, ctx.Err()
				}
				cur.failed = true
				stats.Failed++
				logger.Error("download failed", "url", msg.URL, "err", err)
			}
		}
	}

	if err := j.finishPost(ctx, cur, logger); err != nil {
		return stats, err
	}
	return stats, nil
}

func (j *DownloadJob) startPost(ctx context.Context, p *ljdl.Post, stats *Stats, logger *slog.Logger) (*postState, error) {
	if p.Empty() {
		stats.Empty++
		logger.Warn("post unavailable")
		return &postState{skip: true}, nil
	}

	post := p.Clone()
	kw := post.Keywords()

	key, err := ljdl.FormatTemplate(ljdl.ArchiveTemplate, kw)
	if err != nil {
		return nil, err
	}
	dir, err := postDir(kw)
	if err != nil {
		return nil, err
	}
	st := &postState{post: post, key: key, dir: dir}

	if j.Archive != nil {
		ok, err := j.Archive.HasEntry(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("archive lookup: %w", err)
		}
		if ok {
			stats.Skipped++
			logger.Info("post already archived", "key", key)
			st.skip = true
			return st, nil
		}
	}

	stats.Posts++
	logger.Info("post", "key", key, "title", post.Title, "date", post.Date)

	if j.WriteMetadata {
		if err := j.writeMetadata(ctx, st, kw); err != nil {
			st.failed = true
			logger.Error("write metadata", "key", key, "err", err)
		}
	}
	if j.WriteText {
		if err := j.writeText(ctx, st, kw); err != nil {
			st.failed = true
			logger.Error("write text", "key", key, "err", err)
		}
	}

	return st, nil
}

// finishPost archives a completed post.
func (j *DownloadJob) finishPost(ctx context.Context, st *postState, logger *slog.Logger) error {
	if st == nil || st.skip || st.failed || j.Archive == nil {
		return nil
	}

	metadata, err := json.Marshal(st.post)
	if err != nil {
		return err
	}

	entry := &ljdl.ArchiveEntry{
		Key:      st.key,
		Category: ljdl.Category,
		Journal:  st.post.JournalName(),
		PostID:   st.post.ID,
		Title:    st.post.Title,
		URL:      st.post.URL,
		Files:    st.files,
		Metadata: string(metadata),
		PostedAt: st.post.Date,
	}
	if err := j.Archive.CreateEntry(ctx, entry); err != nil {
		if ljdl.ErrorCode(err) == ljdl.ECONFLICT {
			logger.Warn("post archived concurrently", "key", st.key)
			return nil
		}
		return fmt.Errorf("archive post: %w", err)
	}
	return nil
}

func (j *DownloadJob) writeMetadata(ctx context.Context, st *postState, kw map[string]any) error {
	name, err := postFile(st.dir, ljdl.PostTemplate+".json", kw)
	if err != nil {
		return err
	}
	if !j.Overwrite && j.Store.Exists(name) {
		return nil
	}

	data, err := json.MarshalIndent(st.post, "", "  ")
	if err != nil {
		return err
	}
	_, err = j.Store.Save(ctx, name, bytes.NewReader(append(data, '\n')))
	return err
}

func (j *DownloadJob) writeText(ctx context.Context, st *postState, kw map[string]any) error {
	if j.Converter == nil || strings.TrimSpace(st.post.Content) == "" {
		return nil
	}
	name, err := postFile(st.dir, ljdl.PostTemplate+".md", kw)
	if err != nil {
		return err
	}
	if !j.Overwrite && j.Store.Exists(name) {
		return nil
	}

	md, err := j.Converter.Convert(st.post.Content)
	if err != nil {
		return err
	}

	var b strings.Builder
	if st.post.Title != "" {
		b.WriteString("# ")
		b.WriteString(st.post.Title)
		b.WriteString("\n\n")
	}
	b.WriteString(md)
	b.WriteString("\n")

	_, err = j.Store.Save(ctx, name, strings.NewReader(b.String()))
	return err
}

// downloadFile saves one file. Files whose URL carries no extension are
// named after their sniffed content type.
func (j *DownloadJob) downloadFile(ctx context.Context, st *postState, msg ljdl.Message, delays []time.Duration, stats *Stats, logger *slog.Logger) error {
	post := msg.Post.Clone()

	if post.Extension != "" {
		name, err := postFile(st.dir, ljdl.FilenameTemplate, post.Keywords())
		if err != nil {
			return err
		}
		if !j.Overwrite && j.Store.Exists(name) {
			st.files++
			stats.Existing++
			logger.Debug("file exists", "path", name)
			return nil
		}
	}

	return WithRetry(ctx, msg.URL, delays, logger, func() error {
		rc, err := j.Files.FetchFile(ctx, msg.URL)
		if err != nil {
			return err
		}
		defer rc.Close()

		r := bufio.NewReaderSize(rc, sniffLen)
		if post.Extension == "" {
			head, err := r.Peek(sniffLen)
			if err != nil && err != io.EOF {
				return err
			}
			post.Extension = strings.TrimPrefix(mimetype.Detect(head).Extension(), ".")
			if post.Extension == "" {
				post.Extension = "bin"
			}
		}

		name, err := postFile(st.dir, ljdl.FilenameTemplate, post.Keywords())
		if err != nil {
			return err
		}
		if !j.Overwrite && j.Store.Exists(name) {
			st.files++
			stats.Existing++
			logger.Debug("file exists", "path", name)
			return nil
		}

		n, err := j.Store.Save(ctx, name, r)
		if err != nil {
			return err
		}

		st.files++
		stats.Files++
		stats.Bytes += n
		logger.Info("saved", "path", name, "bytes", n)
		return nil
	})
}
