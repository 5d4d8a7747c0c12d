package job_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fwojciec/ljdl"
	"github.com/fwojciec/ljdl/job"
	"github.com/fwojciec/ljdl/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const postURL = "https://probertson.livejournal.com/46158.html"

const pngHeader = "\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"

func testPost(id string) *ljdl.Post {
	return &ljdl.Post{
		URL:     "https://probertson.livejournal.com/" + id + ".html",
		ID:      id,
		Journal: map[string]any{"username": "probertson"},
		Poster:  map[string]any{"poster_username": "probertson"},
		Title:   "Lamps",
		Date:    time.Unix(1577880000, 0).UTC(),
		Content: "<p>Two lamps.</p>",
	}
}

// postMessages builds the messages an extractor yields for post.
func postMessages(post *ljdl.Post, urls ...string) []ljdl.Message {
	msgs := []ljdl.Message{{Kind: ljdl.MessageDirectory, Post: post}}
	for i, u := range urls {
		p := post.Clone()
		p.Num = i + 1
		p.URL = u
		p.Extension = ljdl.ExtensionFromURL(u)
		msgs = append(msgs, ljdl.Message{Kind: ljdl.MessageURL, URL: u, Post: p})
	}
	return msgs
}

// files serves bodies by URL and records requests.
type files struct {
	mu       sync.Mutex
	bodies   map[string]string
	errs     map[string][]error
	requests []string
}

func (f *files) fetcher() *mock.FileFetcher {
	return &mock.FileFetcher{
		FetchFileFn: func(_ context.Context, url string) (io.ReadCloser, error) {
			f.mu.Lock()
			defer f.mu.Unlock()
			f.requests = append(f.requests, url)
			if errs := f.errs[url]; len(errs) > 0 {
				f.errs[url] = errs[1:]
				return nil, errs[0]
			}
			body, ok := f.bodies[url]
			if !ok {
				return nil, ljdl.Errorf(ljdl.EHTTP, "HTTP 404 Not Found")
			}
			return io.NopCloser(strings.NewReader(body)), nil
		},
	}
}

// archive is an in-memory archive.
type archive struct {
	mu      sync.Mutex
	entries map[string]*ljdl.ArchiveEntry
}

func newArchive(keys ...string) *archive {
	a := &archive{entries: make(map[string]*ljdl.ArchiveEntry)}
	for _, k := range keys {
		a.entries[k] = &ljdl.ArchiveEntry{Key: k}
	}
	return a
}

func (a *archive) service() *mock.ArchiveService {
	return &mock.ArchiveService{
		HasEntryFn: func(_ context.Context, key string) (bool, error) {
			a.mu.Lock()
			defer a.mu.Unlock()
			_, ok := a.entries[key]
			return ok, nil
		},
		CreateEntryFn: func(_ context.Context, entry *ljdl.ArchiveEntry) error {
			a.mu.Lock()
			defer a.mu.Unlock()
			if _, ok := a.entries[entry.Key]; ok {
				return ljdl.Errorf(ljdl.ECONFLICT, "exists")
			}
			a.entries[entry.Key] = entry
			return nil
		},
	}
}

func TestDownloadJob_Run(t *testing.T) {
	t.Parallel()

	const (
		imgA = "https://imgprx.livejournal.net/abc/a.jpg"
		imgB = "https://imgprx.livejournal.net/def/b.png"
	)

	t.Run("saves files under templated names and archives the post", func(t *testing.T) {
		t.Parallel()

		src := &files{bodies: map[string]string{imgA: "jpeg-a", imgB: "png-b"}}
		store := mock.NewFileStore()
		arc := newArchive()

		j := &job.DownloadJob{
			Extractor:   mock.Messages(nil, postMessages(testPost("46158"), imgA, imgB)...),
			Files:       src.fetcher(),
			Store:       store,
			Archive:     arc.service(),
			RetryDelays: noDelays,
		}
		stats, err := j.Run(context.Background())

		require.NoError(t, err)
		assert.Equal(t, "jpeg-a", string(store.Files["livejournal/probertson/livejournal_probertson_46158_1.jpg"]))
		assert.Equal(t, "png-b", string(store.Files["livejournal/probertson/livejournal_probertson_46158_2.png"]))
		assert.Equal(t, &job.Stats{Posts: 1, Files: 2, Bytes: 11}, stats)

		entry := arc.entries["probertson_46158"]
		require.NotNil(t, entry)
		assert.Equal(t, ljdl.Category, entry.Category)
		assert.Equal(t, "probertson", entry.Journal)
		assert.Equal(t, "46158", entry.PostID)
		assert.Equal(t, "Lamps", entry.Title)
		assert.Equal(t, postURL, entry.URL)
		assert.Equal(t, 2, entry.Files)
		assert.Equal(t, int64(1577880000), entry.PostedAt.Unix())
		assert.Contains(t, entry.Metadata, `"title":"Lamps"`)
	})

	t.Run("skips archived posts", func(t *testing.T) {
		t.Parallel()

		src := &files{bodies: map[string]string{imgA: "jpeg-a"}}
		store := mock.NewFileStore()

		j := &job.DownloadJob{
			Extractor:   mock.Messages(nil, postMessages(testPost("46158"), imgA)...),
			Files:       src.fetcher(),
			Store:       store,
			Archive:     newArchive("probertson_46158").service(),
			RetryDelays: noDelays,
		}
		stats, err := j.Run(context.Background())

		require.NoError(t, err)
		assert.Equal(t, &job.Stats{Skipped: 1}, stats)
		assert.Empty(t, src.requests)
		assert.Empty(t, store.Files)
	})

	t.Run("skips existing files unless overwriting", func(t *testing.T) {
		t.Parallel()

		for _, overwrite := range []bool{false, true} {
			src := &files{bodies: map[string]string{imgA: "new"}}
			store := mock.NewFileStore()
			store.Files["livejournal/probertson/livejournal_probertson_46158_1.jpg"] = []byte("old")

			j := &job.DownloadJob{
				Extractor:   mock.Messages(nil, postMessages(testPost("46158"), imgA)...),
				Files:       src.fetcher(),
				Store:       store,
				Overwrite:   overwrite,
				RetryDelays: noDelays,
			}
			stats, err := j.Run(context.Background())

			require.NoError(t, err)
			if overwrite {
				assert.Equal(t, "new", string(store.Files["livejournal/probertson/livejournal_probertson_46158_1.jpg"]))
				assert.Equal(t, 1, stats.Files)
			} else {
				assert.Equal(t, "old", string(store.Files["livejournal/probertson/livejournal_probertson_46158_1.jpg"]))
				assert.Equal(t, 1, stats.Existing)
				assert.Empty(t, src.requests)
			}
		}
	})

	t.Run("leaves posts with failed files out of the archive", func(t *testing.T) {
		t.Parallel()

		src := &files{bodies: map[string]string{imgB: "png-b"}}
		store := mock.NewFileStore()
		arc := newArchive()

		j := &job.DownloadJob{
			Extractor:   mock.Messages(nil, postMessages(testPost("46158"), imgA, imgB)...),
			Files:       src.fetcher(),
			Store:       store,
			Archive:     arc.service(),
			RetryDelays: noDelays,
		}
		stats, err := j.Run(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 1, stats.Failed)
		assert.Equal(t, 1, stats.Files)
		assert.Equal(t, []string{imgA, imgB}, src.requests, "client errors are not retried")
		assert.Empty(t, arc.entries)
	})

	t.Run("retries transient download errors", func(t *testing.T) {
		t.Parallel()

		src := &files{
			bodies: map[string]string{imgA: "jpeg-a"},
			errs:   map[string][]error{imgA: {&statusErr{code: 503}, errors.New("connection reset")}},
		}
		store := mock.NewFileStore()

		j := &job.DownloadJob{
			Extractor:   mock.Messages(nil, postMessages(testPost("46158"), imgA)...),
			Files:       src.fetcher(),
			Store:       store,
			RetryDelays: noDelays,
		}
		stats, err := j.Run(context.Background())

		require.NoError(t, err)
		assert.Len(t, src.requests, 3)
		assert.Equal(t, 1, stats.Files)
		assert.Equal(t, 0, stats.Failed)
	})

	t.Run("names files without extension after their content", func(t *testing.T) {
		t.Parallel()

		const img = "https://imgprx.livejournal.net/abc/noext"
		src := &files{bodies: map[string]string{img: pngHeader + strings.Repeat("\x00", 64)}}
		store := mock.NewFileStore()

		j := &job.DownloadJob{
			Extractor:   mock.Messages(nil, postMessages(testPost("46158"), img)...),
			Files:       src.fetcher(),
			Store:       store,
			RetryDelays: noDelays,
		}
		_, err := j.Run(context.Background())

		require.NoError(t, err)
		assert.Equal(t, []string{"livejournal/probertson/livejournal_probertson_46158_1.png"}, store.Paths())
	})

	t.Run("writes metadata and text when asked", func(t *testing.T) {
		t.Parallel()

		store := mock.NewFileStore()

		j := &job.DownloadJob{
			Extractor: mock.Messages(nil, postMessages(testPost("46158"))...),
			Files:     (&files{}).fetcher(),
			Store:     store,
			Converter: &mock.Converter{
				ConvertFn: func(html string) (string, error) {
					return strings.TrimSuffix(strings.TrimPrefix(html, "<p>"), "</p>"), nil
				},
			},
			WriteMetadata: true,
			WriteText:     true,
		}
		_, err := j.Run(context.Background())

		require.NoError(t, err)
		meta := string(store.Files["livejournal/probertson/livejournal_probertson_46158.json"])
		assert.Contains(t, meta, `"title": "Lamps"`)
		assert.Contains(t, meta, `"date": "2020-01-01T12:00:00Z"`)
		assert.Equal(t, "# Lamps\n\nTwo lamps.\n", string(store.Files["livejournal/probertson/livejournal_probertson_46158.md"]))
	})

	t.Run("counts unavailable posts without saving anything", func(t *testing.T) {
		t.Parallel()

		store := mock.NewFileStore()
		arc := newArchive()

		j := &job.DownloadJob{
			Extractor: mock.Messages(nil, ljdl.Message{Kind: ljdl.MessageDirectory, Post: &ljdl.Post{}}),
			Files:     (&files{}).fetcher(),
			Store:     store,
			Archive:   arc.service(),
		}
		stats, err := j.Run(context.Background())

		require.NoError(t, err)
		assert.Equal(t, &job.Stats{Empty: 1}, stats)
		assert.Empty(t, store.Files)
		assert.Empty(t, arc.entries)
	})

	t.Run("archives finished posts before returning an extractor error", func(t *testing.T) {
		t.Parallel()

		src := &files{bodies: map[string]string{imgA: "jpeg-a"}}
		arc := newArchive()

		j := &job.DownloadJob{
			Extractor:   mock.Messages(ljdl.Errorf(ljdl.EFRAGMENT, "article body not found"), postMessages(testPost("46158"), imgA)...),
			Files:       src.fetcher(),
			Store:       mock.NewFileStore(),
			Archive:     arc.service(),
			RetryDelays: noDelays,
		}
		stats, err := j.Run(context.Background())

		assert.Equal(t, ljdl.EFRAGMENT, ljdl.ErrorCode(err))
		assert.Equal(t, 1, stats.Files)
		assert.Contains(t, arc.entries, "probertson_46158")
	})

	t.Run("downloads several posts in order", func(t *testing.T) {
		t.Parallel()

		src := &files{bodies: map[string]string{imgA: "a", imgB: "b"}}
		store := mock.NewFileStore()
		arc := newArchive()

		msgs := append(postMessages(testPost("46158"), imgA), postMessages(testPost("45900"), imgB)...)
		j := &job.DownloadJob{
			Extractor:   mock.Messages(nil, msgs...),
			Files:       src.fetcher(),
			Store:       store,
			Archive:     arc.service(),
			RetryDelays: noDelays,
		}
		stats, err := j.Run(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 2, stats.Posts)
		assert.Equal(t, []string{imgA, imgB}, src.requests)
		assert.Contains(t, store.Files, "livejournal/probertson/livejournal_probertson_45900_1.png")
		assert.Len(t, arc.entries, 2)
	})

	t.Run("propagates archive lookup errors", func(t *testing.T) {
		t.Parallel()

		j := &job.DownloadJob{
			Extractor: mock.Messages(nil, postMessages(testPost("46158"))...),
			Files:     (&files{}).fetcher(),
			Store:     mock.NewFileStore(),
			Archive: &mock.ArchiveService{
				HasEntryFn: func(context.Context, string) (bool, error) {
					return false, errors.New("database is locked")
				},
			},
		}
		_, err := j.Run(context.Background())

		assert.ErrorContains(t, err, "database is locked")
	})
}

func TestDataJob_Run(t *testing.T) {
	t.Parallel()

	t.Run("writes one JSON line per message", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		j := &job.DataJob{
			Extractor: mock.Messages(nil, postMessages(testPost("46158"), "https://imgprx.livejournal.net/abc/a.jpg")...),
			Out:       &buf,
		}
		n, err := j.Run(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 2, n)
		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		require.Len(t, lines, 2)
		assert.True(t, strings.HasPrefix(lines[0], `["directory",{"url":"`+postURL+`"`), lines[0])
		assert.True(t, strings.HasPrefix(lines[1], `["url","https://imgprx.livejournal.net/abc/a.jpg",{`), lines[1])
		assert.Contains(t, lines[1], `"num":1`)
		assert.Contains(t, lines[1], `"extension":"jpg"`)
	})

	t.Run("writes an unavailable post as an empty object", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		j := &job.DataJob{
			Extractor: mock.Messages(nil, postMessages(&ljdl.Post{})...),
			Out:       &buf,
		}
		n, err := j.Run(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 1, n)
		assert.Equal(t, "[\"directory\",{}]\n", buf.String())
	})

	t.Run("keeps written lines on extractor error", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		j := &job.DataJob{
			Extractor: mock.Messages(errors.New("boom"), postMessages(testPost("46158"))...),
			Out:       &buf,
		}
		n, err := j.Run(context.Background())

		assert.EqualError(t, err, "boom")
		assert.Equal(t, 1, n)
		assert.NotEmpty(t, buf.String())
	})
}
