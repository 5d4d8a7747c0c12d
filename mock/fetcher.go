package mock

import (
	"context"
	"io"

	"github.com/fwojciec/ljdl"
)

// Compile-time interface verification.
var (
	_ ljdl.Fetcher     = (*Fetcher)(nil)
	_ ljdl.FileFetcher = (*FileFetcher)(nil)
)

// Fetcher is a mock implementation of ljdl.Fetcher.
type Fetcher struct {
	FetchFn     func(ctx context.Context, url string) (*ljdl.Response, error)
	SetCookieFn func(cookie ljdl.Cookie) error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (*ljdl.Response, error) {
	return f.FetchFn(ctx, url)
}

// SetCookie succeeds when SetCookieFn is nil.
func (f *Fetcher) SetCookie(cookie ljdl.Cookie) error {
	if f.SetCookieFn == nil {
		return nil
	}
	return f.SetCookieFn(cookie)
}

// FileFetcher is a mock implementation of ljdl.FileFetcher.
type FileFetcher struct {
	FetchFileFn func(ctx context.Context, url string) (io.ReadCloser, error)
}

func (f *FileFetcher) FetchFile(ctx context.Context, url string) (io.ReadCloser, error) {
	return f.FetchFileFn(ctx, url)
}
