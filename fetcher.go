package ljdl

import (
	"context"
	"io"
)

// Response is a fetched page. StatusCode is kept rather than turned into
// an error so that callers decide how to treat error statuses.
type Response struct {
	URL        string
	StatusCode int
	Body       string
}

// Cookie is a persistent cookie scoped to a domain.
type Cookie struct {
	Name   string
	Value  string
	Domain string
}

// Fetcher retrieves pages over HTTP and keeps a cookie jar across requests.
type Fetcher interface {
	// Fetch issues a GET for url and returns the fully read response.
	// A status >= 400 is not an error; only transport failures are.
	Fetch(ctx context.Context, url string) (*Response, error)

	// SetCookie stores a cookie sent with every later request to its domain.
	SetCookie(cookie Cookie) error
}

// FileFetcher opens downloadable files.
type FileFetcher interface {
	// FetchFile returns the response body of url.
	// A status >= 400 is an EHTTP error.
	// The caller must close the returned reader.
	FetchFile(ctx context.Context, url string) (io.ReadCloser, error)
}

// DomainLimiter throttles requests by host.
type DomainLimiter interface {
	// Wait blocks until a request to host is allowed.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, host string) error
}
