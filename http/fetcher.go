// Package http provides the HTTP client used to fetch post pages, files and
// journal feeds. Pages never fail on status, so that extractors can treat
// error statuses as missing posts.
package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/fwojciec/ljdl"
	"golang.org/x/net/publicsuffix"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
const DefaultFetchTimeout = 30 * time.Second

// DefaultUserAgent is sent when no other user agent is configured.
const DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64; rv:133.0) Gecko/20100101 Firefox/133.0"

// Ensure Client implements the ljdl fetcher interfaces at compile time.
var (
	_ ljdl.Fetcher     = (*Client)(nil)
	_ ljdl.FileFetcher = (*Client)(nil)
)

// Client retrieves pages and files, keeping cookies across requests.
type Client struct {
	client    *http.Client
	jar       *cookiejar.Jar
	timeout   time.Duration
	userAgent string
	transport http.RoundTripper
	limiter   ljdl.DomainLimiter
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout (30s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithTransport replaces the underlying round tripper.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.transport = rt
	}
}

// WithRateLimit limits requests to rps per site. Zero disables limiting.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = NewSiteLimiter(rps)
	}
}

// NewClient creates a new Client.
func NewClient(opts ...Option) *Client {
	// publicsuffix.List is always a valid list, so New cannot fail.
	jar, _ := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})

	c := &Client{
		jar:       jar,
		timeout:   DefaultFetchTimeout,
		userAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.client = &http.Client{
		Jar:       jar,
		Timeout:   c.timeout,
		Transport: c.transport,
	}

	return c
}

// SetCookie stores cookie for its domain.
func (c *Client) SetCookie(cookie ljdl.Cookie) error {
	host := strings.TrimPrefix(cookie.Domain, ".")
	if host == "" {
		return ljdl.Errorf(ljdl.EINVALID, "cookie %q has no domain", cookie.Name)
	}
	u := &url.URL{Scheme: "https", Host: host, Path: "/"}
	c.jar.SetCookies(u, []*http.Cookie{{
		Name:   cookie.Name,
		Value:  cookie.Value,
		Domain: cookie.Domain,
		Path:   "/",
	}})
	return nil
}

// Fetch retrieves the page at rawURL regardless of its status code.
func (c *Client) Fetch(ctx context.Context, rawURL string) (*ljdl.Response, error) {
	resp, err := c.do(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", rawURL, err)
	}

	return &ljdl.Response{
		URL:        rawURL,
		StatusCode: resp.StatusCode,
		Body:       string(body),
	}, nil
}

// FetchFile returns the body of rawURL, or an EHTTP error for a status >= 400.
func (c *Client) FetchFile(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	resp, err := c.do(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= http.StatusBadRequest {
		resp.Body.Close()
		return nil, &StatusError{URL: rawURL, StatusCode: resp.StatusCode}
	}

	return resp.Body, nil
}

func (c *Client) do(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, ljdl.Errorf(ljdl.EINVALID, "invalid URL %q: %v", rawURL, err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx, req.URL.Hostname()); err != nil {
			return nil, err
		}
	}

	return c.client.Do(req)
}
