package livejournal

import (
	"context"
	"fmt"

	"github.com/fwojciec/ljdl"
	"github.com/fwojciec/ljdl/bloom"
)

// Ensure PageLister implements ljdl.PostLister.
var _ ljdl.PostLister = (*PageLister)(nil)

// DefaultPageSize is the number of entries LiveJournal shows per page.
const DefaultPageSize = 10

// PageLister discovers post URLs by paging through a journal's front page
// with ?skip=N until a page adds no new posts.
type PageLister struct {
	Fetcher  ljdl.Fetcher
	Selector ljdl.LinkSelector

	// PageSize is the skip step between pages. Zero means DefaultPageSize.
	PageSize int

	// MaxPages limits the number of pages read. Zero means no limit.
	MaxPages int
}

// PageURL returns the listing URL that skips the first skip entries.
func PageURL(journal string, skip int) string {
	if skip == 0 {
		return ljdl.JournalURL(journal)
	}
	return fmt.Sprintf("%s?skip=%d", ljdl.JournalURL(journal), skip)
}

// ListPosts returns post URLs newest first, as the journal lists them.
// A journal whose first page cannot be fetched is ENOTFOUND.
func (l *PageLister) ListPosts(ctx context.Context, journal string) ([]string, error) {
	pageSize := l.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	seen := bloom.NewFilter(100_000, 1e-7)
	urls := []string{}

	for page := 0; l.MaxPages == 0 || page < l.MaxPages; page++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		pageURL := PageURL(journal, page*pageSize)
		resp, err := l.Fetcher.Fetch(ctx, pageURL)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= 400 {
			if page == 0 {
				return nil, ljdl.Errorf(ljdl.ENOTFOUND, "journal %q unavailable (HTTP %d)", journal, resp.StatusCode)
			}
			break
		}

		links, err := l.Selector.SelectPostLinks(resp.Body, pageURL)
		if err != nil {
			return nil, err
		}

		added := 0
		for _, link := range links {
			if seen.TestAndAdd(link) {
				continue
			}
			urls = append(urls, link)
			added++
		}
		if added == 0 {
			break
		}
	}

	return urls, nil
}
