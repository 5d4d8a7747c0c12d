package http

import (
	"context"
	"fmt"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/ljdl"
)

// Ensure FeedLister implements ljdl.PostLister.
var _ ljdl.PostLister = (*FeedLister)(nil)

// FeedLister discovers post URLs from a journal's RSS feed.
// The feed only carries the most recent posts.
type FeedLister struct {
	fetcher ljdl.Fetcher
}

// NewFeedLister creates a new FeedLister fetching through fetcher.
func NewFeedLister(fetcher ljdl.Fetcher) *FeedLister {
	return &FeedLister{fetcher: fetcher}
}

// FeedURL returns the RSS feed URL of a journal.
func FeedURL(journal string) string {
	return fmt.Sprintf("https://%s.livejournal.com/data/rss", journal)
}

// ListPosts returns the post URLs in feed order, without duplicates.
// Items whose link is not a post URL are skipped.
func (l *FeedLister) ListPosts(ctx context.Context, journal string) ([]string, error) {
	resp, err := l.fetcher.Fetch(ctx, FeedURL(journal))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return nil, ljdl.Errorf(ljdl.ENOTFOUND, "feed of journal %q unavailable (HTTP %d)", journal, resp.StatusCode)
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromString(resp.Body); err != nil {
		return nil, ljdl.Errorf(ljdl.EINVALID, "parsing feed XML: %v", err)
	}

	channel := doc.FindElement("//channel")
	if channel == nil {
		return nil, ljdl.Errorf(ljdl.EINVALID, "feed of journal %q has no channel", journal)
	}

	urls := []string{}
	seen := make(map[string]bool)
	for _, item := range channel.SelectElements("item") {
		link := itemLink(item)
		if link == "" || seen[link] {
			continue
		}
		if _, err := ljdl.ParsePostURL(link); err != nil {
			continue
		}
		seen[link] = true
		urls = append(urls, link)
	}

	return urls, nil
}

// itemLink returns the item's <link>, falling back to a permalink <guid>.
func itemLink(item *etree.Element) string {
	if el := item.SelectElement("link"); el != nil {
		if s := strings.TrimSpace(el.Text()); s != "" {
			return s
		}
	}
	if el := item.SelectElement("guid"); el != nil {
		return strings.TrimSpace(el.Text())
	}
	return ""
}
