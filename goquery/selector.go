// Package goquery extracts links from journal listing pages using goquery.
package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/ljdl"
)

// Ensure PostLinkSelector implements ljdl.LinkSelector.
var _ ljdl.LinkSelector = (*PostLinkSelector)(nil)

// PostLinkSelector finds links to posts of one journal on a listing page.
// Entry titles, "comments" links and read-more links of the same post all
// collapse into a single canonical post URL.
type PostLinkSelector struct{}

// NewPostLinkSelector creates a new PostLinkSelector.
func NewPostLinkSelector() *PostLinkSelector {
	return &PostLinkSelector{}
}

// SelectPostLinks parses HTML and returns canonical post URLs in document order.
// Links to other journals are filtered out.
func (s *PostLinkSelector) SelectPostLinks(html string, baseURL string) ([]string, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, ljdl.Errorf(ljdl.EINVALID, "invalid base URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, ljdl.Errorf(ljdl.EINVALID, "failed to parse HTML: %v", err)
	}

	seen := make(map[string]bool)
	links := []string{}

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		canonical, ok := postLink(base, href)
		if !ok {
			return
		}
		if seen[canonical] {
			return
		}
		seen[canonical] = true
		links = append(links, canonical)
	})

	return links, nil
}
