package livejournal_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/fwojciec/ljdl"
	"github.com/fwojciec/ljdl/livejournal"
	"github.com/fwojciec/ljdl/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lineSelector treats every non-empty line of the page as a post link.
var lineSelector = &mock.LinkSelector{
	SelectPostLinksFn: func(html string, _ string) ([]string, error) {
		var links []string
		for _, line := range strings.Split(html, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				links = append(links, line)
			}
		}
		return links, nil
	},
}

func TestPageURL(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "https://probertson.livejournal.com/", livejournal.PageURL("probertson", 0))
	assert.Equal(t, "https://probertson.livejournal.com/?skip=20", livejournal.PageURL("probertson", 20))
}

func TestPageLister_ListPosts(t *testing.T) {
	t.Parallel()

	pages := map[string]string{
		"https://probertson.livejournal.com/":        "https://probertson.livejournal.com/3.html\nhttps://probertson.livejournal.com/2.html",
		"https://probertson.livejournal.com/?skip=2": "https://probertson.livejournal.com/2.html\nhttps://probertson.livejournal.com/1.html",
		"https://probertson.livejournal.com/?skip=4": "https://probertson.livejournal.com/1.html",
		"https://probertson.livejournal.com/?skip=6": "https://probertson.livejournal.com/0.html",
	}

	t.Run("pages until no new posts appear", func(t *testing.T) {
		t.Parallel()

		var fetched []string
		lister := &livejournal.PageLister{
			Fetcher:  pageFetcher(pages, &fetched),
			Selector: lineSelector,
			PageSize: 2,
		}

		urls, err := lister.ListPosts(context.Background(), "probertson")

		require.NoError(t, err)
		assert.Equal(t, []string{
			"https://probertson.livejournal.com/3.html",
			"https://probertson.livejournal.com/2.html",
			"https://probertson.livejournal.com/1.html",
		}, urls)
		assert.Equal(t, []string{
			"https://probertson.livejournal.com/",
			"https://probertson.livejournal.com/?skip=2",
			"https://probertson.livejournal.com/?skip=4",
		}, fetched)
	})

	t.Run("stops after MaxPages", func(t *testing.T) {
		t.Parallel()

		lister := &livejournal.PageLister{
			Fetcher:  pageFetcher(pages, nil),
			Selector: lineSelector,
			PageSize: 2,
			MaxPages: 1,
		}

		urls, err := lister.ListPosts(context.Background(), "probertson")

		require.NoError(t, err)
		assert.Equal(t, []string{
			"https://probertson.livejournal.com/3.html",
			"https://probertson.livejournal.com/2.html",
		}, urls)
	})

	t.Run("stops at the first missing page", func(t *testing.T) {
		t.Parallel()

		var fetched []string
		lister := &livejournal.PageLister{
			Fetcher:  pageFetcher(pages, &fetched),
			Selector: lineSelector,
		}

		urls, err := lister.ListPosts(context.Background(), "probertson")

		require.NoError(t, err)
		assert.Len(t, urls, 2)
		assert.Equal(t, []string{
			"https://probertson.livejournal.com/",
			"https://probertson.livejournal.com/?skip=10",
		}, fetched)
	})

	t.Run("returns ENOTFOUND for a missing journal", func(t *testing.T) {
		t.Parallel()

		lister := &livejournal.PageLister{
			Fetcher:  pageFetcher(pages, nil),
			Selector: lineSelector,
		}

		_, err := lister.ListPosts(context.Background(), "nobody")

		assert.Equal(t, ljdl.ENOTFOUND, ljdl.ErrorCode(err))
	})

	t.Run("propagates selector errors", func(t *testing.T) {
		t.Parallel()

		lister := &livejournal.PageLister{
			Fetcher: pageFetcher(pages, nil),
			Selector: &mock.LinkSelector{
				SelectPostLinksFn: func(string, string) ([]string, error) {
					return nil, errors.New("bad page")
				},
			},
		}

		_, err := lister.ListPosts(context.Background(), "probertson")

		assert.EqualError(t, err, "bad page")
	})
}
