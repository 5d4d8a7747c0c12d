// Package livejournal extracts post metadata and image URLs from
// LiveJournal pages and streams them as pipeline messages.
package livejournal

import (
	"context"
	"iter"

	"github.com/fwojciec/ljdl"
)

// AdultCookie opts into adult content so that such posts render their body
// instead of a warning page.
var AdultCookie = ljdl.Cookie{
	Name:   "adult_explicit",
	Value:  "1",
	Domain: ".livejournal.com",
}

// Find returns the extractor for rawURL. Post URLs are matched first,
// then journal front pages. The lister is only used for journals.
func Find(rawURL string, fetcher ljdl.Fetcher, lister ljdl.PostLister) (ljdl.Extractor, error) {
	if _, err := ljdl.ParsePostURL(rawURL); err == nil {
		return NewPostExtractor(fetcher, rawURL)
	}
	if _, err := ljdl.ParseJournalURL(rawURL); err == nil {
		return NewJournalExtractor(fetcher, lister, rawURL)
	}
	return nil, ljdl.Errorf(ljdl.EINVALID, "no extractor for URL %q", rawURL)
}

// emit yields the Directory message of post followed by one URL message per
// image, numbered from 1. It reports whether the consumer wants more.
func emit(post *ljdl.Post, images []string, yield func(ljdl.Message, error) bool) bool {
	if !yield(ljdl.Message{Kind: ljdl.MessageDirectory, Post: post}, nil) {
		return false
	}
	for i, u := range images {
		post.Num = i + 1
		post.URL = u
		post.Extension = ljdl.ExtensionFromURL(u)
		if !yield(ljdl.Message{Kind: ljdl.MessageURL, URL: u, Post: post}, nil) {
			return false
		}
	}
	return true
}

// items runs the shared extraction loop over the posts produced by refs.
func items(ctx context.Context, fetcher ljdl.Fetcher, refs func(context.Context) ([]ljdl.PostRef, error)) iter.Seq2[ljdl.Message, error] {
	return func(yield func(ljdl.Message, error) bool) {
		if err := fetcher.SetCookie(AdultCookie); err != nil {
			yield(ljdl.Message{}, err)
			return
		}

		posts, err := refs(ctx)
		if err != nil {
			yield(ljdl.Message{}, err)
			return
		}

		for _, ref := range posts {
			if err := ctx.Err(); err != nil {
				yield(ljdl.Message{}, err)
				return
			}

			post, images, err := ExtractPost(ctx, fetcher, ref)
			if err != nil {
				yield(ljdl.Message{}, err)
				return
			}
			if !emit(post, images, yield) {
				return
			}
		}
	}
}
