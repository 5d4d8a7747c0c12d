package mock

import (
	"context"
	"iter"

	"github.com/fwojciec/ljdl"
)

// Compile-time interface verification.
var (
	_ ljdl.Extractor    = (*Extractor)(nil)
	_ ljdl.PostLister   = (*PostLister)(nil)
	_ ljdl.LinkSelector = (*LinkSelector)(nil)
)

// Extractor is a mock implementation of ljdl.Extractor.
type Extractor struct {
	ItemsFn func(ctx context.Context) iter.Seq2[ljdl.Message, error]
}

func (e *Extractor) Items(ctx context.Context) iter.Seq2[ljdl.Message, error] {
	return e.ItemsFn(ctx)
}

// Messages returns an Extractor that yields msgs and then err, if non-nil.
func Messages(err error, msgs ...ljdl.Message) *Extractor {
	return &Extractor{
		ItemsFn: func(ctx context.Context) iter.Seq2[ljdl.Message, error] {
			return func(yield func(ljdl.Message, error) bool) {
				for _, m := range msgs {
					if !yield(m, nil) {
						return
					}
				}
				if err != nil {
					yield(ljdl.Message{}, err)
				}
			}
		},
	}
}

// PostLister is a mock implementation of ljdl.PostLister.
type PostLister struct {
	ListPostsFn func(ctx context.Context, journal string) ([]string, error)
}

func (l *PostLister) ListPosts(ctx context.Context, journal string) ([]string, error) {
	return l.ListPostsFn(ctx, journal)
}

// LinkSelector is a mock implementation of ljdl.LinkSelector.
type LinkSelector struct {
	SelectPostLinksFn func(html string, baseURL string) ([]string, error)
}

func (s *LinkSelector) SelectPostLinks(html string, baseURL string) ([]string, error) {
	return s.SelectPostLinksFn(html, baseURL)
}
