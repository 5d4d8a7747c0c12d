package livejournal

import (
	"context"
	"iter"

	"github.com/fwojciec/ljdl"
)

// Ensure JournalExtractor implements ljdl.Extractor.
var _ ljdl.Extractor = (*JournalExtractor)(nil)

// JournalExtractor extracts every post a lister finds for a journal.
// Posts are fetched one at a time as the consumer pulls messages.
type JournalExtractor struct {
	fetcher ljdl.Fetcher
	lister  ljdl.PostLister
	journal string
}

// NewJournalExtractor creates a JournalExtractor for a journal URL.
func NewJournalExtractor(fetcher ljdl.Fetcher, lister ljdl.PostLister, rawURL string) (*JournalExtractor, error) {
	journal, err := ljdl.ParseJournalURL(rawURL)
	if err != nil {
		return nil, err
	}
	if lister == nil {
		return nil, ljdl.Errorf(ljdl.EINVALID, "no post lister configured for journal %q", journal)
	}
	return &JournalExtractor{fetcher: fetcher, lister: lister, journal: journal}, nil
}

// Journal returns the journal name.
func (e *JournalExtractor) Journal() string {
	return e.journal
}

// Items yields the messages of each listed post in listing order.
func (e *JournalExtractor) Items(ctx context.Context) iter.Seq2[ljdl.Message, error] {
	return items(ctx, e.fetcher, e.refs)
}

func (e *JournalExtractor) refs(ctx context.Context) ([]ljdl.PostRef, error) {
	urls, err := e.lister.ListPosts(ctx, e.journal)
	if err != nil {
		return nil, err
	}

	refs := make([]ljdl.PostRef, 0, len(urls))
	for _, u := range urls {
		ref, err := ljdl.ParsePostURL(u)
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, nil
}
