package ljdl

import (
	"context"
	"iter"
)

// MessageKind tags a pipeline message.
type MessageKind int

// Message kinds, in the order they appear for a post.
const (
	// MessageDirectory carries the metadata of a whole post and precedes its files.
	MessageDirectory MessageKind = iota + 1

	// MessageURL carries one downloadable file.
	MessageURL
)

// String returns the kind name.
func (k MessageKind) String() string {
	switch k {
	case MessageDirectory:
		return "directory"
	case MessageURL:
		return "url"
	}
	return "unknown"
}

// Message is one item of an extractor's output stream.
// URL is only set for MessageURL.
type Message struct {
	Kind MessageKind
	URL  string
	Post *Post
}

// Extractor turns a matched URL into a stream of messages.
type Extractor interface {
	// Items lazily yields one Directory message per post followed by one
	// URL message per file. Work for the next post starts only when the
	// consumer asks for it. An error is yielded once as the last element.
	//
	// The same *Post is reused and mutated between the URL messages of
	// one post; consumers that keep it must Clone it.
	Items(ctx context.Context) iter.Seq2[Message, error]
}

// PostLister discovers the post URLs of a journal.
type PostLister interface {
	// ListPosts returns post URLs of the journal in the order the site lists them.
	ListPosts(ctx context.Context, journal string) ([]string, error)
}
