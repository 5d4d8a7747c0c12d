package livejournal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
	"regexp"
	"strings"

	"github.com/fwojciec/ljdl"
)

// Ensure PostExtractor implements ljdl.Extractor.
var _ ljdl.Extractor = (*PostExtractor)(nil)

var (
	articlePattern = regexp.MustCompile(`(?s)<article[^>]*class=" *b-singlepost[^>]*>(.*?)</article>`)
	imagePattern   = regexp.MustCompile(`(?s)<img[^>]*src="(https?://imgprx\.livejournal\.net/[^"]+)[^>]*>`)
)

// Journal keys that carry page-rendering state rather than journal metadata.
var excludedJournalKeys = []string{"public_entries", "is_journal_page", "manifest"}

// Userpic keys copied from Site.current_journal into the journal record.
var userpicKeys = []string{"url_allpics", "url_userpic", "userpic_w"}

// PostExtractor extracts a single post.
type PostExtractor struct {
	fetcher ljdl.Fetcher
	ref     ljdl.PostRef
}

// NewPostExtractor creates a PostExtractor for a post URL.
func NewPostExtractor(fetcher ljdl.Fetcher, rawURL string) (*PostExtractor, error) {
	ref, err := ljdl.ParsePostURL(rawURL)
	if err != nil {
		return nil, err
	}
	return &PostExtractor{fetcher: fetcher, ref: ref}, nil
}

// Ref returns the post the extractor was created for.
func (e *PostExtractor) Ref() ljdl.PostRef {
	return e.ref
}

// Items yields the Directory message of the post and a URL message per image.
func (e *PostExtractor) Items(ctx context.Context) iter.Seq2[ljdl.Message, error] {
	return items(ctx, e.fetcher, func(context.Context) ([]ljdl.PostRef, error) {
		return []ljdl.PostRef{e.ref}, nil
	})
}

// ExtractPost fetches the post page and returns its metadata together with
// the image URLs of the post body in document order.
//
// A page answered with status >= 400 yields an empty post and no images.
func ExtractPost(ctx context.Context, fetcher ljdl.Fetcher, ref ljdl.PostRef) (*ljdl.Post, []string, error) {
	postURL := ref.URL()

	resp, err := fetcher.Fetch(ctx, postURL)
	if err != nil {
		return nil, nil, err
	}
	if resp.StatusCode >= 400 {
		return &ljdl.Post{}, nil, nil
	}

	return ParsePost(resp.Body, ref)
}

// ParsePost extracts metadata and image URLs from the HTML of a post page.
func ParsePost(page string, ref ljdl.PostRef) (*ljdl.Post, []string, error) {
	m := articlePattern.FindStringSubmatch(page)
	if m == nil {
		return nil, nil, ljdl.Errorf(ljdl.EFRAGMENT, "post %s: article body not found", ref.URL())
	}
	content := m[1]

	images := []string{}
	for _, img := range imagePattern.FindAllStringSubmatch(content, -1) {
		images = append(images, img[1])
	}

	blobs, err := extractBlobs(page)
	if err != nil {
		return nil, nil, fmt.Errorf("post %s: %w", ref.URL(), err)
	}

	post, err := assemble(ref, blobs)
	if err != nil {
		return nil, nil, fmt.Errorf("post %s: %w", ref.URL(), err)
	}
	post.Content = content

	return post, images, nil
}

// blobs holds the inline script objects of a post page.
type blobs struct {
	page           map[string]any
	isAdult        bool
	journal        map[string]any
	entry          map[string]any
	currentJournal map[string]any
}

// extractBlobs reads the Site.* assignments in the order the page declares
// them. A missing is_adult assignment means the post is not adult.
func extractBlobs(page string) (*blobs, error) {
	c := ljdl.NewCursor(page)

	var b blobs
	var err error

	if b.page, err = takeObject(c, "Site.page = "); err != nil {
		return nil, err
	}
	if s, err := c.TakeBetween("Site.page.is_adult = ", ";"); err == nil {
		b.isAdult = ljdl.ParseLiteral(s)
	}
	if b.journal, err = takeObject(c, "Site.journal = "); err != nil {
		return nil, err
	}
	if b.entry, err = takeObject(c, "Site.entry = "); err != nil {
		return nil, err
	}
	if b.currentJournal, err = takeObject(c, "Site.current_journal = "); err != nil {
		return nil, err
	}

	return &b, nil
}

// takeObject slices the object literal assigned after marker. The slice
// stops before the closing "};", so the brace is restored before decoding.
func takeObject(c *ljdl.Cursor, marker string) (map[string]any, error) {
	s, err := c.TakeBetween(marker, "};")
	if err != nil {
		return nil, err
	}

	name := strings.TrimSuffix(marker, " = ")
	dec := json.NewDecoder(strings.NewReader(s + "}"))
	dec.UseNumber()

	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return nil, ljdl.Errorf(ljdl.EINVALID, "decoding %s before offset %d: %v", name, c.Pos(), err)
	}
	// The literal must be the only value in the slice.
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, ljdl.Errorf(ljdl.EINVALID, "decoding %s before offset %d: trailing data after object", name, c.Pos())
	}
	return obj, nil
}

func assemble(ref ljdl.PostRef, b *blobs) (*ljdl.Post, error) {
	journal := ljdl.FilterExcluding(b.journal, excludedJournalKeys...)
	for _, key := range userpicKeys {
		v, ok := b.currentJournal[key]
		if !ok {
			return nil, missingKey("Site.current_journal", key)
		}
		journal[key] = v
	}

	title, ok := b.entry["title"]
	if !ok {
		return nil, missingKey("Site.entry", "title")
	}
	eventTime, ok := b.entry["eventtime"]
	if !ok {
		return nil, missingKey("Site.entry", "eventtime")
	}
	replyCount, ok := b.page["replycount"]
	if !ok {
		return nil, missingKey("Site.page", "replycount")
	}
	allowCommenting, ok := b.page["allow_commenting"]
	if !ok {
		return nil, missingKey("Site.page", "allow_commenting")
	}

	post := &ljdl.Post{
		URL:             ref.URL(),
		ID:              ref.ID,
		Journal:         journal,
		Poster:          ljdl.FilterByKeyPrefix(b.entry, "poster"),
		Title:           stringValue(title),
		AllowCommenting: ljdl.Truthy(allowCommenting),
		IsAdult:         b.isAdult,
	}
	post.Date, _ = ljdl.ParseTimestamp(eventTime)
	post.ReplyCount, _ = ljdl.ToInt(replyCount)

	return post, nil
}

func missingKey(object, key string) error {
	return ljdl.Errorf(ljdl.EINVALID, "%s: missing key %q", object, key)
}

func stringValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	}
	return fmt.Sprint(v)
}
