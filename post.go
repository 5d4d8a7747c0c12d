package ljdl

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"net/url"
	"path"
	"strings"
	"time"
)

// PostRef identifies a single post by journal name and numeric post ID,
// both exactly as captured from the URL.
type PostRef struct {
	Journal string
	ID      string
}

// URL returns the canonical post URL.
func (r PostRef) URL() string {
	return fmt.Sprintf("https://%s.livejournal.com/%s.html", r.Journal, r.ID)
}

// Post holds the metadata scraped from a post page.
//
// Num, URL and Extension double as the per-file slot: while files are
// emitted they are overwritten with the current file's index, URL and
// extension.
type Post struct {
	URL             string         `json:"url"`
	ID              string         `json:"id"`
	Journal         map[string]any `json:"journal"`
	Poster          map[string]any `json:"poster"`
	Title           string         `json:"title"`
	Date            time.Time      `json:"date"`
	ReplyCount      int            `json:"replycount"`
	AllowCommenting bool           `json:"allow_commenting"`
	IsAdult         bool           `json:"is_adult"`
	Num             int            `json:"num,omitempty"`
	Extension       string         `json:"extension,omitempty"`

	// Content is the raw HTML of the post body.
	Content string `json:"-"`
}

// Empty reports whether the post carries no metadata, which is the case
// when its page could not be fetched.
func (p *Post) Empty() bool {
	return p == nil || (p.ID == "" && p.Journal == nil && p.Title == "")
}

// MarshalJSON encodes an empty post as {} and an unknown date as null.
func (p Post) MarshalJSON() ([]byte, error) {
	if p.Empty() {
		return []byte("{}"), nil
	}

	type post Post
	v := struct {
		post
		Date *time.Time `json:"date"`
	}{post: post(p)}
	if !p.Date.IsZero() {
		v.Date = &p.Date
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// JournalName returns journal.username, or "" when unknown.
func (p *Post) JournalName() string {
	if p == nil {
		return ""
	}
	s, _ := p.Journal["username"].(string)
	return s
}

// Clone returns a copy of the post whose maps are not shared with p.
func (p *Post) Clone() *Post {
	if p == nil {
		return nil
	}
	other := *p
	if p.Journal != nil {
		other.Journal = maps.Clone(p.Journal)
	}
	if p.Poster != nil {
		other.Poster = maps.Clone(p.Poster)
	}
	return &other
}

// Keywords returns the fields available to path and archive templates.
func (p *Post) Keywords() map[string]any {
	return map[string]any{
		"category":         Category,
		"url":              p.URL,
		"id":               p.ID,
		"journal":          p.Journal,
		"poster":           p.Poster,
		"title":            p.Title,
		"date":             p.Date,
		"replycount":       p.ReplyCount,
		"allow_commenting": p.AllowCommenting,
		"is_adult":         p.IsAdult,
		"num":              p.Num,
		"extension":        p.Extension,
	}
}

// ExtensionFromURL returns the lowercase file extension of the URL path
// without the dot, or "" when the last path segment has none.
func ExtensionFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	ext := strings.TrimPrefix(path.Ext(u.Path), ".")
	if ext == "" || len(ext) > 5 {
		return ""
	}
	for _, r := range ext {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return ""
		}
	}
	return strings.ToLower(ext)
}
