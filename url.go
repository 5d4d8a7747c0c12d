package ljdl

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	postURLPattern    = regexp.MustCompile(`^(?:https?://)?([\w-]+)\.livejournal\.com/(\d+)\.html`)
	journalURLPattern = regexp.MustCompile(`^(?:https?://)?([\w-]+)\.livejournal\.com/?(?:\?.*)?$`)
)

// ParsePostURL extracts the journal name and post ID from a URL of the
// form <journal>.livejournal.com/<digits>.html, scheme optional.
func ParsePostURL(rawURL string) (PostRef, error) {
	m := postURLPattern.FindStringSubmatch(rawURL)
	if m == nil {
		return PostRef{}, Errorf(EINVALID, "not a LiveJournal post URL: %q", rawURL)
	}
	return PostRef{Journal: m[1], ID: m[2]}, nil
}

// ParseJournalURL extracts the journal name from a journal front page URL.
func ParseJournalURL(rawURL string) (string, error) {
	m := journalURLPattern.FindStringSubmatch(rawURL)
	if m == nil || strings.EqualFold(m[1], "www") {
		return "", Errorf(EINVALID, "not a LiveJournal journal URL: %q", rawURL)
	}
	return m[1], nil
}

// JournalURL returns the front page URL of a journal.
func JournalURL(journal string) string {
	return fmt.Sprintf("https://%s.livejournal.com/", journal)
}
