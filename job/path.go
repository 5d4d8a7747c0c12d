package job

import (
	"path"
	"strings"

	"github.com/fwojciec/ljdl"
)

// unsafeChars are replaced in path segments.
const unsafeChars = `/\:*?"<>|`

// sanitize makes s usable as a single path segment on common filesystems.
func sanitize(s string) string {
	s = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f || strings.ContainsRune(unsafeChars, r) {
			return '_'
		}
		return r
	}, s)
	s = strings.TrimRight(strings.TrimSpace(s), ". ")
	if s == "" || s == "." || s == ".." {
		return "_"
	}
	return s
}

// postDir formats DirectoryTemplate segment by segment, so that field
// values cannot introduce extra directories.
func postDir(kw map[string]any) (string, error) {
	segments := strings.Split(ljdl.DirectoryTemplate, "/")
	for i, seg := range segments {
		s, err := ljdl.FormatTemplate(seg, kw)
		if err != nil {
			return "", err
		}
		segments[i] = sanitize(s)
	}
	return path.Join(segments...), nil
}

// postFile formats tmpl into a file name inside dir.
func postFile(dir, tmpl string, kw map[string]any) (string, error) {
	name, err := ljdl.FormatTemplate(tmpl, kw)
	if err != nil {
		return "", err
	}
	return path.Join(dir, sanitize(name)), nil
}
