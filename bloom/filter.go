// Package bloom remembers which posts a journal listing has already yielded.
package bloom

import (
	"strings"

	"github.com/bits-and-blooms/bloom/v3"
)

// Filter is a probabilistic set of post URLs. A post may rarely be reported
// as seen when it was not; a seen post is never reported as new.
type Filter struct {
	f *bloom.BloomFilter
}

// NewFilter returns a Filter sized for n posts at the given false positive
// rate.
func NewFilter(n uint, fpRate float64) *Filter {
	return &Filter{f: bloom.NewWithEstimates(n, fpRate)}
}

// TestAndAdd marks url and reports whether it was already seen.
func (f *Filter) TestAndAdd(url string) bool {
	return f.f.TestAndAddString(key(url))
}

// key folds the scheme and host case so that http and https links to the
// same post collide.
func key(url string) string {
	if i := strings.Index(url, "://"); i >= 0 {
		url = url[i+3:]
	}
	host, path, _ := strings.Cut(url, "/")
	return strings.ToLower(host) + "/" + path
}
