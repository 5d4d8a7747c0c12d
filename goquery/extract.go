package goquery

import (
	"net/url"
	"strings"

	"github.com/fwojciec/ljdl"
)

// skipSchemes are href prefixes that never lead to a post.
var skipSchemes = []string{"javascript:", "mailto:", "tel:", "data:", "#"}

// postLink resolves href against the listing page and returns the canonical
// URL of the post it points to. Links to other hosts, comment anchors and
// thread queries are reduced or rejected so that every link to the same post
// yields the same string.
func postLink(base *url.URL, href string) (string, bool) {
	href = strings.TrimSpace(href)
	lower := strings.ToLower(href)
	for _, s := range skipSchemes {
		if strings.HasPrefix(lower, s) {
			return "", false
		}
	}

	ref, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	u := base.ResolveReference(ref)
	if !strings.EqualFold(u.Host, base.Host) {
		return "", false
	}
	u.RawQuery = ""
	u.Fragment = ""

	post, err := ljdl.ParsePostURL(u.String())
	if err != nil {
		return "", false
	}
	return post.URL(), true
}
