package http

import (
	"context"
	"net"
	"strings"
	"sync"

	"github.com/fwojciec/ljdl"
	"golang.org/x/net/publicsuffix"
	"golang.org/x/time/rate"
)

var _ ljdl.DomainLimiter = (*SiteLimiter)(nil)

// SiteLimiter throttles requests per registrable domain. Every journal
// lives on its own subdomain of livejournal.com, so all page requests share
// one bucket while the image proxy on livejournal.net gets another.
type SiteLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
}

// NewSiteLimiter returns a limiter allowing rps requests per second to each
// site, without bursts.
func NewSiteLimiter(rps float64) *SiteLimiter {
	return &SiteLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Limit(rps),
	}
}

// Wait blocks until a request to host is allowed or ctx is done.
func (l *SiteLimiter) Wait(ctx context.Context, host string) error {
	return l.limiter(site(host)).Wait(ctx)
}

func (l *SiteLimiter) limiter(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	lim, ok := l.limiters[key]
	if !ok {
		lim = rate.NewLimiter(l.limit, 1)
		l.limiters[key] = lim
	}
	return lim
}

// site returns the registrable domain of host, or host itself for IPs and
// names without a public suffix.
func site(host string) string {
	host = strings.ToLower(host)
	if net.ParseIP(host) != nil {
		return host
	}
	if d, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil {
		return d
	}
	return host
}
