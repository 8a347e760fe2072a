// Package ratelimit throttles outbound page fetches per target host so that
// a reconciliation pass never hammers one storefront, while fetches against
// different hosts proceed independently.
package ratelimit

import (
	"context"
	"net/url"
	"strings"
	"sync"

	"golang.org/x/time/rate"
)

type PerHost struct {
	limit rate.Limit
	burst int

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewPerHost builds a limiter allowing requestsPerSecond against each host.
func NewPerHost(requestsPerSecond float64) *PerHost {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 1
	}
	return &PerHost{
		limit:    rate.Limit(requestsPerSecond),
		burst:    1,
		limiters: make(map[string]*rate.Limiter),
	}
}

// Wait blocks until a fetch against rawURL's host is allowed, or ctx is done.
func (p *PerHost) Wait(ctx context.Context, rawURL string) error {
	return p.limiterFor(hostOf(rawURL)).Wait(ctx)
}

func (p *PerHost) limiterFor(host string) *rate.Limiter {
	p.mu.Lock()
	defer p.mu.Unlock()
	limiter, ok := p.limiters[host]
	if !ok {
		limiter = rate.NewLimiter(p.limit, p.burst)
		p.limiters[host] = limiter
	}
	return limiter
}

func hostOf(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Hostname() == "" {
		// Unparseable URLs share one bucket rather than bypassing the limit.
		return "unknown"
	}
	return strings.ToLower(parsed.Hostname())
}
