package fetch

import (
	"net/url"
	"sync"

	"golang.org/x/time/rate"
)

// RateLimiterManager manages per-host rate limiters so that mirror
// failover never hammers a single origin harder than configured
type RateLimiterManager struct {
	mu            sync.RWMutex
	hostToLimiter map[string]*rate.Limiter
	rps           float64
	burst         int
}

// NewRateLimiterManager creates a manager; rps <= 0 disables limiting
func NewRateLimiterManager(rps float64, burst int) *RateLimiterManager {
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiterManager{
		hostToLimiter: make(map[string]*rate.Limiter),
		rps:           rps,
		burst:         burst,
	}
}

// GetLimiterForURL returns the limiter for the URL's host, creating it
// on first use. Returns nil when limiting is disabled.
func (m *RateLimiterManager) GetLimiterForURL(u *url.URL) *rate.Limiter {
	if m == nil || u == nil || m.rps <= 0 {
		return nil
	}

	host := u.Host
	m.mu.RLock()
	limiter, ok := m.hostToLimiter[host]
	m.mu.RUnlock()
	if ok {
		return limiter
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if limiter, ok = m.hostToLimiter[host]; ok {
		return limiter
	}
	limiter = rate.NewLimiter(rate.Limit(m.rps), m.burst)
	m.hostToLimiter[host] = limiter
	return limiter
}
