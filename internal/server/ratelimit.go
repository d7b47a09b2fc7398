package server

import (
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"groundwork/internal/constants"
)

// ipRateLimiter throttles requests per client IP using token buckets.
// Buckets for idle clients are evicted by a background sweeper so the map
// does not grow without bound.
type ipRateLimiter struct {
	mu       sync.Mutex
	clients  map[string]*rateLimitClient
	limit    rate.Limit
	burst    int
	stop     chan struct{}
	stopOnce sync.Once
}

type rateLimitClient struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// newIPRateLimiter creates a limiter allowing perSecond sustained requests
// with the given burst, and starts the idle-bucket sweeper.
func newIPRateLimiter(perSecond, burst int) *ipRateLimiter {
	rl := &ipRateLimiter{
		clients: make(map[string]*rateLimitClient),
		limit:   rate.Limit(perSecond),
		burst:   burst,
		stop:    make(chan struct{}),
	}
	go rl.sweepLoop()
	return rl
}

// Stop terminates the sweeper goroutine. Safe to call more than once.
func (rl *ipRateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

// allow reports whether the client identified by ip may proceed.
func (rl *ipRateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	c, ok := rl.clients[ip]
	if !ok {
		c = &rateLimitClient{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.clients[ip] = c
	}
	c.lastSeen = time.Now()
	return c.limiter.Allow()
}

// Middleware rejects over-limit requests with 429.
func (rl *ipRateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.allow(getClientIP(r)) {
			WriteError(w, http.StatusTooManyRequests, "rate limit exceeded", constants.ErrCodeRateLimited)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (rl *ipRateLimiter) sweepLoop() {
	ticker := time.NewTicker(constants.RateLimitSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			rl.sweep(time.Now())
		}
	}
}

// sweep evicts buckets idle longer than the eviction window.
func (rl *ipRateLimiter) sweep(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	for ip, c := range rl.clients {
		if now.Sub(c.lastSeen) > constants.RateLimitIdleEviction {
			delete(rl.clients, ip)
		}
	}
}
