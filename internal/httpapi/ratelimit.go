// Per-IP rate limiting for the upload endpoint: one golang.org/x/time/rate
// limiter per client IP, lazily created, reaped by a background sweep once
// it has been idle past the configured window.
package httpapi

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitConfig controls the per-IP token bucket and the idle-reap sweep.
type RateLimitConfig struct {
	RequestsPerSecond rate.Limit
	Burst             int
	IdleTimeout       time.Duration
	CleanupInterval   time.Duration
}

// DefaultRateLimitConfig allows bursts of upload activity from a single
// client (a batch uploader hitting the endpoint repeatedly) while capping
// sustained throughput.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerSecond: 1,
		Burst:             5,
		IdleTimeout:       10 * time.Minute,
		CleanupInterval:   time.Minute,
	}
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64
}

// IPRateLimiter tracks one token bucket per client IP.
type IPRateLimiter struct {
	limiters sync.Map // string -> *limiterEntry
	config   RateLimitConfig

	stopChan chan struct{}
	stopOnce sync.Once

	allowedCount  atomic.Uint64
	rejectedCount atomic.Uint64
}

// NewIPRateLimiter starts the background cleanup sweep and returns the
// limiter. Callers must call Stop when the server shuts down.
func NewIPRateLimiter(cfg RateLimitConfig) *IPRateLimiter {
	l := &IPRateLimiter{
		config:   cfg,
		stopChan: make(chan struct{}),
	}
	go l.cleanupLoop()
	return l
}

// Stop halts the cleanup sweep. Safe to call more than once.
func (l *IPRateLimiter) Stop() {
	l.stopOnce.Do(func() { close(l.stopChan) })
}

func (l *IPRateLimiter) getLimiter(ip string) *rate.Limiter {
	if v, ok := l.limiters.Load(ip); ok {
		e := v.(*limiterEntry)
		e.lastSeen.Store(time.Now().UnixNano())
		return e.limiter
	}
	e := &limiterEntry{limiter: rate.NewLimiter(l.config.RequestsPerSecond, l.config.Burst)}
	e.lastSeen.Store(time.Now().UnixNano())
	actual, _ := l.limiters.LoadOrStore(ip, e)
	return actual.(*limiterEntry).limiter
}

// Allow reports whether a request from ip may proceed right now, counting
// allows and rejections; each rejection also increments
// tf2stats_rate_limit_rejections_total on /metrics.
func (l *IPRateLimiter) Allow(ip string) bool {
	allowed := l.getLimiter(ip).Allow()
	if allowed {
		l.allowedCount.Add(1)
	} else {
		l.rejectedCount.Add(1)
		rateLimitRejections.Inc()
	}
	return allowed
}

func (l *IPRateLimiter) cleanupLoop() {
	ticker := time.NewTicker(l.config.CleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-l.stopChan:
			return
		case <-ticker.C:
			l.cleanup()
		}
	}
}

func (l *IPRateLimiter) cleanup() {
	cutoff := time.Now().Add(-l.config.IdleTimeout).UnixNano()
	l.limiters.Range(func(key, value any) bool {
		e := value.(*limiterEntry)
		if e.lastSeen.Load() < cutoff {
			l.limiters.Delete(key)
		}
		return true
	})
}

// Middleware rejects requests that exceed the per-IP rate with 429.
func (l *IPRateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := GetClientIP(r)
		if !l.Allow(ip) {
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetClientIP resolves the originating client address, preferring the
// X-Forwarded-For / X-Real-IP headers a reverse proxy sets before falling
// back to the raw connection address.
func GetClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		parts := strings.Split(fwd, ",")
		if ip := strings.TrimSpace(parts[0]); ip != "" {
			return ip
		}
	}
	if real := r.Header.Get("X-Real-IP"); real != "" {
		return strings.TrimSpace(real)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
