package server

import (
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/paperlens/paperlens-go/internal/logging"
)

const (
	// defaultRateLimit is the sustained per-IP request rate (requests per
	// second) on rate-limited endpoints when none is configured.
	defaultRateLimit = 10

	// defaultRateBurst is the per-IP burst capacity when none is configured.
	defaultRateBurst = 20

	// sweepEvery is how often stale per-IP buckets are reclaimed.
	sweepEvery = time.Minute

	// staleAfter is how long an IP must be idle before its bucket is
	// reclaimed. Reclaiming resets the bucket to full, which is acceptable
	// for an IP that has been quiet this long.
	staleAfter = 5 * time.Minute
)

// visitor is one remote IP's token bucket plus its last-activity timestamp.
type visitor struct {
	bucket *rate.Limiter
	seen   time.Time
}

// rateLimiter applies a per-IP token bucket to the handlers it wraps.
// Buckets are created lazily per IP and reclaimed after staleAfter of
// inactivity so the map stays bounded by the active client set.
type rateLimiter struct {
	rps   rate.Limit
	burst int
	log   *slog.Logger

	mu       sync.Mutex
	visitors map[string]*visitor
}

// newRateLimiter builds a rateLimiter and starts its sweep goroutine. The
// returned stop function terminates the goroutine; the server calls it
// during shutdown.
func newRateLimiter(rps float64, burst int, log *slog.Logger) (*rateLimiter, func()) {
	rl := &rateLimiter{
		rps:      rate.Limit(rps),
		burst:    burst,
		log:      log,
		visitors: make(map[string]*visitor),
	}

	done := make(chan struct{})
	go func() {
		t := time.NewTicker(sweepEvery)
		defer t.Stop()
		for {
			select {
			case <-done:
				return
			case <-t.C:
				rl.sweep(time.Now())
			}
		}
	}()

	return rl, func() { close(done) }
}

// allow reports whether the given IP may make a request now, consuming one
// token when it may.
func (rl *rateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, ok := rl.visitors[ip]
	if !ok {
		v = &visitor{bucket: rate.NewLimiter(rl.rps, rl.burst)}
		rl.visitors[ip] = v
	}
	v.seen = time.Now()
	return v.bucket.Allow()
}

// sweep drops every visitor idle longer than staleAfter.
func (rl *rateLimiter) sweep(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	for ip, v := range rl.visitors {
		if now.Sub(v.seen) > staleAfter {
			delete(rl.visitors, ip)
		}
	}
}

// middleware wraps next with the per-IP limit. Rejected requests get 429
// with a Retry-After header and a WARN log entry.
func (rl *rateLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		if !rl.allow(ip) {
			logging.FromContext(r.Context()).Warn("rate limit exceeded",
				slog.String("ip", ip),
				slog.String("path", r.URL.Path),
			)
			w.Header().Set("Retry-After", "1")
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP derives the bucket key from RemoteAddr by stripping the port.
// X-Forwarded-For is deliberately ignored: the server binds to localhost
// and a spoofable header would let one client occupy arbitrary buckets.
func clientIP(r *http.Request) string {
	if i := strings.LastIndexByte(r.RemoteAddr, ':'); i >= 0 {
		return r.RemoteAddr[:i]
	}
	return r.RemoteAddr
}
