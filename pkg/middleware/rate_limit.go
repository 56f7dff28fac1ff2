package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"reservio/pkg/logger"
)

type clientBucket struct {
	count       int
	windowStart time.Time
}

// ClientRateLimiter enforces a fixed-window request limit per caller.
// Callers are keyed by their X-User-ID header when present, falling
// back to the remote address for anonymous traffic.
type ClientRateLimiter struct {
	mu       sync.Mutex
	buckets  map[string]*clientBucket
	limit    int
	window   time.Duration
	done     chan struct{}
	stopOnce sync.Once
}

func NewClientRateLimiter(limit int, window time.Duration) *ClientRateLimiter {
	rl := &ClientRateLimiter{
		buckets: make(map[string]*clientBucket),
		limit:   limit,
		window:  window,
		done:    make(chan struct{}),
	}

	go rl.cleanupLoop()

	return rl
}

func (rl *ClientRateLimiter) allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()

	bucket, ok := rl.buckets[key]
	if !ok || now.Sub(bucket.windowStart) >= rl.window {
		rl.buckets[key] = &clientBucket{count: 1, windowStart: now}
		return true
	}

	if bucket.count >= rl.limit {
		return false
	}

	bucket.count++
	return true
}

func (rl *ClientRateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.window)
	defer ticker.Stop()

	for {
		select {
		case <-rl.done:
			return
		case <-ticker.C:
			rl.mu.Lock()
			for key, bucket := range rl.buckets {
				if time.Since(bucket.windowStart) >= rl.window {
					delete(rl.buckets, key)
				}
			}
			rl.mu.Unlock()
		}
	}
}

// Stop terminates the background cleanup goroutine.
func (rl *ClientRateLimiter) Stop() {
	rl.stopOnce.Do(func() {
		close(rl.done)
	})
}

func clientKey(r *http.Request) string {
	if userID := r.Header.Get(userIDHeader); userID != "" {
		return "user:" + userID
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return "addr:" + r.RemoteAddr
	}
	return "addr:" + host
}

func RateLimit(rl *ClientRateLimiter, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientKey(r)

			if !rl.allow(key) {
				log.Warn("Rate limit exceeded",
					"request_id", RequestIDFromContext(r.Context()),
					"client", key,
					"path", r.URL.Path,
				)

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"error":"Too many requests"}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
