package middleware

import (
	"bytes"
	"net/http"
	"sync"
	"time"

	"reservio/pkg/logger"
)

const idempotencyKeyHeader = "Idempotency-Key"

type cachedResponse struct {
	statusCode  int
	body        []byte
	contentType string
	storedAt    time.Time
}

// InMemoryIdempotencyStore keeps completed POST responses for a bounded
// window so that client retries with the same Idempotency-Key replay the
// original response instead of re-executing the request.
type InMemoryIdempotencyStore struct {
	mu      sync.RWMutex
	entries map[string]cachedResponse
	ttl     time.Duration
	done    chan struct{}
	once    sync.Once
}

func NewInMemoryIdempotencyStore(ttl time.Duration) *InMemoryIdempotencyStore {
	store := &InMemoryIdempotencyStore{
		entries: make(map[string]cachedResponse),
		ttl:     ttl,
		done:    make(chan struct{}),
	}

	go store.cleanupLoop()

	return store
}

func (s *InMemoryIdempotencyStore) get(key string) (cachedResponse, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[key]
	if !ok || time.Since(entry.storedAt) > s.ttl {
		return cachedResponse{}, false
	}
	return entry, true
}

func (s *InMemoryIdempotencyStore) set(key string, entry cachedResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry.storedAt = time.Now()
	s.entries[key] = entry
}

func (s *InMemoryIdempotencyStore) cleanupLoop() {
	ticker := time.NewTicker(s.ttl)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.mu.Lock()
			for key, entry := range s.entries {
				if time.Since(entry.storedAt) > s.ttl {
					delete(s.entries, key)
				}
			}
			s.mu.Unlock()
		}
	}
}

// Stop terminates the background cleanup goroutine.
func (s *InMemoryIdempotencyStore) Stop() {
	s.once.Do(func() {
		close(s.done)
	})
}

type captureWriter struct {
	http.ResponseWriter
	statusCode int
	body       bytes.Buffer
}

func (cw *captureWriter) WriteHeader(statusCode int) {
	cw.statusCode = statusCode
	cw.ResponseWriter.WriteHeader(statusCode)
}

func (cw *captureWriter) Write(b []byte) (int, error) {
	cw.body.Write(b)
	return cw.ResponseWriter.Write(b)
}

// Idempotency replays stored responses for repeated POST requests that
// carry the same Idempotency-Key. Requests without the header pass
// through untouched.
func Idempotency(store *InMemoryIdempotencyStore, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				next.ServeHTTP(w, r)
				return
			}

			key := r.Header.Get(idempotencyKeyHeader)
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			if cached, ok := store.get(key); ok {
				log.Info("Replaying idempotent response",
					"request_id", RequestIDFromContext(r.Context()),
					"idempotency_key", key,
					"status", cached.statusCode,
				)

				if cached.contentType != "" {
					w.Header().Set("Content-Type", cached.contentType)
				}
				w.WriteHeader(cached.statusCode)
				_, _ = w.Write(cached.body)
				return
			}

			cw := &captureWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(cw, r)

			// Only 2xx outcomes are worth replaying; errors should be
			// retried for real.
			if cw.statusCode >= 200 && cw.statusCode < 300 {
				store.set(key, cachedResponse{
					statusCode:  cw.statusCode,
					body:        cw.body.Bytes(),
					contentType: cw.Header().Get("Content-Type"),
				})
			}
		})
	}
}
