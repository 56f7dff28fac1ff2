package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"reservio/pkg/logger"
)

func discardLogger() *logger.Logger {
	return logger.New(logger.Config{
		Level:  logger.ERROR,
		Format: logger.TEXT,
		Output: io.Discard,
	})
}

func TestRateLimit_PerUser(t *testing.T) {
	rl := NewClientRateLimiter(2, time.Minute)
	defer rl.Stop()

	handler := RateLimit(rl, discardLogger())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func(userID string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings", nil)
		req.Header.Set("X-User-ID", userID)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := send("user-1"); code != http.StatusOK {
		t.Fatalf("request 1 status = %d, want 200", code)
	}
	if code := send("user-1"); code != http.StatusOK {
		t.Fatalf("request 2 status = %d, want 200", code)
	}
	if code := send("user-1"); code != http.StatusTooManyRequests {
		t.Fatalf("request 3 status = %d, want 429", code)
	}

	// A different caller has its own bucket.
	if code := send("user-2"); code != http.StatusOK {
		t.Fatalf("other user status = %d, want 200", code)
	}
}

func TestRateLimit_WindowResets(t *testing.T) {
	rl := NewClientRateLimiter(1, 20*time.Millisecond)
	defer rl.Stop()

	if !rl.allow("user:user-1") {
		t.Fatal("first request should be allowed")
	}
	if rl.allow("user:user-1") {
		t.Fatal("second request in window should be rejected")
	}

	time.Sleep(25 * time.Millisecond)

	if !rl.allow("user:user-1") {
		t.Fatal("request after window should be allowed")
	}
}
