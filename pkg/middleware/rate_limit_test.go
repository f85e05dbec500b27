package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"rezerv/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "error", Format: logger.FormatJSON, Service: "test"})
}

func TestClientRateLimiter_BurstThenReject(t *testing.T) {
	rl := NewClientRateLimiter(1, 2, DefaultClientKeyExtractor, testLogger())
	defer rl.Stop()

	if !rl.Allow("client-a") || !rl.Allow("client-a") {
		t.Fatal("requests within the burst must be allowed")
	}
	if rl.Allow("client-a") {
		t.Error("request beyond the burst must be rejected")
	}
}

func TestClientRateLimiter_KeysAreIndependent(t *testing.T) {
	rl := NewClientRateLimiter(1, 1, DefaultClientKeyExtractor, testLogger())
	defer rl.Stop()

	if !rl.Allow("client-a") {
		t.Fatal("first request for client-a must pass")
	}
	if !rl.Allow("client-b") {
		t.Error("client-b must have its own bucket")
	}
}

func TestClientRateLimiter_EmptyKeyNeverLimited(t *testing.T) {
	rl := NewClientRateLimiter(1, 1, DefaultClientKeyExtractor, testLogger())
	defer rl.Stop()

	for i := 0; i < 5; i++ {
		if !rl.Allow("") {
			t.Fatal("empty keys must bypass rate limiting")
		}
	}
}

func TestClientRateLimit_Returns429(t *testing.T) {
	rl := NewClientRateLimiter(1, 1, DefaultClientKeyExtractor, testLogger())
	defer rl.Stop()

	handler := ClientRateLimit(rl)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings", nil)
	req.Header.Set("X-Api-Key", "client-a")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("first request: status = %d, want 200", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("second request: status = %d, want 429", rec.Code)
	}
}

func TestDefaultClientKeyExtractor(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.7:52000"
	if got := DefaultClientKeyExtractor(req); got != "10.0.0.7" {
		t.Errorf("expected remote host, got %q", got)
	}

	req.Header.Set("X-Api-Key", "abc123")
	if got := DefaultClientKeyExtractor(req); got != "abc123" {
		t.Errorf("expected API key to take precedence, got %q", got)
	}
}
