package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"docqa/internal/contextutil"
	"docqa/internal/ratelimit"
)

func TestLoggerMiddleware(t *testing.T) {
	var sawLogger bool
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// A request-scoped logger differs from the process default.
		sawLogger = contextutil.LoggerFromContext(r.Context()) != slog.Default()
		w.WriteHeader(http.StatusOK)
	})

	mw := LoggerMiddleware(handler)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rec := httptest.NewRecorder()
	mw.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if !sawLogger {
		t.Error("expected a logger in the request context")
	}
}

func TestCORS(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mw := CORS(handler)

	t.Run("regular request", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		rec := httptest.NewRecorder()
		mw.ServeHTTP(rec, req)

		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
			t.Errorf("Access-Control-Allow-Origin = %q", got)
		}
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
		}
	})

	t.Run("preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/test", nil)
		rec := httptest.NewRecorder()
		mw.ServeHTTP(rec, req)

		if rec.Code != http.StatusNoContent {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusNoContent)
		}
	})
}

func TestRateLimitRejectsBeyondBudget(t *testing.T) {
	limiter := ratelimit.New(1, time.Minute)

	var handled int
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handled++
		w.WriteHeader(http.StatusOK)
	})
	mw := RateLimit(limiter)(handler)

	first := httptest.NewRecorder()
	mw.ServeHTTP(first, httptest.NewRequest(http.MethodPost, "/ask", nil))
	if first.Code != http.StatusOK {
		t.Fatalf("first request status = %d, want %d", first.Code, http.StatusOK)
	}

	second := httptest.NewRecorder()
	mw.ServeHTTP(second, httptest.NewRequest(http.MethodPost, "/ask", nil))
	if second.Code != http.StatusTooManyRequests {
		t.Fatalf("second request status = %d, want %d", second.Code, http.StatusTooManyRequests)
	}
	if handled != 1 {
		t.Errorf("handler ran %d times, want 1", handled)
	}

	var resp map[string]string
	if err := json.Unmarshal(second.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode rejection body: %v", err)
	}
	if resp["error"] == "" {
		t.Error("expected an error message in the rejection body")
	}
}

func TestRateLimitSkipsHealthChecks(t *testing.T) {
	limiter := ratelimit.New(1, time.Minute)
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mw := RateLimit(limiter)(handler)

	// Exhaust the budget.
	mw.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/ask", nil))

	rec := httptest.NewRecorder()
	mw.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("health check status = %d, want %d", rec.Code, http.StatusOK)
	}
}
