package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type fakeChecker struct {
	exists bool
	err    error
}

func (c *fakeChecker) CollectionExists(ctx context.Context, collection string) (bool, error) {
	return c.exists, c.err
}

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name       string
		checker    *fakeChecker
		wantStatus int
		wantState  string
	}{
		{
			name:       "healthy",
			checker:    &fakeChecker{exists: true},
			wantStatus: http.StatusOK,
			wantState:  "healthy",
		},
		{
			name:       "collection missing",
			checker:    &fakeChecker{exists: false},
			wantStatus: http.StatusServiceUnavailable,
			wantState:  "unhealthy",
		},
		{
			name:       "vector store unreachable",
			checker:    &fakeChecker{err: errors.New("connection refused")},
			wantStatus: http.StatusServiceUnavailable,
			wantState:  "unhealthy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(tt.checker, "documents")

			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			var resp HealthResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if resp.Status != tt.wantState {
				t.Errorf("state = %q, want %q", resp.Status, tt.wantState)
			}
		})
	}
}
