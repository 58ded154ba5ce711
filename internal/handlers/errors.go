package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"docqa/internal/contextutil"
	"docqa/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes v as the JSON response body.
func writeJSON(ctx context.Context, w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

// writeError writes an error response.
func writeError(ctx context.Context, w http.ResponseWriter, statusCode int, message string) {
	writeJSON(ctx, w, statusCode, ErrorResponse{Error: message})
}

// WriteServiceError maps the service error taxonomy to HTTP status codes.
// It is exported so the middleware chain shares one mapping with the
// handlers.
func WriteServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	logger := contextutil.LoggerFromContext(ctx)

	var validationErr *service.ValidationError
	switch {
	case errors.As(err, &validationErr):
		logger.WarnContext(ctx, "validation failed", "field", validationErr.Field, "error", err)
		writeError(ctx, w, http.StatusBadRequest, validationErr.Message)
	case errors.Is(err, service.ErrNotFound):
		writeError(ctx, w, http.StatusNotFound, "Not found")
	case errors.Is(err, service.ErrRateLimited):
		writeError(ctx, w, http.StatusTooManyRequests, "Too many requests")
	case errors.Is(err, service.ErrRetrieval):
		logger.ErrorContext(ctx, "retrieval unavailable", "error", err)
		writeError(ctx, w, http.StatusServiceUnavailable, "Vector store unavailable")
	case errors.Is(err, service.ErrGeneration):
		logger.ErrorContext(ctx, "generation failed", "error", err)
		writeError(ctx, w, http.StatusBadGateway, "Language model unavailable")
	default:
		logger.ErrorContext(ctx, "request failed", "error", err)
		writeError(ctx, w, http.StatusInternalServerError, "Internal server error")
	}
}
