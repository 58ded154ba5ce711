package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"docqa/internal/contextutil"
	"docqa/internal/rag"
	"docqa/internal/service"
)

// AskHandler handles question requests against the ingested corpus.
type AskHandler struct {
	engine rag.Engine
}

// NewAskHandler creates a new AskHandler.
func NewAskHandler(engine rag.Engine) *AskHandler {
	return &AskHandler{engine: engine}
}

// AskRequest represents the HTTP request payload for questions.
type AskRequest struct {
	Query  string `json:"query"`
	ChatID string `json:"chat_id,omitempty"`
}

// ServeHTTP handles POST /ask.
func (h *AskHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		writeError(ctx, w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(ctx, w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Query = strings.TrimSpace(req.Query)
	if req.Query == "" {
		WriteServiceError(ctx, w, &service.ValidationError{Field: "query", Message: "Query is required"})
		return
	}

	resp, err := h.engine.Ask(ctx, rag.AskRequest{
		Question: req.Query,
		ChatID:   strings.TrimSpace(req.ChatID),
	})
	if err != nil {
		WriteServiceError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, resp)
}
