package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/mock/gomock"

	"docqa/internal/rag"
	ragmocks "docqa/internal/rag/mocks"
	"docqa/internal/service"
)

func TestAskHandlerAnswersQuestion(t *testing.T) {
	ctrl := gomock.NewController(t)
	engine := ragmocks.NewMockEngine(ctrl)
	h := NewAskHandler(engine)

	engine.EXPECT().Ask(gomock.Any(), rag.AskRequest{Question: "What is Go?", ChatID: "chat-1"}).
		Return(rag.AskResponse{
			ChatID: "chat-1",
			Answer: "Go is a programming language.",
			Sources: []rag.Source{
				{Source: "go.pdf", DocID: "doc-1", Chunk: 2},
			},
		}, nil)

	body := bytes.NewBufferString(`{"query": "What is Go?", "chat_id": "chat-1"}`)
	req := httptest.NewRequest(http.MethodPost, "/ask", body)
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	var resp rag.AskResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ChatID != "chat-1" || resp.Answer != "Go is a programming language." {
		t.Errorf("response = %+v", resp)
	}
	if len(resp.Sources) != 1 || resp.Sources[0].Chunk != 2 {
		t.Errorf("sources = %+v", resp.Sources)
	}
}

func TestAskHandlerValidation(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantError string
	}{
		{name: "empty query", body: `{"query": ""}`, wantError: "Query is required"},
		{name: "whitespace query", body: `{"query": "   "}`, wantError: "Query is required"},
		{name: "malformed json", body: `{"query": `, wantError: "Invalid request body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			h := NewAskHandler(ragmocks.NewMockEngine(ctrl))

			req := httptest.NewRequest(http.MethodPost, "/ask", bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
			}
			var resp ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to decode error response: %v", err)
			}
			if resp.Error != tt.wantError {
				t.Errorf("error = %q, want %q", resp.Error, tt.wantError)
			}
		})
	}
}

func TestAskHandlerErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{
			name:       "retrieval unavailable",
			err:        fmt.Errorf("%w: qdrant unreachable", service.ErrRetrieval),
			wantStatus: http.StatusServiceUnavailable,
		},
		{
			name:       "generation failed",
			err:        fmt.Errorf("%w: model offline", service.ErrGeneration),
			wantStatus: http.StatusBadGateway,
		},
		{
			name:       "unexpected",
			err:        fmt.Errorf("boom"),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			engine := ragmocks.NewMockEngine(ctrl)
			h := NewAskHandler(engine)

			engine.EXPECT().Ask(gomock.Any(), gomock.Any()).
				Return(rag.AskResponse{}, tt.err)

			body := bytes.NewBufferString(`{"query": "What is Go?"}`)
			req := httptest.NewRequest(http.MethodPost, "/ask", body)
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}

			var resp ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to decode error response: %v", err)
			}
			if resp.Error == "" {
				t.Error("expected an error message")
			}
		})
	}
}
