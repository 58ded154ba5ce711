package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func embeddingsServer(t *testing.T, dims int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req EmbeddingsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}

		resp := EmbeddingsResponse{}
		for range req.Input {
			vec := make([]float64, dims)
			for i := range vec {
				vec[i] = 0.1
			}
			resp.Data = append(resp.Data, EmbeddingData{Embedding: vec})
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func TestEmbeddingsClient_EmbedTexts(t *testing.T) {
	server := embeddingsServer(t, 4)
	defer server.Close()

	client := NewEmbeddingsClient(server.URL, "k", "m", 4)
	vectors, err := client.EmbedTexts(context.Background(), []string{"one", "two", "three"})
	if err != nil {
		t.Fatalf("EmbedTexts() error = %v", err)
	}
	if len(vectors) != 3 {
		t.Fatalf("got %d vectors, want 3", len(vectors))
	}
	for i, vec := range vectors {
		if len(vec) != 4 {
			t.Errorf("vector %d has %d dims, want 4", i, len(vec))
		}
	}
}

func TestEmbeddingsClient_EmbedTexts_SizeMismatch(t *testing.T) {
	server := embeddingsServer(t, 4)
	defer server.Close()

	client := NewEmbeddingsClient(server.URL, "k", "m", 8)
	if _, err := client.EmbedTexts(context.Background(), []string{"one"}); err == nil {
		t.Error("EmbedTexts() should reject vectors of the wrong size")
	}
}

func TestEmbeddingsClient_EmbedTexts_EmptyInput(t *testing.T) {
	client := NewEmbeddingsClient("http://unused", "k", "m", 4)
	if _, err := client.EmbedTexts(context.Background(), nil); err == nil {
		t.Error("EmbedTexts() should reject empty input")
	}
}

func TestEmbeddingsClient_EmbedTexts_CountMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(EmbeddingsResponse{
			Data: []EmbeddingData{{Embedding: []float64{0.1}}},
		})
	}))
	defer server.Close()

	client := NewEmbeddingsClient(server.URL, "k", "m", 0)
	if _, err := client.EmbedTexts(context.Background(), []string{"a", "b"}); err == nil {
		t.Error("EmbedTexts() should reject a response with the wrong count")
	}
}
