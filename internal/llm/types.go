package llm

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_llm.go -package=mocks docqa/internal/llm Generator,Embedder

import "context"

// Message represents a single message in a chat conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Generator produces text from a prompt. Implemented by Client.
type Generator interface {
	// ChatWithMessages sends messages to the model and returns the reply text.
	ChatWithMessages(ctx context.Context, messages []Message) (string, error)
}

// Embedder turns texts into vectors. Implemented by EmbeddingsClient.
type Embedder interface {
	// EmbedTexts generates one embedding per input text.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}
