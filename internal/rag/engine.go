// Package rag answers questions over the ingested corpus by retrieving
// relevant chunks and grounding the model's reply on them.
package rag

import (
	"context"
	"fmt"
	"strings"

	"docqa/internal/contextutil"
	"docqa/internal/llm"
	"docqa/internal/service"
	"docqa/internal/session"
	"docqa/internal/vectorstore"
)

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_engine.go -package=mocks docqa/internal/rag Engine

// DefaultTopK is the default number of chunks retrieved per question.
const DefaultTopK = 4

// NoResultsAnswer is returned verbatim when retrieval finds nothing.
const NoResultsAnswer = "No relevant documents found"

const answerSystemPrompt = "You are a helpful assistant. Use the following context to answer the question."

const condensePrompt = "Given the conversation so far, rephrase the follow-up question as a single standalone question. Reply with the question only."

// Engine answers questions against the ingested corpus.
type Engine interface {
	// Ask retrieves relevant chunks for the question and generates a grounded
	// answer, continuing the conversation identified by the request's chat id.
	Ask(ctx context.Context, req AskRequest) (AskResponse, error)
}

type engine struct {
	sessions    *session.Store
	generator   llm.Generator
	embedder    llm.Embedder
	vectorStore vectorstore.VectorStore
	collection  string
	topK        int
}

// NewEngine creates a retrieval engine. A non-positive topK falls back to the
// default.
func NewEngine(
	sessions *session.Store,
	generator llm.Generator,
	embedder llm.Embedder,
	vectorStore vectorstore.VectorStore,
	collection string,
	topK int,
) Engine {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &engine{
		sessions:    sessions,
		generator:   generator,
		embedder:    embedder,
		vectorStore: vectorStore,
		collection:  collection,
		topK:        topK,
	}
}

// Ask runs one question through condensation, retrieval, and generation.
// History is appended only after a successful answer, so a failed turn never
// pollutes the conversation.
func (e *engine) Ask(ctx context.Context, req AskRequest) (AskResponse, error) {
	logger := contextutil.LoggerFromContext(ctx)

	sess := e.sessions.Resolve(req.ChatID)
	history := sess.Turns()

	standalone := e.condense(ctx, history, req.Question)

	vectors, err := e.embedder.EmbedTexts(ctx, []string{standalone})
	if err != nil {
		return AskResponse{}, fmt.Errorf("%w: failed to embed question: %v", service.ErrRetrieval, err)
	}
	if len(vectors) != 1 {
		return AskResponse{}, fmt.Errorf("%w: expected 1 embedding, got %d", service.ErrRetrieval, len(vectors))
	}

	results, err := e.vectorStore.Search(ctx, e.collection, vectors[0], e.topK)
	if err != nil {
		return AskResponse{}, fmt.Errorf("%w: similarity search failed: %v", service.ErrRetrieval, err)
	}

	if len(results) == 0 {
		logger.InfoContext(ctx, "no relevant chunks found", "chat_id", sess.ID())
		return AskResponse{
			ChatID:  sess.ID(),
			Answer:  NoResultsAnswer,
			Sources: []Source{},
		}, nil
	}

	answer, err := e.generator.ChatWithMessages(ctx, buildMessages(history, results, req.Question))
	if err != nil {
		return AskResponse{}, fmt.Errorf("%w: %v", service.ErrGeneration, err)
	}
	answer = strings.TrimSpace(answer)

	sess.Append(req.Question, answer)

	sources := make([]Source, len(results))
	for i, res := range results {
		sources[i] = Source{
			Source: metaString(res.Meta, "source"),
			DocID:  metaString(res.Meta, "doc_id"),
			Chunk:  metaInt(res.Meta, "chunk"),
		}
	}

	logger.InfoContext(ctx, "question answered",
		"chat_id", sess.ID(), "sources", len(sources))

	return AskResponse{
		ChatID:  sess.ID(),
		Answer:  answer,
		Sources: sources,
	}, nil
}

// condense rewrites a follow-up question into a standalone one using the
// conversation history. A first question, or a failed rewrite, falls back to
// the question as asked.
func (e *engine) condense(ctx context.Context, history []session.Turn, question string) string {
	if len(history) == 0 {
		return question
	}

	messages := make([]llm.Message, 0, len(history)*2+2)
	messages = append(messages, llm.Message{Role: "system", Content: condensePrompt})
	for _, turn := range history {
		messages = append(messages,
			llm.Message{Role: "user", Content: turn.Question},
			llm.Message{Role: "assistant", Content: turn.Answer},
		)
	}
	messages = append(messages, llm.Message{Role: "user", Content: question})

	standalone, err := e.generator.ChatWithMessages(ctx, messages)
	if err != nil {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx,
			"question condensation failed, using question as asked", "error", err)
		return question
	}
	standalone = strings.TrimSpace(standalone)
	if standalone == "" {
		return question
	}
	return standalone
}

// buildMessages assembles the chat sent to the model: the retrieved chunks in
// relevance order inside the system prompt, then the conversation history,
// then the question as asked.
func buildMessages(history []session.Turn, results []vectorstore.SearchResult, question string) []llm.Message {
	var contextBlock strings.Builder
	for i, res := range results {
		if i > 0 {
			contextBlock.WriteString("\n\n")
		}
		contextBlock.WriteString(res.Text)
	}

	messages := make([]llm.Message, 0, len(history)*2+2)
	messages = append(messages, llm.Message{
		Role:    "system",
		Content: answerSystemPrompt + "\n\n" + contextBlock.String(),
	})
	for _, turn := range history {
		messages = append(messages,
			llm.Message{Role: "user", Content: turn.Question},
			llm.Message{Role: "assistant", Content: turn.Answer},
		)
	}
	messages = append(messages, llm.Message{Role: "user", Content: question})
	return messages
}

func metaString(meta map[string]any, key string) string {
	if meta == nil {
		return ""
	}
	if s, ok := meta[key].(string); ok {
		return s
	}
	return ""
}

// metaInt tolerates the integer widths different payload decoders produce.
func metaInt(meta map[string]any, key string) int {
	if meta == nil {
		return 0
	}
	switch v := meta[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}
