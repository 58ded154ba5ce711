package rag

// AskRequest is one question against the ingested corpus, optionally
// continuing an existing conversation.
type AskRequest struct {
	Question string
	ChatID   string
}

// Source attributes part of an answer to a chunk of an ingested document.
type Source struct {
	Source string `json:"source"`
	DocID  string `json:"doc_id"`
	Chunk  int    `json:"chunk"`
}

// AskResponse carries the answer, its sources in relevance order, and the
// chat id the caller should reuse to continue the conversation.
type AskResponse struct {
	ChatID  string   `json:"chat_id"`
	Answer  string   `json:"answer"`
	Sources []Source `json:"sources"`
}
