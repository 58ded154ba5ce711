package service

import (
	"errors"
	"fmt"
)

var (
	// ErrRateLimited is returned when the admission gate rejects a request.
	ErrRateLimited = errors.New("rate limited")
	// ErrNotFound is returned when a requested resource is not found.
	ErrNotFound = errors.New("not found")
	// ErrExtraction is returned when the text extractor fails to produce text.
	ErrExtraction = errors.New("extraction error")
	// ErrIndexing is returned when the vector upsert fails after chunks were persisted.
	// Documents in this state are readable by direct chunk lookup but not via search.
	ErrIndexing = errors.New("indexing error")
	// ErrRetrieval is returned when the vector search is unavailable.
	ErrRetrieval = errors.New("retrieval error")
	// ErrGeneration is returned when the LLM call fails.
	ErrGeneration = errors.New("generation error")
)

// ValidationError represents a validation error with a field name.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field %s: %s", e.Field, e.Message)
}

// WrapError wraps an error with additional context.
func WrapError(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}
