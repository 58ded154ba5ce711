package extractor

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"docqa/internal/service"
)

// Plaintext passes text files through unchanged apart from trimming.
type Plaintext struct{}

// NewPlaintext creates a plaintext extractor.
func NewPlaintext() *Plaintext {
	return &Plaintext{}
}

// Extract validates the bytes are UTF-8 and returns them as a string.
func (e *Plaintext) Extract(_ context.Context, data []byte, filename string) (string, error) {
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: %s is not valid utf-8", service.ErrExtraction, filename)
	}
	return strings.TrimSpace(string(data)), nil
}
