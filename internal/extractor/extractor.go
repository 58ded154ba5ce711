// Package extractor turns uploaded document bytes into plain text.
package extractor

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_extractor.go -package=mocks docqa/internal/extractor Extractor

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"docqa/internal/service"
)

// Extractor extracts plain text from raw document bytes.
type Extractor interface {
	// Extract returns the plain text of the document. It fails with an error
	// wrapping service.ErrExtraction when the format is unsupported or the
	// bytes are corrupt.
	Extract(ctx context.Context, data []byte, filename string) (string, error)
}

// Registry dispatches extraction by file extension.
type Registry struct {
	byExt map[string]Extractor
}

// NewRegistry creates a registry with the default extractors (.pdf, .md, .txt).
func NewRegistry() *Registry {
	md := NewMarkdown()
	return &Registry{
		byExt: map[string]Extractor{
			".pdf":      NewPDF(),
			".md":       md,
			".markdown": md,
			".txt":      NewPlaintext(),
		},
	}
}

// Supported reports whether the filename's extension has an extractor.
func (r *Registry) Supported(filename string) bool {
	_, ok := r.byExt[normalizeExt(filename)]
	return ok
}

// Extract dispatches to the extractor for the filename's extension.
func (r *Registry) Extract(ctx context.Context, data []byte, filename string) (string, error) {
	ext := normalizeExt(filename)
	e, ok := r.byExt[ext]
	if !ok {
		return "", fmt.Errorf("%w: unsupported format %q", service.ErrExtraction, ext)
	}
	return e.Extract(ctx, data, filename)
}

func normalizeExt(filename string) string {
	return strings.ToLower(filepath.Ext(filename))
}
