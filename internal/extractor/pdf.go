package extractor

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"

	"docqa/internal/service"
)

// PDF extracts plain text from PDF bytes.
type PDF struct{}

// NewPDF creates a PDF extractor.
func NewPDF() *PDF {
	return &PDF{}
}

// Extract pulls the text content out of every page, in page order.
func (e *PDF) Extract(_ context.Context, data []byte, filename string) (text string, err error) {
	// The pdf package panics on some malformed inputs; treat those as
	// extraction failures like any other.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("%w: malformed pdf %s: %v", service.ErrExtraction, filename, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", service.ErrExtraction, filename, err)
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", service.ErrExtraction, filename, err)
	}

	var b strings.Builder
	if _, err := io.Copy(&b, plain); err != nil {
		return "", fmt.Errorf("%w: %s: %v", service.ErrExtraction, filename, err)
	}
	return b.String(), nil
}
