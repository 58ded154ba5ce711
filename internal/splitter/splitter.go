// Package splitter provides a fixed-size text splitter with overlap, used by
// the ingestion pipeline to produce retrieval-sized chunks.
package splitter

import (
	"fmt"
	"strings"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 400

// DefaultOverlap is the default number of overlapping characters.
const DefaultOverlap = 50

// Splitter splits extracted text into overlapping chunks, preferring to break
// at paragraph, then sentence, then word boundaries before falling back to a
// hard character cut.
type Splitter struct {
	chunkSize int
	overlap   int
}

// Option configures the splitter.
type Option func(*Splitter)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(s *Splitter) {
		if size > 0 {
			s.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(s *Splitter) {
		if overlap >= 0 {
			s.overlap = overlap
		}
	}
}

// New creates a splitter with the given options. It returns an error when the
// overlap is not smaller than the chunk size, since the splitter would not
// progress.
func New(opts ...Option) (*Splitter, error) {
	s := &Splitter{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultOverlap,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.overlap >= s.chunkSize {
		return nil, fmt.Errorf("overlap %d must be smaller than chunk size %d", s.overlap, s.chunkSize)
	}
	return s, nil
}

// Split splits text into overlapping chunks. Empty or whitespace-only text
// produces no chunks.
func (s *Splitter) Split(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	runes := []rune(text)
	if len(runes) <= s.chunkSize {
		return []string{text}
	}

	estimated := len(runes)/(s.chunkSize-s.overlap) + 1
	chunks := make([]string, 0, estimated)

	start := 0
	for start < len(runes) {
		end := start + s.chunkSize
		if end >= len(runes) {
			chunks = append(chunks, string(runes[start:]))
			break
		}

		cut := s.boundary(runes[start:end])
		chunks = append(chunks, string(runes[start:start+cut]))

		next := start + cut - s.overlap
		if next <= start {
			// Boundary landed inside the overlap; force progress.
			next = start + 1
		}
		start = next
	}

	return chunks
}

// boundary returns the cut position within a full-size window, preferring a
// paragraph break, then a sentence end, then a word break. The hard cut at the
// window end is the fallback. Cuts inside the leading overlap are ignored so
// consecutive chunks keep moving forward.
func (s *Splitter) boundary(window []rune) int {
	text := string(window)
	min := s.overlap + 1

	for _, sep := range []string{"\n\n", ". ", "\n", " "} {
		if idx := strings.LastIndex(text, sep); idx != -1 {
			cut := len([]rune(text[:idx])) + len([]rune(sep))
			if cut >= min {
				return cut
			}
		}
	}
	return len(window)
}
