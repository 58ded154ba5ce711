package extractor

import (
	"context"
	"errors"
	"strings"
	"testing"

	"docqa/internal/service"
)

func TestRegistry_Supported(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		filename string
		want     bool
	}{
		{"report.pdf", true},
		{"Report.PDF", true},
		{"notes.md", true},
		{"notes.markdown", true},
		{"readme.txt", true},
		{"image.png", false},
		{"archive.tar.gz", false},
		{"noextension", false},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			if got := r.Supported(tt.filename); got != tt.want {
				t.Errorf("Supported(%q) = %v, want %v", tt.filename, got, tt.want)
			}
		})
	}
}

func TestRegistry_Extract_UnsupportedFormat(t *testing.T) {
	r := NewRegistry()
	_, err := r.Extract(context.Background(), []byte("data"), "image.png")
	if !errors.Is(err, service.ErrExtraction) {
		t.Errorf("Extract() error = %v, want ErrExtraction", err)
	}
}

func TestPlaintext_Extract(t *testing.T) {
	e := NewPlaintext()

	got, err := e.Extract(context.Background(), []byte("  hello world \n"), "a.txt")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if got != "hello world" {
		t.Errorf("Extract() = %q, want %q", got, "hello world")
	}

	_, err = e.Extract(context.Background(), []byte{0xff, 0xfe, 0xfd}, "a.txt")
	if !errors.Is(err, service.ErrExtraction) {
		t.Errorf("Extract() on invalid utf-8 error = %v, want ErrExtraction", err)
	}
}

func TestMarkdown_Extract(t *testing.T) {
	e := NewMarkdown()

	tests := []struct {
		name    string
		input   string
		contain []string
		exclude []string
	}{
		{
			name:    "empty input",
			input:   "",
			contain: nil,
		},
		{
			name:    "headings and paragraphs",
			input:   "# Title\n\nFirst paragraph.\n\nSecond paragraph.",
			contain: []string{"Title", "First paragraph.", "Second paragraph."},
			exclude: []string{"#"},
		},
		{
			name:    "code block kept as text",
			input:   "Intro\n\n```\nx := 1\n```\n",
			contain: []string{"Intro", "x := 1"},
			exclude: []string{"```"},
		},
		{
			name:    "table rows joined with pipes",
			input:   "| Name | Age |\n| --- | --- |\n| Ada | 36 |\n",
			contain: []string{"Name | Age", "Ada | 36"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.Extract(context.Background(), []byte(tt.input), "doc.md")
			if err != nil {
				t.Fatalf("Extract() error = %v", err)
			}
			for _, want := range tt.contain {
				if !strings.Contains(got, want) {
					t.Errorf("Extract() = %q, missing %q", got, want)
				}
			}
			for _, not := range tt.exclude {
				if strings.Contains(got, not) {
					t.Errorf("Extract() = %q, should not contain %q", got, not)
				}
			}
		})
	}
}

func TestMarkdown_Extract_ParagraphBreaksPreserved(t *testing.T) {
	e := NewMarkdown()
	got, err := e.Extract(context.Background(), []byte("One.\n\nTwo.\n\nThree."), "doc.md")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if got != "One.\n\nTwo.\n\nThree." {
		t.Errorf("Extract() = %q, want paragraph breaks preserved", got)
	}
}

func TestPDF_Extract_Corrupt(t *testing.T) {
	e := NewPDF()
	_, err := e.Extract(context.Background(), []byte("not a pdf"), "broken.pdf")
	if !errors.Is(err, service.ErrExtraction) {
		t.Errorf("Extract() error = %v, want ErrExtraction", err)
	}
}
