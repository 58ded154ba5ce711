package extractor

import (
	"context"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"

	"docqa/internal/service"
)

// Markdown extracts plain text from markdown by walking the parsed AST,
// dropping formatting but keeping headings, code and table cells as text.
type Markdown struct {
	parser goldmark.Markdown
}

// NewMarkdown creates a markdown extractor.
func NewMarkdown() *Markdown {
	return &Markdown{
		parser: goldmark.New(
			goldmark.WithExtensions(extension.Table),
		),
	}
}

// Extract renders the document's text content with paragraph breaks preserved,
// so the splitter can still find paragraph boundaries.
func (e *Markdown) Extract(_ context.Context, data []byte, filename string) (string, error) {
	if len(data) == 0 {
		return "", nil
	}

	reader := text.NewReader(data)
	doc := e.parser.Parser().Parse(reader)

	var b strings.Builder
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Heading, *ast.Paragraph, *ast.ListItem:
			if b.Len() > 0 && !strings.HasSuffix(b.String(), "\n\n") {
				b.WriteString("\n\n")
			}
			return ast.WalkContinue, nil

		case *ast.Text:
			segment := node.Segment
			b.Write(segment.Value(data))
			if node.SoftLineBreak() || node.HardLineBreak() {
				b.WriteString("\n")
			}
			return ast.WalkContinue, nil

		case *ast.String:
			b.Write(node.Value)
			return ast.WalkContinue, nil

		case *ast.CodeBlock:
			writeCodeLines(&b, node.BaseBlock, data)
			return ast.WalkSkipChildren, nil

		case *ast.FencedCodeBlock:
			writeCodeLines(&b, node.BaseBlock, data)
			return ast.WalkSkipChildren, nil

		default:
			// Table rows become pipe-separated lines.
			kindName := n.Kind().String()
			if kindName == "TableRow" || kindName == "TableHeader" {
				if b.Len() > 0 && !strings.HasSuffix(b.String(), "\n") {
					b.WriteString("\n")
				}
				b.WriteString(tableRowText(n, data))
				b.WriteString("\n")
				return ast.WalkSkipChildren, nil
			}
			return ast.WalkContinue, nil
		}
	})
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", service.ErrExtraction, filename, err)
	}

	return strings.TrimSpace(b.String()), nil
}

// writeCodeLines appends the raw lines of a code block.
func writeCodeLines(b *strings.Builder, block ast.BaseBlock, data []byte) {
	if b.Len() > 0 && !strings.HasSuffix(b.String(), "\n\n") {
		b.WriteString("\n\n")
	}
	lines := block.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		b.Write(line.Value(data))
	}
}

// tableRowText extracts a table row's cells joined with pipe separators.
func tableRowText(row ast.Node, data []byte) string {
	var b strings.Builder
	cells := 0

	_ = ast.Walk(row, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if node.Kind().String() == "TableCell" {
			var cell strings.Builder
			_ = ast.Walk(node, func(inner ast.Node, entering bool) (ast.WalkStatus, error) {
				if !entering {
					return ast.WalkContinue, nil
				}
				switch v := inner.(type) {
				case *ast.Text:
					cell.Write(v.Segment.Value(data))
				case *ast.String:
					cell.Write(v.Value)
				}
				return ast.WalkContinue, nil
			})
			if cells > 0 {
				b.WriteString(" | ")
			}
			b.WriteString(strings.TrimSpace(cell.String()))
			cells++
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	return b.String()
}
