package typeset

import (
	"context"
	"fmt"
	"strings"
)

// Engine is the default typesetting engine: a markup compiler over the
// world's source plus a gofpdf-backed artifact encoder.
//
// The markup understands three constructs on top of plain paragraphs:
//
//   - {{path}} placeholders, resolved against the world's bound input
//     via dot paths ("customer.name");
//   - "#", "##", "###" heading lines;
//   - "- " list item lines.
//
// Compilation either yields a Document or a non-empty list of
// diagnostics whose spans point into the world's main file.
type Engine struct{}

// NewEngine creates the default engine.
func NewEngine() *Engine { return &Engine{} }

// Compile resolves placeholders and lays the source out into blocks.
// It runs to completion on the calling goroutine; the context is
// accepted for interface symmetry and checked only on entry.
func (e *Engine) Compile(ctx context.Context, w *World) (*Document, []Diagnostic) {
	if err := ctx.Err(); err != nil {
		return nil, []Diagnostic{{
			Message: fmt.Sprintf("compilation aborted: %v", err),
			Span:    Span{File: mainFile, Start: 0, End: 0},
		}}
	}

	text, diags := interpolate(w)
	if len(diags) > 0 {
		return nil, diags
	}
	return parseBlocks(text), nil
}

// interpolate substitutes {{path}} placeholders in the world's source.
// Diagnostic spans always refer to offsets in the original source, not
// the substituted text.
func interpolate(w *World) (string, []Diagnostic) {
	src := w.Source()

	var out strings.Builder
	var diags []Diagnostic

	pos := 0
	for {
		open := strings.Index(src[pos:], "{{")
		if open == -1 {
			out.WriteString(src[pos:])
			break
		}
		open += pos
		out.WriteString(src[pos:open])

		rest := src[open+2:]
		closing := strings.Index(rest, "}}")
		newline := strings.IndexByte(rest, '\n')

		if closing == -1 || (newline != -1 && newline < closing) {
			// Placeholder never closed on this line.
			end := len(src)
			if newline != -1 {
				end = open + 2 + newline
			}
			diags = append(diags, Diagnostic{
				Message: "unterminated placeholder",
				Span:    Span{File: mainFile, Start: open, End: end},
			})
			pos = end
			continue
		}

		end := open + 2 + closing + 2
		path := strings.TrimSpace(rest[:closing])
		span := Span{File: mainFile, Start: open, End: end}

		if path == "" {
			diags = append(diags, Diagnostic{Message: "empty placeholder", Span: span})
			pos = end
			continue
		}

		value, ok := w.Lookup(path)
		if !ok {
			diags = append(diags, Diagnostic{
				Message: fmt.Sprintf("unknown input %q", path),
				Span:    span,
			})
			pos = end
			continue
		}

		out.WriteString(value)
		pos = end
	}

	return out.String(), diags
}

// parseBlocks splits interpolated text into headings, list items and
// blank-line-separated paragraphs.
func parseBlocks(text string) *Document {
	doc := &Document{}
	var paragraph []string

	flush := func() {
		if len(paragraph) > 0 {
			doc.Blocks = append(doc.Blocks, Block{
				Kind: BlockParagraph,
				Text: strings.Join(paragraph, " "),
			})
			paragraph = nil
		}
	}

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			flush()
		case strings.HasPrefix(trimmed, "#"):
			flush()
			level := 0
			for level < len(trimmed) && trimmed[level] == '#' && level < 3 {
				level++
			}
			doc.Blocks = append(doc.Blocks, Block{
				Kind:  BlockHeading,
				Level: level,
				Text:  strings.TrimSpace(trimmed[level:]),
			})
		case strings.HasPrefix(trimmed, "- "):
			flush()
			doc.Blocks = append(doc.Blocks, Block{
				Kind: BlockListItem,
				Text: strings.TrimSpace(trimmed[2:]),
			})
		default:
			paragraph = append(paragraph, trimmed)
		}
	}
	flush()

	return doc
}
