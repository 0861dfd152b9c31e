// Package markdown serializes a (possibly transformed) goldmark tree back
// into markdown text, including the custom nodes the transformation
// pipeline produces: asides, raw markup fragments and embedded notes.
package markdown

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yuin/goldmark/ast"
)

// Render serializes n against the source its segments refer to.
func Render(source []byte, n ast.Node) ([]byte, error) {
	w := &writer{source: source}
	out, err := w.blocks(n)
	if err != nil {
		return nil, err
	}
	return []byte(out), nil
}

type writer struct {
	source []byte
}

// blocks renders the children of parent, separated by blank lines. Empty
// fragments (silent embed placeholders) vanish entirely.
func (w *writer) blocks(parent ast.Node) (string, error) {
	var parts []string
	for c := parent.FirstChild(); c != nil; c = c.NextSibling() {
		part, err := w.block(c)
		if err != nil {
			return "", err
		}
		if part == "" {
			continue
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, "\n"), nil
}

func (w *writer) block(n ast.Node) (string, error) {
	switch node := n.(type) {
	case *ast.Heading:
		inline, err := w.inlines(node)
		if err != nil {
			return "", err
		}
		return strings.Repeat("#", node.Level) + " " + inline + "\n", nil

	case *ast.Paragraph, *ast.TextBlock:
		inline, err := w.inlines(n)
		if err != nil {
			return "", err
		}
		inline = strings.Trim(inline, "\n")
		if inline == "" {
			return "", nil
		}
		return inline + "\n", nil

	case *ast.Blockquote:
		inner, err := w.blocks(node)
		if err != nil {
			return "", err
		}
		return quoteLines(inner), nil

	case *ast.FencedCodeBlock:
		var b strings.Builder
		b.WriteString("```")
		if node.Info != nil {
			b.Write(node.Info.Segment.Value(w.source))
		}
		b.WriteByte('\n')
		writeLines(&b, w.source, node)
		b.WriteString("```\n")
		return b.String(), nil

	case *ast.CodeBlock:
		var b strings.Builder
		for i := 0; i < node.Lines().Len(); i++ {
			seg := node.Lines().At(i)
			b.WriteString("    ")
			b.Write(seg.Value(w.source))
		}
		return b.String(), nil

	case *ast.List:
		return w.list(node)

	case *ast.ThematicBreak:
		return "---\n", nil

	case *ast.HTMLBlock:
		var b strings.Builder
		writeLines(&b, w.source, node)
		if node.HasClosure() {
			b.Write(node.ClosureLine.Value(w.source))
		}
		return b.String(), nil

	case *Aside:
		inner, err := w.blocks(node)
		if err != nil {
			return "", err
		}
		open := ":::" + node.Variant
		if node.Title != "" {
			open += "[" + node.Title + "]"
		}
		return open + "\n" + inner + ":::\n", nil

	case *RawMarkup:
		if len(node.Markup) == 0 {
			return "", nil
		}
		return string(node.Markup) + "\n", nil

	case *EmbeddedNote:
		quoted := quoteLines("**" + node.Title + "**\n\n" + strings.TrimRight(string(node.Markdown), "\n") + "\n")
		return quoted, nil

	default:
		// Inline node at block position (an image replaced mid-paragraph
		// never reaches here; paragraphs render their own inlines).
		return "", fmt.Errorf("markdown: unsupported block node %s", n.Kind())
	}
}

func (w *writer) list(list *ast.List) (string, error) {
	ordered := list.IsOrdered()
	num := list.Start
	if num == 0 {
		num = 1
	}

	var items []string
	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		inner, err := w.listItem(item, list.IsTight)
		if err != nil {
			return "", err
		}
		var marker string
		if ordered {
			marker = strconv.Itoa(num) + string(list.Marker) + " "
			num++
		} else {
			marker = string(list.Marker) + " "
		}
		items = append(items, indentAfterMarker(marker, inner))
	}

	sep := ""
	if !list.IsTight {
		sep = "\n"
	}
	return strings.Join(items, sep), nil
}

func (w *writer) listItem(item ast.Node, tight bool) (string, error) {
	var parts []string
	for c := item.FirstChild(); c != nil; c = c.NextSibling() {
		part, err := w.block(c)
		if err != nil {
			return "", err
		}
		if part == "" {
			continue
		}
		parts = append(parts, part)
	}
	sep := "\n"
	if tight {
		sep = ""
	}
	return strings.Join(parts, sep), nil
}

func (w *writer) inlines(parent ast.Node) (string, error) {
	var b strings.Builder
	for c := parent.FirstChild(); c != nil; c = c.NextSibling() {
		if err := w.inline(&b, c); err != nil {
			return "", err
		}
	}
	return b.String(), nil
}

func (w *writer) inline(b *strings.Builder, n ast.Node) error {
	switch node := n.(type) {
	case *ast.Text:
		b.Write(node.Segment.Value(w.source))
		if node.HardLineBreak() {
			b.WriteString("\\\n")
		} else if node.SoftLineBreak() {
			b.WriteByte('\n')
		}

	case *ast.String:
		b.Write(node.Value)

	case *ast.CodeSpan:
		b.WriteByte('`')
		for c := node.FirstChild(); c != nil; c = c.NextSibling() {
			if t, ok := c.(*ast.Text); ok {
				b.Write(t.Segment.Value(w.source))
			}
		}
		b.WriteByte('`')

	case *ast.Emphasis:
		delim := strings.Repeat("*", node.Level)
		b.WriteString(delim)
		for c := node.FirstChild(); c != nil; c = c.NextSibling() {
			if err := w.inline(b, c); err != nil {
				return err
			}
		}
		b.WriteString(delim)

	case *ast.Link:
		b.WriteByte('[')
		for c := node.FirstChild(); c != nil; c = c.NextSibling() {
			if err := w.inline(b, c); err != nil {
				return err
			}
		}
		b.WriteString("](")
		b.Write(node.Destination)
		if len(node.Title) > 0 {
			b.WriteString(` "`)
			b.Write(node.Title)
			b.WriteByte('"')
		}
		b.WriteByte(')')

	case *ast.Image:
		b.WriteString("![")
		for c := node.FirstChild(); c != nil; c = c.NextSibling() {
			if err := w.inline(b, c); err != nil {
				return err
			}
		}
		b.WriteString("](")
		b.Write(node.Destination)
		b.WriteByte(')')

	case *ast.AutoLink:
		b.WriteByte('<')
		b.Write(node.URL(w.source))
		b.WriteByte('>')

	case *ast.RawHTML:
		for i := 0; i < node.Segments.Len(); i++ {
			seg := node.Segments.At(i)
			b.Write(seg.Value(w.source))
		}

	case *RawMarkup:
		b.Write(node.Markup)

	case *EmbeddedNote, *Aside:
		// Block replacement spliced into inline position: emit on its
		// own lines so the surrounding paragraph stays valid.
		part, err := w.block(n)
		if err != nil {
			return err
		}
		b.WriteString("\n" + strings.TrimRight(part, "\n") + "\n")

	default:
		return fmt.Errorf("markdown: unsupported inline node %s", n.Kind())
	}
	return nil
}

func writeLines(b *strings.Builder, source []byte, n ast.Node) {
	for i := 0; i < n.Lines().Len(); i++ {
		seg := n.Lines().At(i)
		b.Write(seg.Value(source))
	}
}

// quoteLines prefixes every line of s with "> " (bare ">" on blank lines),
// producing a quoted block ending in a newline.
func quoteLines(s string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	var b strings.Builder
	for _, line := range lines {
		if line == "" {
			b.WriteString(">\n")
			continue
		}
		b.WriteString("> " + line + "\n")
	}
	return b.String()
}

// indentAfterMarker joins a list marker with the item body, indenting the
// body's continuation lines to align under the marker.
func indentAfterMarker(marker, body string) string {
	indent := strings.Repeat(" ", len(marker))
	lines := strings.Split(strings.TrimRight(body, "\n"), "\n")
	var b strings.Builder
	for i, line := range lines {
		switch {
		case i == 0:
			b.WriteString(marker + line + "\n")
		case line == "":
			b.WriteByte('\n')
		default:
			b.WriteString(indent + line + "\n")
		}
	}
	return b.String()
}
