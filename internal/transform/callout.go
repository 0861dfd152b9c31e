package transform

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/yuin/goldmark/ast"

	"vaultsite/internal/markdown"
)

// calloutRe matches the first line of a dialect callout blockquote:
// "[!TYPE] optional title", with an optional fold marker after the type.
var calloutRe = regexp.MustCompile(`(?i)^\[!([a-z0-9-]+)\][-+]?[ \t]*(.*)$`)

// calloutVariants maps dialect callout types to the documentation system's
// aside types. Unrecognized types fall back to defaultVariant.
var calloutVariants = map[string]string{
	"note":      "note",
	"abstract":  "note",
	"summary":   "note",
	"tldr":      "note",
	"info":      "note",
	"todo":      "note",
	"quote":     "note",
	"cite":      "note",
	"tip":       "tip",
	"hint":      "tip",
	"important": "tip",
	"success":   "tip",
	"check":     "tip",
	"done":      "tip",
	"example":   "tip",
	"question":  "caution",
	"help":      "caution",
	"faq":       "caution",
	"warning":   "caution",
	"caution":   "caution",
	"attention": "caution",
	"failure":   "danger",
	"fail":      "danger",
	"missing":   "danger",
	"danger":    "danger",
	"error":     "danger",
	"bug":       "danger",
}

const defaultVariant = "note"

// asideFromBlockquote inspects a blockquote for callout syntax. On a match
// it returns the replacement aside carrying the mapped variant, the title
// and the blockquote's remaining content; otherwise nil and the blockquote
// stays a plain quote.
func asideFromBlockquote(bq *ast.Blockquote, source []byte) *markdown.Aside {
	para, ok := bq.FirstChild().(*ast.Paragraph)
	if !ok || para.Lines().Len() == 0 {
		return nil
	}
	firstLine := para.Lines().At(0)
	m := calloutRe.FindSubmatch(bytes.TrimSpace(firstLine.Value(source)))
	if m == nil {
		return nil
	}

	variant, ok := calloutVariants[strings.ToLower(string(m[1]))]
	if !ok {
		variant = defaultVariant
	}
	aside := &markdown.Aside{
		Variant: variant,
		Title:   strings.TrimSpace(string(m[2])),
	}

	dropMarkerLine(para, firstLine.Stop)
	for child := bq.FirstChild(); child != nil; {
		next := child.NextSibling()
		bq.RemoveChild(bq, child)
		if child == ast.Node(para) && para.ChildCount() == 0 && para.Lines().Len() <= 1 {
			child = next
			continue
		}
		aside.AppendChild(aside, child)
		child = next
	}
	return aside
}

// dropMarkerLine removes the inline nodes of the paragraph that belong to
// the marker line, i.e. everything whose source segment ends at or before
// the first line's stop offset. A marker title may carry markup, so
// container inlines (emphasis, links) are measured by their deepest text.
func dropMarkerLine(para *ast.Paragraph, stop int) {
	for child := para.FirstChild(); child != nil; {
		next := child.NextSibling()
		if inlineEnd(child) > stop {
			return
		}
		para.RemoveChild(para, child)
		child = next
	}
}

// inlineEnd returns the source offset where the inline node's content ends.
func inlineEnd(n ast.Node) int {
	switch node := n.(type) {
	case *ast.Text:
		return node.Segment.Stop
	case *ast.RawHTML:
		if node.Segments.Len() == 0 {
			return 0
		}
		seg := node.Segments.At(node.Segments.Len() - 1)
		return seg.Stop
	}
	end := 0
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if e := inlineEnd(c); e > end {
			end = e
		}
	}
	return end
}
