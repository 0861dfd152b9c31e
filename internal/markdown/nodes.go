package markdown

import (
	"github.com/yuin/goldmark/ast"
)

// Aside is a callout converted from a dialect blockquote. Its children are
// the original blockquote content minus the "[!type] title" marker line.
type Aside struct {
	ast.BaseBlock

	// Variant is the mapped semantic type ("note", "tip", "caution", "danger").
	Variant string
	// Title is the optional callout title.
	Title string
}

var KindAside = ast.NewNodeKind("Aside")

func (n *Aside) Kind() ast.NodeKind { return KindAside }

func (n *Aside) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"Variant": n.Variant,
		"Title":   n.Title,
	}, nil)
}

// RawMarkup carries pre-rendered markup that replaces a node in place,
// e.g. an inlined diagram or a media embed element. An empty Markup is the
// silent placeholder for an unresolvable embed.
type RawMarkup struct {
	ast.BaseBlock

	Markup []byte
}

var KindRawMarkup = ast.NewNodeKind("RawMarkup")

func (n *RawMarkup) Kind() ast.NodeKind { return KindRawMarkup }

func (n *RawMarkup) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"Markup": string(n.Markup),
	}, nil)
}

// EmbeddedNote is another note's content inlined as a quoted block. The
// inner content is serialized eagerly because it refers to the embedded
// file's own source, not the current document's.
type EmbeddedNote struct {
	ast.BaseBlock

	// Title names the embedded note (its stem).
	Title string
	// Markdown is the embedded note's transformed content.
	Markdown []byte
}

var KindEmbeddedNote = ast.NewNodeKind("EmbeddedNote")

func (n *EmbeddedNote) Kind() ast.NodeKind { return KindEmbeddedNote }

func (n *EmbeddedNote) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"Title": n.Title,
	}, nil)
}
