// Package render turns a transformed document into a standalone HTML page
// for hosts that want finished pages rather than markdown.
package render

import (
	"bytes"
	"fmt"
	"html"
	"sort"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"

	"vaultsite/internal/markdown"
	"vaultsite/internal/transform"
)

const chromaStyle = "github"

// embeddedMD converts the pre-serialized content of embedded notes. Safe
// for concurrent use, as in the rest of the pipeline.
var embeddedMD = goldmark.New(goldmark.WithRendererOptions(goldmarkhtml.WithUnsafe()))

// Page renders a transformed document as a complete HTML page: title and
// head entries from the synthesized frontmatter, the body from the
// rewritten tree with syntax-highlighted code blocks.
func Page(res *transform.Result) ([]byte, error) {
	body, err := Body(res)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteString("<!doctype html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&buf, "<title>%s</title>\n", html.EscapeString(res.Frontmatter.Title))
	for _, entry := range res.Frontmatter.Head {
		writeHeadEntry(&buf, entry)
	}
	buf.WriteString("</head>\n<body>\n")
	buf.Write(body)
	buf.WriteString("</body>\n</html>\n")
	return buf.Bytes(), nil
}

// Body renders only the document content, without the page shell.
func Body(res *transform.Result) ([]byte, error) {
	r := renderer.NewRenderer(
		renderer.WithNodeRenderers(
			util.Prioritized(&nodeRenderer{}, 100),
			util.Prioritized(goldmarkhtml.NewRenderer(goldmarkhtml.WithUnsafe()), 1000),
		),
	)
	var buf bytes.Buffer
	if err := r.Render(&buf, res.Source, res.Doc); err != nil {
		return nil, fmt.Errorf("render html: %w", err)
	}
	return buf.Bytes(), nil
}

func writeHeadEntry(buf *bytes.Buffer, entry transform.HeadEntry) {
	buf.WriteString("<" + entry.Tag)
	keys := make([]string, 0, len(entry.Attrs))
	for k := range entry.Attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(buf, " %s=%q", k, html.EscapeString(entry.Attrs[k]))
	}
	buf.WriteString(">\n")
}

// nodeRenderer renders the pipeline's custom nodes and overrides fenced
// code blocks with chroma highlighting. Its lower priority makes its
// handlers win over the base HTML renderer for the overridden kinds.
type nodeRenderer struct{}

func (r *nodeRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(markdown.KindAside, r.renderAside)
	reg.Register(markdown.KindRawMarkup, r.renderRawMarkup)
	reg.Register(markdown.KindEmbeddedNote, r.renderEmbeddedNote)
	reg.Register(ast.KindFencedCodeBlock, r.renderFencedCode)
}

func (r *nodeRenderer) renderAside(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*markdown.Aside)
	if entering {
		_, _ = w.WriteString(`<aside class="aside aside--` + n.Variant + `">`)
		if n.Title != "" {
			_, _ = w.WriteString(`<p class="aside__title">` + html.EscapeString(n.Title) + `</p>`)
		}
		return ast.WalkContinue, nil
	}
	_, _ = w.WriteString("</aside>\n")
	return ast.WalkContinue, nil
}

func (r *nodeRenderer) renderRawMarkup(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*markdown.RawMarkup)
	if len(n.Markup) > 0 {
		_, _ = w.Write(n.Markup)
		_ = w.WriteByte('\n')
	}
	return ast.WalkSkipChildren, nil
}

func (r *nodeRenderer) renderEmbeddedNote(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*markdown.EmbeddedNote)
	_, _ = w.WriteString(`<blockquote class="embed"><p><strong>` + html.EscapeString(n.Title) + `</strong></p>` + "\n")
	var inner bytes.Buffer
	if err := embeddedMD.Convert(n.Markdown, &inner); err != nil {
		return ast.WalkStop, err
	}
	_, _ = w.Write(inner.Bytes())
	_, _ = w.WriteString("</blockquote>\n")
	return ast.WalkSkipChildren, nil
}

func (r *nodeRenderer) renderFencedCode(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*ast.FencedCodeBlock)
	var code bytes.Buffer
	for i := 0; i < n.Lines().Len(); i++ {
		seg := n.Lines().At(i)
		code.Write(seg.Value(source))
	}
	if err := highlight(w, string(n.Language(source)), code.String()); err != nil {
		return ast.WalkStop, err
	}
	return ast.WalkSkipChildren, nil
}

func highlight(w util.BufWriter, lang, code string) error {
	lexer := lexers.Get(lang)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)
	style := styles.Get(chromaStyle)
	if style == nil {
		style = styles.Fallback
	}
	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return err
	}
	return chromahtml.New(chromahtml.WithClasses(false)).Format(w, style, iterator)
}
