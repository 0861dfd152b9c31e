package transform

import (
	"bytes"
	"context"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"vaultsite/internal/markdown"
)

// md is shared by every document; goldmark parsers are safe for concurrent
// use, each Parse call carries its own state.
var md = goldmark.New()

func parseMarkdown(source []byte) ast.Node {
	return md.Parser().Parse(text.NewReader(source))
}

// Result is a transformed document: the rewritten tree, the body source its
// segments refer to, the synthesized metadata header and the side outputs
// of the run.
type Result struct {
	Doc         ast.Node
	Source      []byte
	Frontmatter *Frontmatter

	// IncludeKatexStyles reports whether math content was present.
	IncludeKatexStyles bool
	// Assets lists every resolved asset URL, for the external staging step.
	Assets []string
}

// Note runs the full pipeline on one document: inline rewrites, structural
// tree pass, concurrent diagram inlining, frontmatter synthesis. The passes
// are strictly sequential because later ones depend on context flags set by
// earlier ones; only diagram rendering fans out within a document.
func Note(ctx context.Context, src []byte, c *Context, r Renderer) (*Result, error) {
	if err := c.validate(); err != nil {
		return nil, err
	}

	meta, body := SplitFrontmatter(src)
	body = RewriteInlines(c, body)
	doc := parseMarkdown(body)

	if err := transformTree(c, doc, body); err != nil {
		return nil, err
	}
	if err := InlineDiagrams(ctx, c, doc, body, r); err != nil {
		return nil, err
	}
	fm, err := SynthesizeFrontmatter(c, meta)
	if err != nil {
		return nil, err
	}

	return &Result{
		Doc:                doc,
		Source:             body,
		Frontmatter:        fm,
		IncludeKatexStyles: c.IncludeKatexStyles,
		Assets:             c.Assets,
	}, nil
}

// Markdown serializes the result as a complete document: metadata header
// followed by the rewritten body.
func (r *Result) Markdown() ([]byte, error) {
	header, err := r.Frontmatter.Encode()
	if err != nil {
		return nil, err
	}
	body, err := markdown.Render(r.Source, r.Doc)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	buf.Write(header)
	buf.WriteByte('\n')
	buf.Write(body)
	return buf.Bytes(), nil
}
