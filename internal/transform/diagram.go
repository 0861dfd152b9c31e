package transform

import (
	"bytes"
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/yuin/goldmark/ast"
	"golang.org/x/sync/errgroup"

	"vaultsite/internal/markdown"
)

const diagramLang = "mermaid"

// Renderer converts diagram source into inline markup. It is an external
// collaborator; rendering failures propagate to the document's caller.
type Renderer interface {
	Render(ctx context.Context, source []byte) ([]byte, error)
}

// InlineDiagrams is the second, independent tree pass: it collects every
// diagram code block, renders all of them concurrently and only then
// replaces each block with its rendered markup, so no tree index is
// invalidated mid-batch. With no renderer configured the pass is a no-op
// and diagram blocks stay fenced.
func InlineDiagrams(ctx context.Context, c *Context, doc ast.Node, source []byte, r Renderer) error {
	if r == nil {
		return nil
	}

	var blocks []*ast.FencedCodeBlock
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if cb, ok := n.(*ast.FencedCodeBlock); ok && string(cb.Language(source)) == diagramLang {
			blocks = append(blocks, cb)
		}
		return ast.WalkContinue, nil
	})
	if len(blocks) == 0 {
		return nil
	}

	rendered := make([][]byte, len(blocks))
	g, gctx := errgroup.WithContext(ctx)
	for i, cb := range blocks {
		g.Go(func() error {
			out, err := r.Render(gctx, codeBlockText(cb, source))
			if err != nil {
				return fmt.Errorf("render diagram %d of %s: %w", i+1, c.File.Path, err)
			}
			rendered[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, cb := range blocks {
		markup := []byte(`<div class="diagram" id="diagram-` + uuid.NewString() + `">` + string(rendered[i]) + `</div>`)
		node := &markdown.RawMarkup{Markup: markup}
		parent := cb.Parent()
		if parent != nil {
			parent.ReplaceChild(parent, cb, node)
		}
	}
	return nil
}

func codeBlockText(cb *ast.FencedCodeBlock, source []byte) []byte {
	var buf bytes.Buffer
	for i := 0; i < cb.Lines().Len(); i++ {
		seg := cb.Lines().At(i)
		buf.Write(seg.Value(source))
	}
	return buf.Bytes()
}
