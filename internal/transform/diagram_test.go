package transform

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"vaultsite/internal/vault"
)

type renderFunc func(ctx context.Context, source []byte) ([]byte, error)

func (f renderFunc) Render(ctx context.Context, source []byte) ([]byte, error) {
	return f(ctx, source)
}

func TestInlineDiagrams(t *testing.T) {
	v := newTestVault(t, fixtureFiles, vault.LinkFormatShortest, vault.LinkSyntaxWikilink)
	f := mustFile(t, v, "root 1.md")

	body := "```mermaid\ngraph TD\n```\n\ntext\n\n```mermaid\nsequenceDiagram\n```\n"

	var calls atomic.Int32
	r := renderFunc(func(_ context.Context, source []byte) ([]byte, error) {
		calls.Add(1)
		return []byte("<svg>" + strings.TrimSpace(string(source)) + "</svg>"), nil
	})

	res, err := Note(context.Background(), []byte(body), NewContext(v, f, "/notes"), r)
	if err != nil {
		t.Fatalf("Note: %v", err)
	}
	out, err := res.Markdown()
	if err != nil {
		t.Fatalf("Markdown: %v", err)
	}
	got := string(out)

	if n := calls.Load(); n != 2 {
		t.Errorf("renderer called %d times, want 2", n)
	}
	if strings.Contains(got, "```mermaid") {
		t.Errorf("diagram fence survived:\n%s", got)
	}
	for _, want := range []string{"<svg>graph TD</svg>", "<svg>sequenceDiagram</svg>", `<div class="diagram" id="diagram-`} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestInlineDiagramsRendererError(t *testing.T) {
	v := newTestVault(t, fixtureFiles, vault.LinkFormatShortest, vault.LinkSyntaxWikilink)
	f := mustFile(t, v, "root 1.md")

	errBoom := errors.New("boom")
	r := renderFunc(func(_ context.Context, _ []byte) ([]byte, error) {
		return nil, errBoom
	})

	_, err := Note(context.Background(), []byte("```mermaid\ngraph TD\n```\n"), NewContext(v, f, "/notes"), r)
	if !errors.Is(err, errBoom) {
		t.Fatalf("Note = %v, want wrapped renderer error", err)
	}
	if !strings.Contains(err.Error(), "root 1.md") {
		t.Errorf("error does not name the document: %v", err)
	}
}

func TestInlineDiagramsWithoutRenderer(t *testing.T) {
	v := newTestVault(t, fixtureFiles, vault.LinkFormatShortest, vault.LinkSyntaxWikilink)

	_, out := transformNote(t, v, "root 1.md", "```mermaid\ngraph TD\n```\n")
	if !strings.Contains(string(out), "```mermaid\ngraph TD\n```") {
		t.Errorf("diagram fence not preserved without renderer:\n%s", out)
	}

	// Other fenced languages never reach the renderer.
	r := renderFunc(func(_ context.Context, _ []byte) ([]byte, error) {
		t.Error("renderer called for a non-diagram block")
		return nil, nil
	})
	f := mustFile(t, v, "root 1.md")
	if _, err := Note(context.Background(), []byte("```go\nx := 1\n```\n"), NewContext(v, f, "/notes"), r); err != nil {
		t.Fatalf("Note: %v", err)
	}
}
