package render

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"vaultsite/internal/transform"
	"vaultsite/internal/vault"
)

func transformFixture(t *testing.T, files map[string]string, p string) *transform.Result {
	t.Helper()
	root := t.TempDir()
	for fp, content := range files {
		full := filepath.Join(root, filepath.FromSlash(fp))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", fp, err)
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", fp, err)
		}
	}
	v, err := vault.Index(root, vault.Options{
		Root:         root,
		LinkFormat:   vault.LinkFormatShortest,
		LinkSyntax:   vault.LinkSyntaxWikilink,
		OutputPrefix: "/notes",
	})
	if err != nil {
		t.Fatalf("Index: %v", err)
	}
	f := v.FindByPath(p)
	if f == nil {
		t.Fatalf("%s not indexed", p)
	}
	res, err := transform.Note(context.Background(), []byte(files[p]), transform.NewContext(v, f, "/notes"), nil)
	if err != nil {
		t.Fatalf("Note: %v", err)
	}
	return res
}

func TestPage(t *testing.T) {
	files := map[string]string{
		"root 1.md": "# Title & More\n\nA [[root 2]] link with $x+1$ math.\n",
		"root 2.md": "other\n",
	}
	res := transformFixture(t, files, "root 1.md")

	out, err := Page(res)
	if err != nil {
		t.Fatalf("Page: %v", err)
	}
	got := string(out)

	for _, want := range []string{
		"<!doctype html>",
		"<title>root 1</title>",
		`<link href="` + transform.KatexStylesheetURL + `" rel="stylesheet">`,
		`<a href="/notes/root-2">root 2</a>`,
		"<h1>Title &amp; More</h1>",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("page missing %q:\n%s", want, got)
		}
	}
}

func TestBodyRendersCustomNodes(t *testing.T) {
	files := map[string]string{
		"root 1.md": "> [!warning] Careful\n> Inside.\n\n![[root 2]]\n",
		"root 2.md": "embedded *content*\n",
	}
	res := transformFixture(t, files, "root 1.md")

	out, err := Body(res)
	if err != nil {
		t.Fatalf("Body: %v", err)
	}
	got := string(out)

	for _, want := range []string{
		`<aside class="aside aside--caution">`,
		`<p class="aside__title">Careful</p>`,
		`<blockquote class="embed"><p><strong>root 2</strong></p>`,
		"<em>content</em>",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("body missing %q:\n%s", want, got)
		}
	}
}

func TestBodyHighlightsCode(t *testing.T) {
	files := map[string]string{
		"root 1.md": "```go\npackage main\n```\n",
	}
	res := transformFixture(t, files, "root 1.md")

	out, err := Body(res)
	if err != nil {
		t.Fatalf("Body: %v", err)
	}
	got := string(out)

	if !strings.Contains(got, "<pre") || !strings.Contains(got, "style=") {
		t.Errorf("code block not highlighted inline:\n%s", got)
	}
	if strings.Contains(got, "<code class=\"language-go\">") {
		t.Errorf("base renderer handled the code block:\n%s", got)
	}
}
