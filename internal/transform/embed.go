package transform

import (
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/yuin/goldmark/ast"

	"vaultsite/internal/markdown"
	"vaultsite/internal/vault"
)

// resolveEmbed inlines another note at an image-position target. The target
// is resolved to an exact vault path using the same relative/absolute logic
// as link resolution; a miss produces an empty placeholder rather than an
// error. A match is read, run through the parse-and-resolve pipeline with
// the embedded file's own directory context and wrapped in a quoted block
// titled with the embedded note's name.
//
// A visited-path set carried through the recursion turns a mutual-embed
// cycle into an explicit error instead of unbounded recursion.
func resolveEmbed(c *Context, rawPath string) (ast.Node, error) {
	target := strings.TrimSpace(rawPath)

	var full string
	if c.Vault.Options.LinkFormat == vault.LinkFormatRelative {
		full = joinFromDir(c.File.Dir(), target)
	} else {
		full = path.Clean(strings.TrimPrefix(strings.ReplaceAll(target, "\\", "/"), "/"))
	}
	if c.Vault.Options.LinkSyntax == vault.LinkSyntaxWikilink {
		full = vault.EnsureMDExt(full)
	}

	f := c.Vault.FindByPath(full)
	if f == nil {
		// Deliberately silent: an unresolvable embed renders as nothing.
		return &markdown.RawMarkup{}, nil
	}

	if c.visited == nil {
		c.visited = map[string]bool{}
	}
	c.visited[c.File.Path] = true
	if c.visited[f.Path] {
		return nil, fmt.Errorf("%w: %s embeds %s", ErrCyclicEmbed, c.File.Path, f.Path)
	}
	c.visited[f.Path] = true
	defer delete(c.visited, f.Path)

	data, err := os.ReadFile(f.FSPath)
	if err != nil {
		return nil, fmt.Errorf("read embed %s: %w", f.Path, err)
	}

	sub := c.forFile(f)
	_, body := SplitFrontmatter(data)
	body = RewriteInlines(sub, body)
	doc := parseMarkdown(body)
	if err := transformTree(sub, doc, body); err != nil {
		return nil, err
	}
	inner, err := markdown.Render(body, doc)
	if err != nil {
		return nil, fmt.Errorf("serialize embed %s: %w", f.Path, err)
	}

	c.IncludeKatexStyles = c.IncludeKatexStyles || sub.IncludeKatexStyles
	c.Assets = append(c.Assets, sub.Assets...)

	return &markdown.EmbeddedNote{Title: f.Stem, Markdown: inner}, nil
}
