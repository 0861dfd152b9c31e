package transform

import (
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/yuin/goldmark/ast"

	"vaultsite/internal/markdown"
	"vaultsite/internal/vault"
)

var mathInlineRe = regexp.MustCompile(`\$[^$\s][^$\n]*\$`)

const mathLang = "math"

type replacement struct {
	old ast.Node
	new ast.Node
}

// transformTree is the structural pass: a single walk over the parsed tree
// dispatching per node type to the link resolver, the image/asset resolver,
// the callout transformer and the math-flag setter. Replacements are
// collected during the walk and applied afterwards so sibling iteration is
// never invalidated mid-traversal.
func transformTree(c *Context, doc ast.Node, source []byte) error {
	if err := c.validate(); err != nil {
		return err
	}

	var reps []replacement
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.FencedCodeBlock:
			if string(node.Language(source)) == mathLang {
				c.IncludeKatexStyles = true
			}
			return ast.WalkSkipChildren, nil
		case *ast.Text:
			if mathInlineRe.Match(node.Segment.Value(source)) {
				c.IncludeKatexStyles = true
			}
		case *ast.Link:
			rewriteLink(c, node)
		case *ast.Image:
			rep, err := imageReplacement(c, node)
			if err != nil {
				return ast.WalkStop, err
			}
			if rep != nil {
				reps = append(reps, replacement{old: node, new: rep})
				return ast.WalkSkipChildren, nil
			}
		case *ast.Blockquote:
			if aside := asideFromBlockquote(node, source); aside != nil {
				reps = append(reps, replacement{old: node, new: aside})
				return ast.WalkSkipChildren, nil
			}
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return err
	}

	for _, rep := range reps {
		parent := rep.old.Parent()
		if parent != nil {
			parent.ReplaceChild(parent, rep.old, rep.new)
		}
	}
	return nil
}

// rewriteLink resolves a standard markdown link against the file index.
// Links are left untouched when the dialect's wikilink syntax is active
// (they were already resolved by the inline pass), when the URL is
// absolute, or when no indexed file matches.
func rewriteLink(c *Context, link *ast.Link) {
	if c.Vault.Options.LinkSyntax == vault.LinkSyntaxWikilink {
		return
	}
	dest := string(link.Destination)
	if dest == "" || isAbsoluteURL(dest) {
		return
	}
	if strings.HasPrefix(dest, "#") {
		link.Destination = []byte("#" + vault.NormalizeAnchor(dest))
		return
	}
	if unescaped, err := url.PathUnescape(dest); err == nil {
		dest = unescaped
	}

	p, anchor := vault.SplitAnchor(dest)
	name := path.Base(p)
	f := c.Vault.FindByFileName(name)
	if f == nil && path.Ext(name) == "" {
		f = c.Vault.FindByFileName(vault.EnsureMDExt(name))
	}
	if f == nil {
		return
	}

	if c.Vault.Options.LinkFormat == vault.LinkFormatRelative {
		link.Destination = []byte(joinURL(c.Output, vault.Slugify(joinFromDir(c.File.Dir(), p)), anchor))
		return
	}
	// Absolute and shortest share resolution through the matched file's
	// slug; there is no raw fallback on this path.
	link.Destination = []byte(joinURL(c.Output, f.Slug, anchor))
}

// imageReplacement handles an image-position node. Markdown-note targets
// become recursively embedded quoted blocks; audio, video and other binary
// assets become type-specific embed elements; plain images get their URL
// resolved in place. A nil return with nil error means the image node
// stays (possibly with a rewritten destination).
func imageReplacement(c *Context, img *ast.Image) (ast.Node, error) {
	dest := string(img.Destination)
	if dest == "" || isAbsoluteURL(dest) {
		return nil, nil
	}
	if unescaped, err := url.PathUnescape(dest); err == nil {
		dest = unescaped
	}
	p, _ := vault.SplitAnchor(dest)

	if !vault.IsAsset(p) {
		return resolveEmbed(c, p)
	}

	// Asset embeds resolved by the inline pass already carry an output URL.
	u := dest
	if !strings.HasPrefix(dest, c.Output+"/") {
		u = assetURL(c, p)
	}
	switch vault.Kind(p) {
	case vault.KindAudio:
		return &markdown.RawMarkup{Markup: []byte(`<audio controls src="` + u + `"></audio>`)}, nil
	case vault.KindVideo:
		return &markdown.RawMarkup{Markup: []byte(`<video controls src="` + u + `"></video>`)}, nil
	case vault.KindImage:
		img.Destination = []byte(u)
		return nil, nil
	default:
		return &markdown.RawMarkup{Markup: []byte(`<iframe src="` + u + `"></iframe>`)}, nil
	}
}
