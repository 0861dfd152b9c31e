package transform

import (
	"net/url"
	"regexp"
	"strings"

	"vaultsite/internal/vault"
)

var (
	highlightRe = regexp.MustCompile(`==([^=\n](?:[^=]|=[^=])*?)==`)
	commentRe   = regexp.MustCompile(`(?s)%%.*?%%`)
	wikilinkRe  = regexp.MustCompile(`(!?)\[\[([^\[\]|]+)(\|[^\[\]]*)?\]\]`)
	tagRe       = regexp.MustCompile(`(?m)(^|\s)#([\w/-]+)`)
	digitsOnly  = regexp.MustCompile(`^\d+$`)
)

// RewriteInlines applies the dialect's text-level rewrites to the raw
// document body before structural parsing. Rules run in priority order:
// highlights, comment stripping, wikilinks, tags. Later rules operate on
// text already rewritten by earlier ones within the same pass.
func RewriteInlines(c *Context, src []byte) []byte {
	out := highlightRe.ReplaceAll(src, []byte(`<mark>$1</mark>`))
	out = commentRe.ReplaceAll(out, nil)
	out = wikilinkRe.ReplaceAllFunc(out, func(m []byte) []byte {
		return rewriteWikilink(c, m)
	})
	out = tagRe.ReplaceAllFunc(out, rewriteTag)
	return out
}

func rewriteWikilink(c *Context, match []byte) []byte {
	m := wikilinkRe.FindSubmatch(match)
	if m == nil {
		return match
	}
	embed := len(m[1]) > 0
	target := strings.TrimSpace(string(m[2]))
	label := ""
	hasLabel := len(m[3]) > 0
	if hasLabel {
		label = strings.TrimSpace(strings.TrimPrefix(string(m[3]), "|"))
	}

	// Same-document anchor reference.
	if strings.HasPrefix(target, "#") {
		text := label
		if text == "" {
			text = strings.TrimPrefix(target, "#")
		}
		return []byte("[" + text + "](#" + vault.NormalizeAnchor(target) + ")")
	}

	p, anchor := vault.SplitAnchor(target)
	text := label
	if text == "" {
		text = target
	}

	if embed {
		if vault.IsAsset(p) {
			return []byte("![" + text + "](" + assetURL(c, p) + ")")
		}
		// Note embeds keep the raw target path; the structural image
		// handling resolves them into quoted blocks.
		return []byte("![" + text + "](" + escapeDest(p) + ")")
	}
	if vault.IsAsset(p) {
		return []byte("[" + text + "](" + assetURL(c, p) + ")")
	}
	return []byte("[" + text + "](" + noteURL(c, p, anchor) + ")")
}

func rewriteTag(match []byte) []byte {
	m := tagRe.FindSubmatch(match)
	if m == nil {
		return match
	}
	body := string(m[2])
	// The dialect rejects tags composed entirely of digits.
	if digitsOnly.MatchString(body) {
		return match
	}
	return []byte(string(m[1]) + `<span class="tag">#` + body + `</span>`)
}

// escapeDest percent-escapes a raw path so it survives markdown link
// destination parsing; slashes are preserved.
func escapeDest(p string) string {
	u := url.URL{Path: p}
	return u.EscapedPath()
}
