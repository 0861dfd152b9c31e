package transform

import (
	"path"
	"strings"

	"vaultsite/internal/vault"
)

// resolveNotePath maps a raw note target to its output slug path according
// to the active link format.
//
//   - relative: join the current document's own directory with the target
//     and slugify the result; the literal relative path is trusted as
//     authored and no index lookup happens.
//   - absolute: slugify the target directly, whether or not it is indexed.
//   - shortest: look the target up by stem, file name or path. A match
//     resolves to that file's precomputed slug; for files sharing a name
//     the slug is already the full-path slug, which disambiguates. With no
//     match the target is slugified as given.
func resolveNotePath(c *Context, target string) string {
	switch c.Vault.Options.LinkFormat {
	case vault.LinkFormatRelative:
		return vault.Slugify(joinFromDir(c.File.Dir(), target))
	case vault.LinkFormatAbsolute:
		return vault.Slugify(target)
	default:
		if matches := c.Vault.FindByRef(target); len(matches) > 0 {
			return matches[0].Slug
		}
		return vault.Slugify(target)
	}
}

// resolveAssetPath is the asset variant of resolveNotePath: identical mode
// branching, but the extension survives slugging so embed handling can
// still classify the target.
func resolveAssetPath(c *Context, target string) string {
	switch c.Vault.Options.LinkFormat {
	case vault.LinkFormatRelative:
		return vault.SlugifyAsset(joinFromDir(c.File.Dir(), target))
	case vault.LinkFormatAbsolute:
		return vault.SlugifyAsset(target)
	default:
		if matches := c.Vault.FindByRef(target); len(matches) > 0 {
			return vault.SlugifyAsset(matches[0].Path)
		}
		return vault.SlugifyAsset(target)
	}
}

// noteURL builds the final output URL for a note target, including a
// normalized anchor suffix when present.
func noteURL(c *Context, target, anchor string) string {
	return joinURL(c.Output, resolveNotePath(c, target), anchor)
}

// assetURL builds the final output URL for an asset target and records it
// for the external staging step.
func assetURL(c *Context, target string) string {
	u := joinURL(c.Output, resolveAssetPath(c, target), "")
	c.Assets = append(c.Assets, u)
	return u
}

func joinFromDir(dir, target string) string {
	target = strings.TrimPrefix(strings.ReplaceAll(target, "\\", "/"), "/")
	if dir == "" {
		return path.Clean(target)
	}
	return path.Join(dir, target)
}

func joinURL(prefix, p, anchor string) string {
	u := path.Join(prefix, p)
	if !strings.HasPrefix(u, "/") && strings.HasPrefix(prefix, "/") {
		u = "/" + u
	}
	if anchor != "" {
		u += "#" + vault.NormalizeAnchor(anchor)
	}
	return u
}

// isAbsoluteURL reports whether dest already carries a URL scheme and must
// be left untouched by link and image handling.
func isAbsoluteURL(dest string) bool {
	i := strings.Index(dest, "://")
	if i <= 0 {
		return strings.HasPrefix(dest, "mailto:")
	}
	for _, r := range dest[:i] {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') && (r < '0' || r > '9') && r != '+' && r != '-' && r != '.' {
			return false
		}
	}
	return true
}
