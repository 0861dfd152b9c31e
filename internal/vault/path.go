package vault

import (
	"path"
	"strings"
)

// Asset kinds recognized by file extension.
const (
	KindNote  = "note"
	KindImage = "image"
	KindAudio = "audio"
	KindVideo = "video"
	KindOther = "other"
)

var extKinds = map[string]string{
	".md":   KindNote,
	".png":  KindImage,
	".jpg":  KindImage,
	".jpeg": KindImage,
	".gif":  KindImage,
	".svg":  KindImage,
	".webp": KindImage,
	".avif": KindImage,
	".bmp":  KindImage,
	".mp3":  KindAudio,
	".wav":  KindAudio,
	".m4a":  KindAudio,
	".ogg":  KindAudio,
	".3gp":  KindAudio,
	".flac": KindAudio,
	".mp4":  KindVideo,
	".webm": KindVideo,
	".ogv":  KindVideo,
	".mov":  KindVideo,
	".mkv":  KindVideo,
	".pdf":  KindOther,
}

// Ext returns the lowercased extension of p, including the dot.
func Ext(p string) string {
	return strings.ToLower(path.Ext(p))
}

// Kind classifies p by extension. Unknown extensions and extension-less
// paths are treated as notes, matching the dialect's convention that an
// embeddable reference without an extension is a note.
func Kind(p string) string {
	ext := Ext(p)
	if ext == "" {
		return KindNote
	}
	if kind, ok := extKinds[ext]; ok {
		return kind
	}
	return KindOther
}

// IsAsset reports whether p refers to a binary asset rather than a note.
func IsAsset(p string) bool {
	return Kind(p) != KindNote
}

// Stem returns the file name of p without its extension.
func Stem(p string) string {
	name := path.Base(p)
	return strings.TrimSuffix(name, path.Ext(name))
}

func EnsureMDExt(p string) string {
	if strings.HasSuffix(strings.ToLower(p), ".md") {
		return p
	}
	return p + ".md"
}

// SplitAnchor splits a raw link target into its path and anchor parts.
// The anchor is returned without the leading '#'.
func SplitAnchor(target string) (string, string) {
	if i := strings.IndexByte(target, '#'); i >= 0 {
		return target[:i], target[i+1:]
	}
	return target, ""
}

// Slugify turns a vault-relative path into a URL-safe slug. Each segment is
// lowercased with non-alphanumeric runs collapsed to a single hyphen and
// leading/trailing hyphens trimmed. A trailing ".md" is dropped first.
func Slugify(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	p = strings.TrimSuffix(p, ".md")
	p = strings.TrimSuffix(p, ".MD")
	segments := strings.Split(p, "/")
	out := make([]string, 0, len(segments))
	for _, seg := range segments {
		slug := slugifySegment(seg)
		if slug == "" {
			continue
		}
		out = append(out, slug)
	}
	return strings.Join(out, "/")
}

// SlugifyAsset slugifies an asset path while preserving its extension, so
// resolved asset URLs still carry the type information embed handling
// depends on.
func SlugifyAsset(p string) string {
	ext := Ext(p)
	if ext == "" || ext == ".md" {
		return Slugify(p)
	}
	return Slugify(strings.TrimSuffix(p, path.Ext(p))) + ext
}

func slugifySegment(input string) string {
	input = strings.ToLower(input)
	var b strings.Builder
	lastDash := false
	for _, r := range input {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastDash = false
			continue
		}
		if !lastDash {
			b.WriteRune('-')
			lastDash = true
		}
	}
	return strings.Trim(b.String(), "-")
}

// NormalizeAnchor normalizes a same-document or cross-document anchor:
// lowercase, spaces to hyphens. Block-reference anchors ("^token") lose
// their caret marker.
func NormalizeAnchor(anchor string) string {
	anchor = strings.TrimPrefix(anchor, "#")
	anchor = strings.TrimPrefix(anchor, "^")
	anchor = strings.ToLower(strings.TrimSpace(anchor))
	return strings.ReplaceAll(anchor, " ", "-")
}
