package transform

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// KatexStylesheetURL is injected into a page's head when math content was
// encountered during the pipeline run.
const KatexStylesheetURL = "https://cdn.jsdelivr.net/npm/katex@0.16/dist/katex.min.css"

var frontmatterFence = []byte("---")

// HeadEntry is one synthesized head-injection element.
type HeadEntry struct {
	Tag   string            `yaml:"tag"`
	Attrs map[string]string `yaml:"attrs,omitempty"`
}

// Frontmatter is the synthesized metadata header of a transformed document.
// Author-supplied fields survive in Extra; title is always system-derived.
type Frontmatter struct {
	Title string         `yaml:"title"`
	Tags  []string       `yaml:"tags,omitempty"`
	Head  []HeadEntry    `yaml:"head,omitempty"`
	Extra map[string]any `yaml:",inline"`
}

// SplitFrontmatter separates an author-supplied metadata header from the
// document body. Metadata headers only ever occur at the very top of a
// document, fenced by "---" lines.
func SplitFrontmatter(src []byte) ([]byte, []byte) {
	lines := bytes.SplitAfter(src, []byte("\n"))
	if len(lines) == 0 || !bytes.Equal(bytes.TrimSpace(lines[0]), frontmatterFence) {
		return nil, src
	}
	offset := len(lines[0])
	for _, line := range lines[1:] {
		if bytes.Equal(bytes.TrimSpace(line), frontmatterFence) {
			metaEnd := offset
			bodyStart := offset + len(line)
			return src[len(lines[0]):metaEnd], src[bodyStart:]
		}
		offset += len(line)
	}
	return nil, src
}

// SynthesizeFrontmatter merges computed fields with the author-supplied
// header: the title always comes from the file stem, tags are forwarded
// only when the source metadata declared a non-empty list, and a katex
// stylesheet head entry is added when a math node was seen. Remaining
// author fields are preserved untouched.
func SynthesizeFrontmatter(c *Context, authorMeta []byte) (*Frontmatter, error) {
	if err := c.validate(); err != nil {
		return nil, err
	}

	fm := &Frontmatter{Title: c.File.Stem}

	if len(bytes.TrimSpace(authorMeta)) > 0 {
		extra := map[string]any{}
		if err := yaml.Unmarshal(authorMeta, &extra); err != nil {
			return nil, fmt.Errorf("frontmatter of %s: %w", c.File.Path, err)
		}
		fm.Tags = stringList(extra["tags"])
		delete(extra, "tags")
		delete(extra, "title")
		delete(extra, "head")
		if len(extra) > 0 {
			fm.Extra = extra
		}
	}

	if c.IncludeKatexStyles {
		fm.Head = append(fm.Head, HeadEntry{
			Tag: "link",
			Attrs: map[string]string{
				"rel":  "stylesheet",
				"href": KatexStylesheetURL,
			},
		})
	}
	return fm, nil
}

// Encode serializes the frontmatter back into a fenced yaml header.
func (f *Frontmatter) Encode() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("---\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return nil, fmt.Errorf("encode frontmatter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode frontmatter: %w", err)
	}
	buf.WriteString("---\n")
	return buf.Bytes(), nil
}

func stringList(v any) []string {
	switch items := v.(type) {
	case string:
		if items == "" {
			return nil
		}
		return []string{items}
	case []any:
		out := make([]string, 0, len(items))
		for _, item := range items {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		if len(out) == 0 {
			return nil
		}
		return out
	}
	return nil
}
