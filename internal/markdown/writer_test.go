package markdown

import (
	"testing"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

var md = goldmark.New()

func parse(source []byte) ast.Node {
	return md.Parser().Parse(text.NewReader(source))
}

func render(t *testing.T, source []byte, n ast.Node) string {
	t.Helper()
	out, err := Render(source, n)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	return string(out)
}

// TestRenderRoundTrip feeds canonical markdown through parse and render
// and expects it back unchanged.
func TestRenderRoundTrip(t *testing.T) {
	cases := []string{
		"# Heading\n",
		"## Deeper *emphasis* here\n",
		"plain paragraph\n",
		"first\n\nsecond\n",
		"a [link](/notes/root-2) and an ![img](/notes/a.png)\n",
		"with `code span` inline\n",
		"soft\nbreak\n",
		"```go\nx := 1\n```\n",
		"```\nbare fence\n```\n",
		"    indented code\n",
		"a <b>bold</b> span\n",
		"> quoted\n",
		"> a\n>\n> b\n",
		"- a\n- b\n",
		"1. a\n2. b\n",
		"---\n",
		"**strong** and *weak*\n",
		"<https://example.com>\n",
		"<div>\nraw block\n</div>\n",
	}
	for _, src := range cases {
		source := []byte(src)
		if got := render(t, source, parse(source)); got != src {
			t.Errorf("round trip of %q produced %q", src, got)
		}
	}
}

func TestRenderNestedList(t *testing.T) {
	src := "- a\n  - b\n- c\n"
	source := []byte(src)
	if got := render(t, source, parse(source)); got != src {
		t.Errorf("nested list %q produced %q", src, got)
	}
}

func TestRenderAside(t *testing.T) {
	source := []byte("inner paragraph\n")
	doc := parse(source)
	para := doc.FirstChild()
	doc.RemoveChild(doc, para)

	aside := &Aside{Variant: "caution", Title: "Watch out"}
	aside.AppendChild(aside, para)
	doc.AppendChild(doc, aside)

	want := ":::caution[Watch out]\ninner paragraph\n:::\n"
	if got := render(t, source, doc); got != want {
		t.Errorf("aside = %q, want %q", got, want)
	}
}

func TestRenderAsideWithoutTitle(t *testing.T) {
	source := []byte("x\n")
	doc := parse(source)
	para := doc.FirstChild()
	doc.RemoveChild(doc, para)

	aside := &Aside{Variant: "note"}
	aside.AppendChild(aside, para)
	doc.AppendChild(doc, aside)

	want := ":::note\nx\n:::\n"
	if got := render(t, source, doc); got != want {
		t.Errorf("aside = %q, want %q", got, want)
	}
}

func TestRenderEmbeddedNote(t *testing.T) {
	doc := ast.NewDocument()
	doc.AppendChild(doc, &EmbeddedNote{
		Title:    "root 2",
		Markdown: []byte("Hello *there*.\n"),
	})

	want := "> **root 2**\n>\n> Hello *there*.\n"
	if got := render(t, nil, doc); got != want {
		t.Errorf("embedded note = %q, want %q", got, want)
	}
}

func TestRenderRawMarkup(t *testing.T) {
	doc := ast.NewDocument()
	doc.AppendChild(doc, &RawMarkup{Markup: []byte(`<audio controls src="/a.mp3"></audio>`)})

	want := "<audio controls src=\"/a.mp3\"></audio>\n"
	if got := render(t, nil, doc); got != want {
		t.Errorf("raw markup = %q, want %q", got, want)
	}
}

func TestRenderEmptyRawMarkupVanishes(t *testing.T) {
	source := []byte("before\n\nafter\n")
	doc := parse(source)
	first := doc.FirstChild()
	doc.InsertAfter(doc, first, &RawMarkup{})

	want := "before\n\nafter\n"
	if got := render(t, source, doc); got != want {
		t.Errorf("empty raw markup left a trace: %q", got)
	}
}
