package transform

import (
	"testing"

	"vaultsite/internal/vault"
)

func TestShortestMatchesAbsoluteForUniqueNames(t *testing.T) {
	shortest := newTestVault(t, fixtureFiles, vault.LinkFormatShortest, vault.LinkSyntaxWikilink)
	absolute := newTestVault(t, fixtureFiles, vault.LinkFormatAbsolute, vault.LinkSyntaxWikilink)

	want := vault.Slugify("folder/file-in-folder-1.md")
	cs := NewContext(shortest, mustFile(t, shortest, "root 1.md"), "/notes")
	if got := resolveNotePath(cs, "file-in-folder-1"); got != want {
		t.Errorf("shortest by stem = %q, want %q", got, want)
	}
	ca := NewContext(absolute, mustFile(t, absolute, "root 1.md"), "/notes")
	if got := resolveNotePath(ca, "folder/file-in-folder-1"); got != want {
		t.Errorf("absolute by path = %q, want %q", got, want)
	}
}

func TestIsAbsoluteURL(t *testing.T) {
	cases := map[string]bool{
		"https://example.com/a":  true,
		"http://example.com":     true,
		"ftp://host/file":        true,
		"mailto:someone@example": true,
		"obsidian+x://open":      true,
		"root 2.md":              false,
		"/notes/root-2":          false,
		"#anchor":                false,
		"folder/note":            false,
		"://missing-scheme":      false,
		"not a scheme://x":       false,
	}
	for dest, want := range cases {
		if got := isAbsoluteURL(dest); got != want {
			t.Errorf("isAbsoluteURL(%q) = %v, want %v", dest, got, want)
		}
	}
}

func TestJoinURL(t *testing.T) {
	cases := []struct {
		prefix, p, anchor, want string
	}{
		{"/notes", "root-2", "", "/notes/root-2"},
		{"/notes", "folder/file", "Some Heading", "/notes/folder/file#some-heading"},
		{"/notes/", "root-2", "", "/notes/root-2"},
		{"docs", "root-2", "", "docs/root-2"},
	}
	for _, tc := range cases {
		if got := joinURL(tc.prefix, tc.p, tc.anchor); got != tc.want {
			t.Errorf("joinURL(%q, %q, %q) = %q, want %q", tc.prefix, tc.p, tc.anchor, got, tc.want)
		}
	}
}

func TestJoinFromDir(t *testing.T) {
	cases := []struct {
		dir, target, want string
	}{
		{"folder", "nested-folder/note", "folder/nested-folder/note"},
		{"", "note", "note"},
		{"folder", "../root 1", "root 1"},
		{"folder", "\\windows\\style", "folder/windows/style"},
	}
	for _, tc := range cases {
		if got := joinFromDir(tc.dir, tc.target); got != tc.want {
			t.Errorf("joinFromDir(%q, %q) = %q, want %q", tc.dir, tc.target, got, tc.want)
		}
	}
}
