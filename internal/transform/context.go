// Package transform rewrites a note's markdown tree into vendor-neutral
// markdown/HTML: wikilinks and embeds are resolved against the vault index,
// callouts become aside blocks, diagrams are inlined and a metadata header
// is synthesized for every document.
package transform

import (
	"errors"
	"fmt"

	"vaultsite/internal/vault"
)

var (
	// ErrIncompleteContext signals a caller programming error, not a data
	// problem: a document was transformed without a full context.
	ErrIncompleteContext = errors.New("incomplete transform context")

	// ErrCyclicEmbed reports a mutual-embed cycle between notes.
	ErrCyclicEmbed = errors.New("cyclic embed")
)

// Context is the per-document transient state threaded through every pass.
// It is created before the pipeline starts, mutated during traversal and
// discarded once the document is emitted.
type Context struct {
	// Vault is the shared read-only file index.
	Vault *vault.Vault
	// File is the document being transformed.
	File *vault.File
	// Output is the URL prefix joined with every resolved path.
	Output string

	// IncludeKatexStyles is set when a math node is encountered.
	IncludeKatexStyles bool
	// Assets collects every resolved asset URL, for the external
	// asset-staging step.
	Assets []string

	// visited guards recursive note embedding against cycles.
	visited map[string]bool
}

// NewContext builds the transform context for one document.
func NewContext(v *vault.Vault, file *vault.File, output string) *Context {
	return &Context{
		Vault:   v,
		File:    file,
		Output:  output,
		visited: map[string]bool{},
	}
}

func (c *Context) validate() error {
	if c == nil || c.Vault == nil {
		return fmt.Errorf("%w: missing vault index", ErrIncompleteContext)
	}
	if c.File == nil {
		return fmt.Errorf("%w: missing document file", ErrIncompleteContext)
	}
	if c.Output == "" {
		return fmt.Errorf("%w: missing output prefix (document %s)", ErrIncompleteContext, c.File.Path)
	}
	return nil
}

// forFile derives the context used when recursively transforming an
// embedded note: same vault, output prefix and visited set, but the
// embedded file's own directory context.
func (c *Context) forFile(f *vault.File) *Context {
	return &Context{
		Vault:   c.Vault,
		File:    f,
		Output:  c.Output,
		visited: c.visited,
	}
}
