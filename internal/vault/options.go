package vault

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// LinkFormat selects the link-resolution strategy notes were authored with.
type LinkFormat string

const (
	LinkFormatRelative LinkFormat = "relative"
	LinkFormatAbsolute LinkFormat = "absolute"
	LinkFormatShortest LinkFormat = "shortest"
)

// LinkSyntax selects the link syntax notes were authored with.
type LinkSyntax string

const (
	LinkSyntaxWikilink LinkSyntax = "wikilink"
	LinkSyntaxMarkdown LinkSyntax = "markdown"
)

// Options is the immutable per-run configuration of a vault.
type Options struct {
	// Root is the vault root directory on disk.
	Root string
	// LinkFormat is the resolution strategy links were written with.
	LinkFormat LinkFormat
	// LinkSyntax is the syntax links were written with.
	LinkSyntax LinkSyntax
	// OutputPrefix is prepended to every resolved URL, e.g. "/notes".
	OutputPrefix string
}

// Validate checks the options before any indexing or transformation starts.
func (o Options) Validate() error {
	return validation.ValidateStruct(&o,
		validation.Field(&o.Root, validation.Required),
		validation.Field(&o.LinkFormat, validation.Required, validation.In(
			LinkFormatRelative, LinkFormatAbsolute, LinkFormatShortest,
		)),
		validation.Field(&o.LinkSyntax, validation.Required, validation.In(
			LinkSyntaxWikilink, LinkSyntaxMarkdown,
		)),
		validation.Field(&o.OutputPrefix, validation.Required),
	)
}
