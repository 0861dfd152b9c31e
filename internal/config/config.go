// Package config loads the build configuration from the environment.
package config

import (
	"os"
	"runtime"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"vaultsite/internal/vault"
)

type Config struct {
	// VaultRoot is the source vault directory.
	VaultRoot string
	// OutputDir is where transformed pages are written.
	OutputDir string
	// OutputPrefix is prepended to every resolved URL.
	OutputPrefix string
	// LinkFormat and LinkSyntax describe how links were authored.
	LinkFormat string
	LinkSyntax string
	// HTML selects full HTML pages instead of markdown output.
	HTML bool
	// CachePath enables the incremental build cache when non-empty.
	CachePath string
	// MermaidCommand renders diagram blocks when non-empty; the command
	// reads diagram source on stdin and writes markup to stdout.
	MermaidCommand string
	// Parallelism bounds concurrent document builds.
	Parallelism int
}

func Load() Config {
	return Config{
		VaultRoot:      os.Getenv("VAULTSITE_VAULT"),
		OutputDir:      os.Getenv("VAULTSITE_OUTPUT"),
		OutputPrefix:   envOr("VAULTSITE_OUTPUT_PREFIX", "/notes"),
		LinkFormat:     envOr("VAULTSITE_LINK_FORMAT", string(vault.LinkFormatShortest)),
		LinkSyntax:     envOr("VAULTSITE_LINK_SYNTAX", string(vault.LinkSyntaxWikilink)),
		HTML:           os.Getenv("VAULTSITE_HTML") == "1",
		CachePath:      os.Getenv("VAULTSITE_CACHE"),
		MermaidCommand: os.Getenv("VAULTSITE_MERMAID_CMD"),
		Parallelism:    parseIntOr("VAULTSITE_PARALLELISM", runtime.NumCPU()),
	}
}

func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.VaultRoot, validation.Required),
		validation.Field(&c.OutputDir, validation.Required),
		validation.Field(&c.OutputPrefix, validation.Required),
		validation.Field(&c.LinkFormat, validation.Required, validation.In(
			string(vault.LinkFormatRelative),
			string(vault.LinkFormatAbsolute),
			string(vault.LinkFormatShortest),
		)),
		validation.Field(&c.LinkSyntax, validation.Required, validation.In(
			string(vault.LinkSyntaxWikilink),
			string(vault.LinkSyntaxMarkdown),
		)),
		validation.Field(&c.Parallelism, validation.Required, validation.Min(1)),
	)
}

// VaultOptions maps the configuration onto the indexer's options.
func (c Config) VaultOptions() vault.Options {
	return vault.Options{
		Root:         c.VaultRoot,
		LinkFormat:   vault.LinkFormat(c.LinkFormat),
		LinkSyntax:   vault.LinkSyntax(c.LinkSyntax),
		OutputPrefix: c.OutputPrefix,
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil && i > 0 {
			return i
		}
	}
	return fallback
}
