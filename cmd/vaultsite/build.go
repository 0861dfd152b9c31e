package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"vaultsite/internal/buildcache"
	"vaultsite/internal/config"
	"vaultsite/internal/render"
	"vaultsite/internal/transform"
	"vaultsite/internal/vault"
)

func buildCommand() *cli.Command {
	return &cli.Command{
		Name:   "build",
		Usage:  "Index the vault and write transformed pages to the output directory",
		Action: runBuild,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "vault", Usage: "Vault root directory", Sources: cli.EnvVars("VAULTSITE_VAULT")},
			&cli.StringFlag{Name: "out", Usage: "Output directory", Sources: cli.EnvVars("VAULTSITE_OUTPUT")},
			&cli.StringFlag{Name: "prefix", Usage: "URL prefix for resolved links"},
			&cli.StringFlag{Name: "link-format", Usage: "Link resolution strategy (relative, absolute, shortest)"},
			&cli.StringFlag{Name: "link-syntax", Usage: "Authored link syntax (wikilink, markdown)"},
			&cli.BoolFlag{Name: "html", Usage: "Write full HTML pages instead of markdown"},
			&cli.StringFlag{Name: "cache", Usage: "Path to the incremental build cache"},
			&cli.StringFlag{Name: "mermaid-cmd", Usage: "Command rendering mermaid source (stdin) to markup (stdout)"},
			&cli.IntFlag{Name: "parallelism", Usage: "Concurrent document builds"},
			&cli.BoolFlag{Name: "watch", Usage: "Keep running and rebuild on changes"},
		},
	}
}

func runBuild(ctx context.Context, cmd *cli.Command) error {
	cfg := config.Load()
	if cmd.IsSet("vault") {
		cfg.VaultRoot = cmd.String("vault")
	}
	if cmd.IsSet("out") {
		cfg.OutputDir = cmd.String("out")
	}
	if cmd.IsSet("prefix") {
		cfg.OutputPrefix = cmd.String("prefix")
	}
	if cmd.IsSet("link-format") {
		cfg.LinkFormat = cmd.String("link-format")
	}
	if cmd.IsSet("link-syntax") {
		cfg.LinkSyntax = cmd.String("link-syntax")
	}
	if cmd.IsSet("html") {
		cfg.HTML = cmd.Bool("html")
	}
	if cmd.IsSet("cache") {
		cfg.CachePath = cmd.String("cache")
	}
	if cmd.IsSet("mermaid-cmd") {
		cfg.MermaidCommand = cmd.String("mermaid-cmd")
	}
	if cmd.IsSet("parallelism") {
		cfg.Parallelism = int(cmd.Int("parallelism"))
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration: %w", err)
	}

	var cache *buildcache.Cache
	if cfg.CachePath != "" {
		var err error
		cache, err = buildcache.Open(cfg.CachePath)
		if err != nil {
			return err
		}
		defer cache.Close()
	}

	var diagrams transform.Renderer
	if cfg.MermaidCommand != "" {
		diagrams = execRenderer{command: cfg.MermaidCommand}
	}

	if err := buildAll(ctx, cfg, cache, diagrams); err != nil {
		return err
	}
	if cmd.Bool("watch") {
		return watch(ctx, cfg, cache, diagrams)
	}
	return nil
}

// buildAll indexes the vault and transforms every note. Documents are
// independent, so they build fully in parallel; the vault index is built
// once up front and only ever read afterwards.
func buildAll(ctx context.Context, cfg config.Config, cache *buildcache.Cache, diagrams transform.Renderer) error {
	start := time.Now()
	v, err := vault.Index(cfg.VaultRoot, cfg.VaultOptions())
	if err != nil {
		return err
	}

	notes := v.Notes()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Parallelism)
	for _, note := range notes {
		g.Go(func() error {
			return buildNote(gctx, cfg, v, cache, diagrams, note)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	slog.Info("build finished",
		slog.Int("notes", len(notes)),
		slog.Duration("elapsed", time.Since(start)))
	return nil
}

func buildNote(ctx context.Context, cfg config.Config, v *vault.Vault, cache *buildcache.Cache, diagrams transform.Renderer, note *vault.File) error {
	data, err := os.ReadFile(note.FSPath)
	if err != nil {
		return fmt.Errorf("read %s: %w", note.Path, err)
	}

	var info os.FileInfo
	if cache != nil {
		info, err = os.Stat(note.FSPath)
		if err != nil {
			return fmt.Errorf("stat %s: %w", note.Path, err)
		}
		changed, err := cache.Changed(ctx, note.Path, data, info.ModTime(), info.Size())
		if err != nil {
			return err
		}
		if !changed {
			slog.Debug("unchanged, skipped", slog.String("note", note.Path))
			return nil
		}
	}

	tctx := transform.NewContext(v, note, cfg.OutputPrefix)
	res, err := transform.Note(ctx, data, tctx, diagrams)
	if err != nil {
		return fmt.Errorf("transform %s: %w", note.Path, err)
	}

	out, ext := []byte(nil), ".md"
	if cfg.HTML {
		out, err = render.Page(res)
		ext = ".html"
	} else {
		out, err = res.Markdown()
	}
	if err != nil {
		return fmt.Errorf("serialize %s: %w", note.Path, err)
	}

	outPath := filepath.Join(cfg.OutputDir, filepath.FromSlash(note.Slug)+ext)
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(outPath, out, 0o644); err != nil {
		return err
	}

	if cache != nil {
		if err := cache.Record(ctx, note.Path, data, info.ModTime(), info.Size()); err != nil {
			return err
		}
	}
	slog.Info("built",
		slog.String("note", note.Path),
		slog.String("out", outPath),
		slog.Int("assets", len(res.Assets)))
	return nil
}
