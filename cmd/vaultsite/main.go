package main

import (
	"context"
	"log/slog"
	"os"
	"strings"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"
)

func main() {
	setupLogging()

	cmd := &cli.Command{
		Name:  "vaultsite",
		Usage: "Convert a markdown note vault into pages for a static documentation site",
		Commands: []*cli.Command{
			buildCommand(),
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("vaultsite failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func setupLogging() {
	level := parseLogLevel(os.Getenv("VAULTSITE_LOG_LEVEL"))
	pretty := strings.EqualFold(os.Getenv("VAULTSITE_LOG_PRETTY"), "1") ||
		strings.EqualFold(os.Getenv("VAULTSITE_LOG_PRETTY"), "true")

	var handler slog.Handler
	if pretty {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	}
	slog.SetDefault(slog.New(handler))
}

func parseLogLevel(raw string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
