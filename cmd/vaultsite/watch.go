package main

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"vaultsite/internal/buildcache"
	"vaultsite/internal/config"
	"vaultsite/internal/transform"
	"vaultsite/internal/vault"
)

const rebuildDebounce = 200 * time.Millisecond

// watch keeps rebuilding the site until ctx is cancelled. Change events
// are debounced into a single rebuild; the build cache makes each
// rebuild cheap by skipping unchanged notes.
//
// New directories created at runtime are automatically added to the
// watch list.
func watch(ctx context.Context, cfg config.Config, cache *buildcache.Cache, diagrams transform.Renderer) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := addDirsRecursive(w, cfg.VaultRoot); err != nil {
		return err
	}

	slog.Info("watcher started", slog.String("root", cfg.VaultRoot))

	var rebuildTimer *time.Timer
	var rebuildCh <-chan time.Time

	scheduleRebuild := func() {
		if rebuildTimer == nil {
			rebuildTimer = time.NewTimer(rebuildDebounce)
			rebuildCh = rebuildTimer.C
		} else {
			rebuildTimer.Reset(rebuildDebounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if rebuildTimer != nil {
				rebuildTimer.Stop()
			}
			slog.Info("watcher stopped")
			return nil

		case <-rebuildCh:
			if err := buildAll(ctx, cfg, cache, diagrams); err != nil {
				slog.Error("rebuild failed", slog.String("error", err.Error()))
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(ev.Name); statErr == nil && info.IsDir() {
					if addErr := addDirsRecursive(w, ev.Name); addErr != nil {
						slog.Warn("watch new dir failed",
							slog.String("path", ev.Name),
							slog.String("error", addErr.Error()))
					}
					scheduleRebuild()
					continue
				}
			}

			if strings.Contains(ev.Name, string(filepath.Separator)+vault.ConfigDirName+string(filepath.Separator)) {
				continue
			}

			// A removed or renamed note must transform again even if it
			// reappears with identical content, since its output may be
			// gone too.
			if cache != nil && ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
				if rel, relErr := filepath.Rel(cfg.VaultRoot, ev.Name); relErr == nil {
					if forgetErr := cache.Forget(ctx, filepath.ToSlash(rel)); forgetErr != nil {
						slog.Warn("cache forget failed",
							slog.String("path", rel),
							slog.String("error", forgetErr.Error()))
					}
				}
			}

			scheduleRebuild()

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			slog.Error("watcher error", slog.String("error", watchErr.Error()))
		}
	}
}

func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if d.Name() == vault.ConfigDirName {
			return filepath.SkipDir
		}
		return w.Add(p)
	})
}
