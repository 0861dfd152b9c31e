// Package vault indexes a directory tree of interlinked notes and assets
// and assigns each entry a stable, collision-aware slug.
package vault

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// ConfigDirName is the vault configuration subfolder excluded from indexing.
const ConfigDirName = ".obsidian"

var ErrVaultRoot = errors.New("invalid vault root")

// File is one discovered note or asset.
type File struct {
	// FSPath is the absolute source location on disk.
	FSPath string
	// Path is the vault-root-relative logical path, forward-slash separated.
	Path string
	// Stem is the file name without extension.
	Stem string
	// FileName is the file name including extension.
	FileName string
	// Slug is the URL-safe path derived from Path.
	Slug string
	// UniqueFileName is true iff no other vault file shares FileName,
	// compared case-insensitively across the whole vault.
	UniqueFileName bool
}

// Dir returns the vault-relative directory containing the file.
func (f *File) Dir() string {
	dir := path.Dir(f.Path)
	if dir == "." {
		return ""
	}
	return dir
}

// IsNote reports whether the file is a markdown note.
func (f *File) IsNote() bool {
	return Kind(f.Path) == KindNote && Ext(f.Path) == ".md"
}

// Vault is the read-only aggregate of options and discovered files.
// It is built once per run and never mutated afterward, so it is safe
// for concurrent reads.
type Vault struct {
	Options Options
	Files   []*File
}

// Index walks the vault root recursively, excluding the configuration
// subfolder, and builds the file set with slugs and duplicate-name marks.
func Index(root string, opts Options) (*Vault, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("vault options: %w", err)
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrVaultRoot, root, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrVaultRoot, root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: not a directory: %s", ErrVaultRoot, root)
	}

	v := &Vault{Options: opts}
	err = filepath.WalkDir(abs, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if d.Name() == ConfigDirName {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(abs, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		v.Files = append(v.Files, &File{
			FSPath:   p,
			Path:     rel,
			Stem:     Stem(rel),
			FileName: path.Base(rel),
			Slug:     Slugify(rel),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: walk %s: %v", ErrVaultRoot, root, err)
	}

	markUniqueFileNames(v.Files)
	return v, nil
}

func markUniqueFileNames(files []*File) {
	byName := make(map[string]int, len(files))
	for _, f := range files {
		byName[strings.ToLower(f.FileName)]++
	}
	for _, f := range files {
		f.UniqueFileName = byName[strings.ToLower(f.FileName)] == 1
	}
}

// FindByRef looks up files matching a raw link target by stem, file name or
// vault path. Comparison is case-insensitive, matching the dialect's own
// link resolution.
func (v *Vault) FindByRef(ref string) []*File {
	ref = normalizeRef(ref)
	if ref == "" {
		return nil
	}
	var out []*File
	for _, f := range v.Files {
		if strings.EqualFold(f.Stem, ref) ||
			strings.EqualFold(f.FileName, ref) ||
			strings.EqualFold(f.Path, ref) ||
			strings.EqualFold(strings.TrimSuffix(f.Path, path.Ext(f.Path)), ref) {
			out = append(out, f)
		}
	}
	return out
}

// FindByFileName returns the file whose name matches exactly
// (case-insensitive), or nil when there is no match.
func (v *Vault) FindByFileName(name string) *File {
	for _, f := range v.Files {
		if strings.EqualFold(f.FileName, name) {
			return f
		}
	}
	return nil
}

// FindByPath returns the file whose vault-relative path matches exactly
// (case-insensitive), or nil.
func (v *Vault) FindByPath(p string) *File {
	p = normalizeRef(p)
	for _, f := range v.Files {
		if strings.EqualFold(f.Path, p) {
			return f
		}
	}
	return nil
}

// Notes returns the markdown notes of the vault in walk order.
func (v *Vault) Notes() []*File {
	var out []*File
	for _, f := range v.Files {
		if f.IsNote() {
			out = append(out, f)
		}
	}
	return out
}

func normalizeRef(ref string) string {
	ref = strings.ReplaceAll(strings.TrimSpace(ref), "\\", "/")
	ref = strings.TrimPrefix(ref, "./")
	ref = strings.TrimPrefix(ref, "/")
	if ref == "" || ref == "." {
		return ""
	}
	return path.Clean(ref)
}
