package buildcache

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestCacheChanged(t *testing.T) {
	c := openTestCache(t)
	ctx := context.Background()
	data := []byte("# note\n")
	mtime := time.Unix(1700000000, 0)

	changed, err := c.Changed(ctx, "a.md", data, mtime, int64(len(data)))
	if err != nil {
		t.Fatalf("Changed: %v", err)
	}
	if !changed {
		t.Fatal("unknown path reported unchanged")
	}

	if err := c.Record(ctx, "a.md", data, mtime, int64(len(data))); err != nil {
		t.Fatalf("Record: %v", err)
	}

	changed, err = c.Changed(ctx, "a.md", data, mtime, int64(len(data)))
	if err != nil {
		t.Fatalf("Changed: %v", err)
	}
	if changed {
		t.Fatal("recorded state reported changed")
	}

	// Touched but identical content settles through the hash.
	changed, err = c.Changed(ctx, "a.md", data, mtime.Add(time.Minute), int64(len(data)))
	if err != nil {
		t.Fatalf("Changed: %v", err)
	}
	if changed {
		t.Fatal("identical content with newer mtime reported changed")
	}

	edited := []byte("# note, edited\n")
	changed, err = c.Changed(ctx, "a.md", edited, mtime.Add(time.Minute), int64(len(edited)))
	if err != nil {
		t.Fatalf("Changed: %v", err)
	}
	if !changed {
		t.Fatal("edited content reported unchanged")
	}
}

func TestCacheForget(t *testing.T) {
	c := openTestCache(t)
	ctx := context.Background()
	data := []byte("x\n")
	mtime := time.Unix(1700000000, 0)

	if err := c.Record(ctx, "a.md", data, mtime, int64(len(data))); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := c.Forget(ctx, "a.md"); err != nil {
		t.Fatalf("Forget: %v", err)
	}

	changed, err := c.Changed(ctx, "a.md", data, mtime, int64(len(data)))
	if err != nil {
		t.Fatalf("Changed: %v", err)
	}
	if !changed {
		t.Fatal("forgotten path reported unchanged")
	}

	// Forgetting an unknown path is not an error.
	if err := c.Forget(ctx, "never-seen.md"); err != nil {
		t.Fatalf("Forget unknown: %v", err)
	}
}

func TestCacheRecordReplaces(t *testing.T) {
	c := openTestCache(t)
	ctx := context.Background()
	mtime := time.Unix(1700000000, 0)

	first := []byte("v1\n")
	second := []byte("second version\n")
	if err := c.Record(ctx, "a.md", first, mtime, int64(len(first))); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := c.Record(ctx, "a.md", second, mtime.Add(time.Hour), int64(len(second))); err != nil {
		t.Fatalf("Record replace: %v", err)
	}

	changed, err := c.Changed(ctx, "a.md", second, mtime.Add(time.Hour), int64(len(second)))
	if err != nil {
		t.Fatalf("Changed: %v", err)
	}
	if changed {
		t.Fatal("replaced record not in effect")
	}
}
