// Package buildcache tracks content hashes of already-built notes so
// unchanged documents can be skipped on rebuild.
package buildcache

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS files (
	path TEXT PRIMARY KEY,
	hash TEXT NOT NULL,
	mtime INTEGER NOT NULL,
	size INTEGER NOT NULL
);`

type Cache struct {
	db *sql.DB
}

func Open(path string) (*Cache, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open build cache: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("init build cache: %w", err)
	}
	return &Cache{db: db}, nil
}

func (c *Cache) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Hash returns the hex sha256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Changed reports whether the note differs from its recorded state. The
// cheap mtime+size comparison short-circuits; the hash settles touched but
// identical files.
func (c *Cache) Changed(ctx context.Context, path string, data []byte, mtime time.Time, size int64) (bool, error) {
	var hash string
	var storedMTime, storedSize int64
	row := c.db.QueryRowContext(ctx, `SELECT hash, mtime, size FROM files WHERE path = ?`, path)
	if err := row.Scan(&hash, &storedMTime, &storedSize); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return true, nil
		}
		return false, fmt.Errorf("query build cache: %w", err)
	}
	if storedMTime == mtime.Unix() && storedSize == size {
		return false, nil
	}
	return hash != Hash(data), nil
}

// Record stores the note's current state after a successful build.
func (c *Cache) Record(ctx context.Context, path string, data []byte, mtime time.Time, size int64) error {
	_, err := c.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO files (path, hash, mtime, size) VALUES (?, ?, ?, ?)`,
		path, Hash(data), mtime.Unix(), size)
	if err != nil {
		return fmt.Errorf("record build cache: %w", err)
	}
	return nil
}

// Forget drops a note from the cache, e.g. after its source was deleted.
func (c *Cache) Forget(ctx context.Context, path string) error {
	if _, err := c.db.ExecContext(ctx, `DELETE FROM files WHERE path = ?`, path); err != nil {
		return fmt.Errorf("forget build cache entry: %w", err)
	}
	return nil
}
