// Package cache persists internal/reducer results across runs, keyed by the
// text of the input line that produced them, so that re-running the CLI
// over an unchanged input file skips re-solving every line (each line is
// still parsed, built and validated before the cache is consulted).
package cache

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fxamacker/cbor/v2"
	"golang.org/x/crypto/blake2b"

	"github.com/bruparis/dobf/internal/reducer"
)

// Entry is the on-disk, cbor-encoded cache payload for one reduced line.
type Entry struct {
	Line    string
	Results []reducer.Result
}

// Cache is a directory of blake2b-keyed cbor files, one per distinct input
// line. It is not safe for concurrent use from multiple processes against
// the same directory without external locking; callers own their own cache
// directory.
type Cache struct {
	dir string
}

// Open ensures dir exists and returns a Cache rooted there.
func Open(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cache: creating %s: %w", dir, err)
	}
	return &Cache{dir: dir}, nil
}

// Key derives the cache key for line: its blake2b-256 digest, hex-encoded.
func Key(line string) string {
	sum := blake2b.Sum256([]byte(line))
	return fmt.Sprintf("%x", sum)
}

func (c *Cache) path(key string) string {
	return filepath.Join(c.dir, key+".cbor")
}

// Get returns the cached results for line, or ok=false on a miss.
func (c *Cache) Get(line string) (results []reducer.Result, ok bool, err error) {
	raw, err := os.ReadFile(c.path(Key(line)))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("cache: reading entry: %w", err)
	}
	var e Entry
	if err := cbor.Unmarshal(raw, &e); err != nil {
		return nil, false, fmt.Errorf("cache: decoding entry: %w", err)
	}
	if e.Line != line {
		// Digest collision (or a stale/corrupted file); treat as a miss
		// rather than serving a result for the wrong input.
		return nil, false, nil
	}
	return e.Results, true, nil
}

// Put stores results under line's key, overwriting any prior entry.
func (c *Cache) Put(line string, results []reducer.Result) error {
	raw, err := cbor.Marshal(Entry{Line: line, Results: results})
	if err != nil {
		return fmt.Errorf("cache: encoding entry: %w", err)
	}
	tmp := c.path(Key(line)) + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("cache: writing entry: %w", err)
	}
	return os.Rename(tmp, c.path(Key(line)))
}
