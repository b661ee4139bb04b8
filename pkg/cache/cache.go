// Package cache persists per-file analysis results between runs, keyed by
// content hash, so unchanged files are not re-analyzed.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/tigredonorte/flakelint/pkg/report"
)

// ErrMiss is returned when a file has no cached result or its content
// changed since the result was stored.
var ErrMiss = errors.New("cache miss")

// formatVersion invalidates stored results when the entry layout changes.
const formatVersion = 1

// entry is one cached file result.
type entry struct {
	Hash     string         `msgpack:"hash"`
	Findings []report.Entry `msgpack:"findings"`
}

// snapshot is the serialized cache file.
type snapshot struct {
	Version int              `msgpack:"version"`
	Files   map[string]entry `msgpack:"files"`
}

// ResultCache stores finding lists per file path. Safe for concurrent use
// by parallel file analyses.
type ResultCache struct {
	mu    sync.RWMutex
	files map[string]entry
}

// New creates an empty result cache.
func New() *ResultCache {
	return &ResultCache{files: make(map[string]entry)}
}

// HashContent returns the content key for a file's source.
func HashContent(source []byte) string {
	sum := sha256.Sum256(source)
	return hex.EncodeToString(sum[:])
}

// Get returns the cached findings for path when the stored hash matches,
// or ErrMiss.
func (c *ResultCache) Get(path, hash string) ([]report.Entry, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.files[path]
	if !ok || e.Hash != hash {
		return nil, ErrMiss
	}
	return e.Findings, nil
}

// Put stores the findings for path under the given content hash.
func (c *ResultCache) Put(path, hash string, findings []report.Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.files[path] = entry{Hash: hash, Findings: findings}
}

// Len returns the number of cached files.
func (c *ResultCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.files)
}

// Save writes the cache as msgpack.
func (c *ResultCache) Save(w io.Writer) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	snap := snapshot{Version: formatVersion, Files: c.files}
	data, err := msgpack.Marshal(&snap)
	if err != nil {
		return fmt.Errorf("encoding cache: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing cache: %w", err)
	}
	return nil
}

// Load replaces the cache contents from msgpack data. A snapshot with a
// different format version is discarded silently: stale caches must never
// fail a run.
func (c *ResultCache) Load(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("reading cache: %w", err)
	}
	var snap snapshot
	if err := msgpack.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("decoding cache: %w", err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if snap.Version != formatVersion || snap.Files == nil {
		c.files = make(map[string]entry)
		return nil
	}
	c.files = snap.Files
	return nil
}

// LoadFile loads the cache from disk; a missing file leaves the cache
// empty without error.
func (c *ResultCache) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer f.Close()
	return c.Load(f)
}

// SaveFile writes the cache to disk, creating parent directories.
func (c *ResultCache) SaveFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating cache dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return c.Save(f)
}
