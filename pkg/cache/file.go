package cache

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// entryMagic starts every file written by FileCache. It is followed by the
// expiry as big-endian Unix nanoseconds (0 for none) and then the value.
var entryMagic = []byte("fmc1")

const (
	entryExt    = ".entry"
	entryHeader = 4 + 8
)

// FileCache keeps one file per key under a directory, fanned out by the
// first two characters of the key hash. It is the CLI's default cache.
type FileCache struct {
	dir string
	now func() time.Time
}

// DefaultDir returns the per-user cache directory, usually
// ~/.cache/factionmap.
func DefaultDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "factionmap"), nil
}

// NewFileCache opens a cache rooted at dir, creating it if needed.
func NewFileCache(dir string) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileCache{dir: dir, now: time.Now}, nil
}

func (c *FileCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	path := c.path(key)
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	data, expires, ok := decodeEntry(raw)
	if !ok || (!expires.IsZero() && c.now().After(expires)) {
		_ = os.Remove(path)
		return nil, false, nil
	}
	return data, true, nil
}

func (c *FileCache) Set(_ context.Context, key string, data []byte, ttl time.Duration) error {
	var expires time.Time
	if ttl > 0 {
		expires = c.now().Add(ttl)
	}

	path := c.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return writeAtomic(path, encodeEntry(data, expires))
}

// writeAtomic writes data to a fresh temp file next to path and renames it
// into place, so readers and concurrent writers of the same key only ever
// see a complete entry.
func writeAtomic(path string, data []byte) error {
	f, err := os.CreateTemp(filepath.Dir(path), "*.tmp")
	if err != nil {
		return err
	}
	tmp := f.Name()
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Chmod(tmp, 0o644); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

func (c *FileCache) Delete(_ context.Context, key string) error {
	if err := os.Remove(c.path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Clear removes every entry and reports how many there were. It stops
// early when ctx is done.
func (c *FileCache) Clear(ctx context.Context) (int, error) {
	n := 0
	err := filepath.WalkDir(c.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != entryExt {
			return nil
		}
		if err := os.Remove(path); err != nil {
			return err
		}
		n++
		return nil
	})
	return n, err
}

// Dir returns the cache directory.
func (c *FileCache) Dir() string { return c.dir }

func (c *FileCache) Close() error { return nil }

func (c *FileCache) path(key string) string {
	h := Hash([]byte(key))
	return filepath.Join(c.dir, h[:2], h[2:]+entryExt)
}

func encodeEntry(data []byte, expires time.Time) []byte {
	buf := make([]byte, entryHeader, entryHeader+len(data))
	copy(buf, entryMagic)
	if !expires.IsZero() {
		binary.BigEndian.PutUint64(buf[4:], uint64(expires.UnixNano()))
	}
	return append(buf, data...)
}

func decodeEntry(raw []byte) (data []byte, expires time.Time, ok bool) {
	if len(raw) < entryHeader || !bytes.Equal(raw[:4], entryMagic) {
		return nil, time.Time{}, false
	}
	if ns := binary.BigEndian.Uint64(raw[4:entryHeader]); ns != 0 {
		expires = time.Unix(0, int64(ns))
	}
	return raw[entryHeader:], expires, true
}

var (
	_ Cache   = (*FileCache)(nil)
	_ Clearer = (*FileCache)(nil)
)
