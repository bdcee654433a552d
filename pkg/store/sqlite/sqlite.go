// Package sqlite stores dataset snapshots in a local SQLite file.
//
// Each snapshot is one row of the snapshots table: the JSON document,
// zstd-compressed, with its BLAKE3 hash. Saving an unchanged document does
// not touch the row, so updated_at records the last real change.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zstd"
	_ "modernc.org/sqlite" // pure-Go driver

	"github.com/matzehuels/factionmap/pkg/cache"
	"github.com/matzehuels/factionmap/pkg/core/family"
	"github.com/matzehuels/factionmap/pkg/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
    key        TEXT PRIMARY KEY,
    data       BLOB NOT NULL,
    hash       TEXT NOT NULL,
    updated_at TEXT NOT NULL
);
`

// Store is a SQLite-backed store.Store.
type Store struct {
	db  *sql.DB
	enc *zstd.Encoder
	dec *zstd.Decoder
}

// Open opens (or creates) the database at path in WAL mode.
func Open(ctx context.Context, path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("sqlite: create dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open database: %w", err)
	}
	// one writer; avoids SQLITE_BUSY between pooled connections
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{"PRAGMA journal_mode=WAL", "PRAGMA busy_timeout=5000"} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("sqlite: %s: %w", pragma, err)
		}
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: create schema: %w", err)
	}

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		enc.Close()
		db.Close()
		return nil, fmt.Errorf("sqlite: zstd decoder: %w", err)
	}
	return &Store{db: db, enc: enc, dec: dec}, nil
}

func (s *Store) SaveFamilies(ctx context.Context, fs []family.Family) error {
	return s.put(ctx, store.KeyFamilies, fs)
}

func (s *Store) LoadFamilies(ctx context.Context) ([]family.Family, error) {
	var fs []family.Family
	err := s.get(ctx, store.KeyFamilies, &fs)
	return fs, err
}

func (s *Store) SaveEvents(ctx context.Context, es []family.HistoricalEvent) error {
	return s.put(ctx, store.KeyEvents, es)
}

func (s *Store) LoadEvents(ctx context.Context) ([]family.HistoricalEvent, error) {
	var es []family.HistoricalEvent
	err := s.get(ctx, store.KeyEvents, &es)
	return es, err
}

// Info describes a stored snapshot.
type Info struct {
	Key       string
	Hash      string
	Size      int
	UpdatedAt time.Time
}

// Stat returns metadata for key. ok is false if nothing was saved.
func (s *Store) Stat(ctx context.Context, key string) (info Info, ok bool, err error) {
	const q = `SELECT hash, length(data), updated_at FROM snapshots WHERE key = ?`
	info.Key = key
	var ts string
	err = s.db.QueryRowContext(ctx, q, key).Scan(&info.Hash, &info.Size, &ts)
	if errors.Is(err, sql.ErrNoRows) {
		return info, false, nil
	}
	if err != nil {
		return info, false, fmt.Errorf("sqlite: stat %s: %w", key, err)
	}
	if info.UpdatedAt, err = time.Parse(time.RFC3339Nano, ts); err != nil {
		return info, false, fmt.Errorf("sqlite: stat %s: bad timestamp %q", key, ts)
	}
	return info, true, nil
}

func (s *Store) put(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("sqlite: encode %s: %w", key, err)
	}
	const q = `
		INSERT INTO snapshots (key, data, hash, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			data       = excluded.data,
			hash       = excluded.hash,
			updated_at = excluded.updated_at
		WHERE snapshots.hash != excluded.hash`
	blob := s.enc.EncodeAll(raw, nil)
	if _, err := s.db.ExecContext(ctx, q, key, blob, cache.Hash(raw), time.Now().UTC().Format(time.RFC3339Nano)); err != nil {
		return fmt.Errorf("sqlite: save %s: %w", key, err)
	}
	return nil
}

func (s *Store) get(ctx context.Context, key string, v any) error {
	var blob []byte
	err := s.db.QueryRowContext(ctx, `SELECT data FROM snapshots WHERE key = ?`, key).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("sqlite: load %s: %w", key, err)
	}
	raw, err := s.dec.DecodeAll(blob, nil)
	if err != nil {
		return fmt.Errorf("sqlite: decompress %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("sqlite: decode %s: %w", key, err)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	s.dec.Close()
	_ = s.enc.Close()
	return s.db.Close()
}

var _ store.Store = (*Store)(nil)
