// Package store keeps outline records in Postgres keyed by the content hash
// of the source document and a fingerprint of the settings that produced
// the record, so unchanged inputs are not rendered twice with the same
// settings.
package store

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver

	"github.com/tsawler/outliner/model"
)

// ErrNotFound is returned when no record matches a lookup
var ErrNotFound = errors.New("record not found")

// Record is one stored outline
type Record struct {
	ContentHash string

	// Settings fingerprints the renderer and heuristics that produced
	// Outline (see Fingerprint)
	Settings string

	Source      string
	Renderer    string
	Outline     model.OutlineRecord
	CreatedAt   time.Time
}

// Store is a Postgres-backed record store. It is safe for concurrent use.
type Store struct{ DB *sql.DB }

// New wraps an open database handle
func New(db *sql.DB) *Store { return &Store{DB: db} }

// Open connects to Postgres using the pgx driver and verifies the connection
func Open(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("database dsn is empty")
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(time.Hour)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return New(db), nil
}

// Close closes the underlying database handle
func (s *Store) Close() error {
	return s.DB.Close()
}

const schema = `
create table if not exists outline_records (
  content_hash text not null,
  settings     text not null default '',
  source       text not null,
  renderer     text not null,
  record_json  jsonb not null,
  created_at   timestamptz not null default now(),
  primary key (content_hash, settings)
)`

// Migrate creates the outline_records table when it does not exist
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.DB.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}

// Save inserts rec, replacing any record with the same content hash and
// settings
func (s *Store) Save(ctx context.Context, rec Record) error {
	if rec.ContentHash == "" {
		return fmt.Errorf("record has no content hash")
	}
	if rec.Outline.Outline == nil {
		rec.Outline.Outline = []model.HeadingEntry{}
	}

	js, err := json.Marshal(rec.Outline)
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}

	const q = `
insert into outline_records (content_hash, settings, source, renderer, record_json)
values ($1, $2, $3, $4, $5)
on conflict (content_hash, settings) do update
set source = excluded.source,
    renderer = excluded.renderer,
    record_json = excluded.record_json,
    created_at = now()`
	if _, err := s.DB.ExecContext(ctx, q, rec.ContentHash, rec.Settings, rec.Source, rec.Renderer, js); err != nil {
		return fmt.Errorf("failed to save record for %s: %w", rec.Source, err)
	}
	return nil
}

// FindByHash returns the record stored for a content hash under the given
// settings fingerprint
func (s *Store) FindByHash(ctx context.Context, hash, settings string) (Record, error) {
	const q = `
select content_hash, settings, source, renderer, record_json, created_at
from outline_records
where content_hash = $1 and settings = $2`

	var (
		rec Record
		js  []byte
	)
	err := s.DB.QueryRowContext(ctx, q, hash, settings).Scan(&rec.ContentHash, &rec.Settings, &rec.Source, &rec.Renderer, &js, &rec.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("failed to look up %s: %w", hash, err)
	}

	if err := json.Unmarshal(js, &rec.Outline); err != nil {
		// a corrupt row is treated as a miss so the document is re-rendered
		return Record{}, ErrNotFound
	}
	if rec.Outline.Outline == nil {
		rec.Outline.Outline = []model.HeadingEntry{}
	}
	return rec, nil
}

// Fingerprint returns the hex sha256 of the JSON encoding of settings.
// Records produced with different settings get different fingerprints.
func Fingerprint(settings any) (string, error) {
	js, err := json.Marshal(settings)
	if err != nil {
		return "", fmt.Errorf("failed to encode settings: %w", err)
	}
	sum := sha256.Sum256(js)
	return hex.EncodeToString(sum[:]), nil
}

// HashFile returns the hex sha256 of a file's contents
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	return HashReader(f)
}

// HashReader returns the hex sha256 of everything read from r
func HashReader(r io.Reader) (string, error) {
	h := sha256.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", fmt.Errorf("failed to hash: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
