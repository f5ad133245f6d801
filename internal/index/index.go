// Package index keeps a SQLite history of processed completions so batch
// and watch runs can skip input they have already cleaned.
package index

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned by Lookup when no entry has the digest.
var ErrNotFound = errors.New("index: entry not found")

const schema = `
CREATE TABLE IF NOT EXISTS completions (
	id           TEXT PRIMARY KEY,
	digest       TEXT NOT NULL UNIQUE,
	source       TEXT NOT NULL DEFAULT '',
	content_type TEXT NOT NULL,
	aux_tags     TEXT NOT NULL DEFAULT '',
	input_bytes  INTEGER NOT NULL DEFAULT 0,
	code_bytes   INTEGER NOT NULL DEFAULT 0,
	truncated    INTEGER NOT NULL DEFAULT 0,
	output_path  TEXT NOT NULL DEFAULT '',
	archive_path TEXT NOT NULL DEFAULT '',
	created_at   INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_completions_created ON completions(created_at);
`

// Entry is one processed completion.
type Entry struct {
	ID          string
	Digest      string // SHA-256 of the raw input, hex
	Source      string // input path, or "-" for stdin
	ContentType string
	AuxTags     []string
	InputBytes  int
	CodeBytes   int
	Truncated   bool
	OutputPath  string
	ArchivePath string
	CreatedAt   time.Time
}

// Index is a handle on the history database. Safe for concurrent use.
type Index struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (creating if needed) the history database at path.
func Open(path string) (*Index, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create state dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	}
	// One connection serialises writers and keeps per-connection pragmas.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 10000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("index: %s: %w", p, err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create index schema: %w", err)
	}

	return &Index{db: db, now: time.Now}, nil
}

// Close releases the database.
func (idx *Index) Close() error {
	return idx.db.Close()
}

// Digest returns the hex SHA-256 of data.
func Digest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Record inserts e, or refreshes the existing entry with the same digest.
// The stored entry, with its ID and timestamp, is returned.
func (idx *Index) Record(ctx context.Context, e Entry) (Entry, error) {
	if e.Digest == "" {
		return Entry{}, errors.New("index: entry has no digest")
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = idx.now()
	}
	e.CreatedAt = e.CreatedAt.UTC()

	const q = `
INSERT INTO completions
	(id, digest, source, content_type, aux_tags, input_bytes, code_bytes,
	 truncated, output_path, archive_path, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(digest) DO UPDATE SET
	source = excluded.source,
	content_type = excluded.content_type,
	aux_tags = excluded.aux_tags,
	input_bytes = excluded.input_bytes,
	code_bytes = excluded.code_bytes,
	truncated = excluded.truncated,
	output_path = excluded.output_path,
	archive_path = excluded.archive_path,
	created_at = excluded.created_at`

	_, err := idx.db.ExecContext(ctx, q,
		e.ID, e.Digest, e.Source, e.ContentType, strings.Join(e.AuxTags, ","),
		e.InputBytes, e.CodeBytes, e.Truncated, e.OutputPath, e.ArchivePath,
		e.CreatedAt.UnixNano(),
	)
	if err != nil {
		return Entry{}, fmt.Errorf("record %s: %w", e.Source, err)
	}

	// On conflict the original id survives.
	stored, err := idx.Lookup(ctx, e.Digest)
	if err != nil {
		return Entry{}, err
	}
	return *stored, nil
}

// Has checks if a digest is already indexed.
func (idx *Index) Has(ctx context.Context, digest string) (bool, error) {
	var n int
	err := idx.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM completions WHERE digest = ?`, digest).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("query index: %w", err)
	}
	return n > 0, nil
}

// Lookup returns the entry for digest, or ErrNotFound.
func (idx *Index) Lookup(ctx context.Context, digest string) (*Entry, error) {
	row := idx.db.QueryRowContext(ctx, selectColumns+` WHERE digest = ?`, digest)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lookup %s: %w", digest, err)
	}
	return &e, nil
}

// Recent returns up to n entries, newest first. n <= 0 returns all.
func (idx *Index) Recent(ctx context.Context, n int) ([]Entry, error) {
	q := selectColumns + ` ORDER BY created_at DESC, rowid DESC`
	var args []any
	if n > 0 {
		q += ` LIMIT ?`
		args = append(args, n)
	}

	rows, err := idx.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query index: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Count returns the number of indexed completions.
func (idx *Index) Count(ctx context.Context) (int, error) {
	var n int
	if err := idx.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM completions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count index: %w", err)
	}
	return n, nil
}

const selectColumns = `
SELECT id, digest, source, content_type, aux_tags, input_bytes, code_bytes,
	truncated, output_path, archive_path, created_at
FROM completions`

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (Entry, error) {
	var (
		e       Entry
		aux     string
		created int64
	)
	err := s.Scan(&e.ID, &e.Digest, &e.Source, &e.ContentType, &aux,
		&e.InputBytes, &e.CodeBytes, &e.Truncated, &e.OutputPath,
		&e.ArchivePath, &created)
	if err != nil {
		return Entry{}, err
	}
	if aux != "" {
		e.AuxTags = strings.Split(aux, ",")
	}
	e.CreatedAt = time.Unix(0, created).UTC()
	return e, nil
}
