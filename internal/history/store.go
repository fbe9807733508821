// Package history persists scan summaries into a local SQLite database so
// runs can be compared over time.
package history

import (
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/CaptainMirage/drivescan/internal/analyzer"
)

//go:embed init.sql
var initSQL string

// ErrNotFound is returned when no stored run matches the requested id.
var ErrNotFound = errors.New("run not found")

// RunMeta summarizes one stored run without decoding its payload.
type RunMeta struct {
	ID        string
	CreatedAt time.Time
	Volumes   int
	Files     int64
	Bytes     int64
}

// Store is a handle to the scan history database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the history database at path and applies the schema.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}

	for _, pragma := range []string{
		`PRAGMA journal_mode = WAL`,
		`PRAGMA busy_timeout = 5000`,
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()

			return nil, fmt.Errorf("applying %s: %w", pragma, err)
		}
	}

	if _, err := db.Exec(initSQL); err != nil {
		db.Close()

		return nil, fmt.Errorf("applying schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save stores one run and returns its id.
func (s *Store) Save(summary *analyzer.Summary) (string, error) {
	payload, err := json.Marshal(summary)
	if err != nil {
		return "", fmt.Errorf("encoding summary: %w", err)
	}

	var files, bytes int64

	for _, report := range summary.Reports {
		files += report.FileCount
		bytes += report.TotalBytes
	}

	id := uuid.NewString()

	_, err = s.db.Exec(
		`INSERT INTO runs (id, created_at, volumes, files, bytes, summary_json)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id, time.Now().Unix(), len(summary.Reports), files, bytes, string(payload),
	)
	if err != nil {
		return "", fmt.Errorf("inserting run: %w", err)
	}

	return id, nil
}

// List returns metadata for stored runs, newest first.
func (s *Store) List(limit int) ([]RunMeta, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, created_at, volumes, files, bytes
		 FROM runs ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var out []RunMeta

	for rows.Next() {
		var (
			meta    RunMeta
			created int64
		)

		if err := rows.Scan(&meta.ID, &created, &meta.Volumes, &meta.Files, &meta.Bytes); err != nil {
			return nil, fmt.Errorf("scanning run row: %w", err)
		}

		meta.CreatedAt = time.Unix(created, 0)
		out = append(out, meta)
	}

	return out, rows.Err()
}

// Get loads a stored summary by id. A unique id prefix is accepted, so runs
// can be addressed by the first characters shown in the listing.
func (s *Store) Get(id string) (*analyzer.Summary, error) {
	rows, err := s.db.Query(
		`SELECT id, summary_json FROM runs WHERE id LIKE ? LIMIT 2`, id+"%")
	if err != nil {
		return nil, fmt.Errorf("querying run %q: %w", id, err)
	}
	defer rows.Close()

	var payloads []string

	for rows.Next() {
		var fullID, payload string

		if err := rows.Scan(&fullID, &payload); err != nil {
			return nil, fmt.Errorf("scanning run row: %w", err)
		}

		payloads = append(payloads, payload)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	switch len(payloads) {
	case 0:
		return nil, fmt.Errorf("run %q: %w", id, ErrNotFound)
	case 1:
	default:
		return nil, fmt.Errorf("run id %q is ambiguous", id)
	}

	var summary analyzer.Summary
	if err := json.Unmarshal([]byte(payloads[0]), &summary); err != nil {
		return nil, fmt.Errorf("decoding summary: %w", err)
	}

	return &summary, nil
}
