// Package casestore persists investigations in a SQLite database.
package casestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // sqlite3 driver

	"github.com/codeGROOVE-dev/sleuth/pkg/result"
)

// ErrNotFound is returned when no case has the requested ID.
var ErrNotFound = errors.New("case not found")

var schema = []string{
	`CREATE TABLE IF NOT EXISTS cases (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		query TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS results (
		case_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		id TEXT NOT NULL,
		url TEXT NOT NULL,
		domain TEXT NOT NULL,
		category TEXT NOT NULL,
		confidence REAL NOT NULL,
		data TEXT NOT NULL,
		PRIMARY KEY (case_id, position)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_results_domain ON results(domain)`,
	`CREATE INDEX IF NOT EXISTS idx_results_category ON results(category)`,
}

// Store is a SQLite-backed case repository.
type Store struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// Option configures a Store.
type Option func(*config)

type config struct {
	logger *slog.Logger
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// Open connects to the database at path, creating the schema if needed.
func Open(path string, opts ...Option) (*Store, error) {
	cfg := &config{logger: slog.Default()}
	for _, opt := range opts {
		opt(cfg)
	}

	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open case database: %w", err)
	}
	// SQLite allows one writer; a single connection also keeps :memory: databases shared.
	db.SetMaxOpenConns(1)

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close() //nolint:errcheck,gosec // already failing
			return nil, fmt.Errorf("create schema: %w", err)
		}
	}
	cfg.logger.Debug("case store opened", "path", path)
	return &Store{db: db, logger: cfg.logger}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Create stores a new empty case and returns it.
func (s *Store) Create(ctx context.Context, name, query string) (*result.SearchCase, error) {
	c := result.NewCase(name, query)
	if err := s.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Save writes c and replaces its stored results. UpdatedAt and Statistics
// are refreshed.
func (s *Store) Save(ctx context.Context, c *result.SearchCase) error {
	if c == nil || c.ID == "" {
		return errors.New("save case: missing id")
	}
	c.UpdatedAt = time.Now()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = c.UpdatedAt
	}
	c.Statistics = result.ComputeStatistics(c.Results)

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx, `INSERT INTO cases (id, name, query, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, query = excluded.query, updated_at = excluded.updated_at`,
		c.ID, c.Name, c.Query, c.CreatedAt.UTC(), c.UpdatedAt.UTC()); err != nil {
		return fmt.Errorf("save case %s: %w", c.ID, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM results WHERE case_id = ?`, c.ID); err != nil {
		return fmt.Errorf("clear results of %s: %w", c.ID, err)
	}

	stmt, err := tx.PreparexContext(ctx, `INSERT INTO results (case_id, position, id, url, domain, category, confidence, data)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare result insert: %w", err)
	}
	defer stmt.Close() //nolint:errcheck // closed with the transaction

	pos := 0
	for _, r := range c.Results {
		if r == nil {
			continue
		}
		data, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("encode result %s: %w", r.ID, err)
		}
		if _, err := stmt.ExecContext(ctx, c.ID, pos, r.ID, r.URL, r.Domain, string(r.Category), r.ConfidenceScore, string(data)); err != nil {
			return fmt.Errorf("save result %s: %w", r.ID, err)
		}
		pos++
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit case %s: %w", c.ID, err)
	}
	s.logger.DebugContext(ctx, "case saved", "id", c.ID, "results", pos)
	return nil
}

type caseRow struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	Query     string    `db:"query"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Load returns the case with id and all of its results in saved order.
func (s *Store) Load(ctx context.Context, id string) (*result.SearchCase, error) {
	var row caseRow
	err := s.db.GetContext(ctx, &row, `SELECT id, name, query, created_at, updated_at FROM cases WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load case %s: %w", id, err)
	}

	var blobs []string
	if err := s.db.SelectContext(ctx, &blobs, `SELECT data FROM results WHERE case_id = ? ORDER BY position`, id); err != nil {
		return nil, fmt.Errorf("load results of %s: %w", id, err)
	}

	c := &result.SearchCase{
		ID:        row.ID,
		Name:      row.Name,
		Query:     row.Query,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
		Results:   make([]*result.SearchResult, 0, len(blobs)),
	}
	for _, b := range blobs {
		var r result.SearchResult
		if err := json.Unmarshal([]byte(b), &r); err != nil {
			return nil, fmt.Errorf("decode result of %s: %w", id, err)
		}
		c.Results = append(c.Results, &r)
	}
	c.Statistics = result.ComputeStatistics(c.Results)
	return c, nil
}

// Summary is a case without its results.
type Summary struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Query       string    `db:"query" json:"query"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
	ResultCount int       `db:"result_count" json:"result_count"`
}

// List returns every case, most recently updated first.
func (s *Store) List(ctx context.Context) ([]Summary, error) {
	out := []Summary{}
	err := s.db.SelectContext(ctx, &out, `SELECT c.id, c.name, c.query, c.created_at, c.updated_at,
		(SELECT COUNT(*) FROM results r WHERE r.case_id = c.id) AS result_count
		FROM cases c ORDER BY c.updated_at DESC, c.id`)
	if err != nil {
		return nil, fmt.Errorf("list cases: %w", err)
	}
	return out, nil
}
