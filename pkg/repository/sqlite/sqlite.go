// Package sqlite implements the metadata repository on the relational store
// written by the ingestion pipeline. The datasets table is read-only to the
// core; only the consult audit log is written here.
package sqlite

import (
	"context"
	"database/sql"

	"github.com/m-mizutani/goerr/v2"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/diar-analytics/majlis/pkg/domain/interfaces"
	"github.com/diar-analytics/majlis/pkg/domain/model"
)

type Store struct {
	db *sql.DB
}

var _ interfaces.Repository = &Store{}

// New opens the metadata database. WAL mode keeps concurrent consult-log
// writes from blocking reads.
func New(path string) (*Store, error) {
	if path == "" {
		return nil, goerr.New("sqlite database path is required")
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open database", goerr.V("path", path))
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, goerr.Wrap(err, "failed to migrate database", goerr.V("path", path))
	}

	return s, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the tables the core owns. The datasets table schema mirrors
// what the ingestion pipeline writes; creating it here only serves empty
// development databases, migrations of the real store are not managed by the
// core.
func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS datasets (
			id TEXT PRIMARY KEY,
			source_name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			category TEXT NOT NULL,
			categorization_confidence INTEGER NOT NULL DEFAULT 0,
			source_type TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS consult_logs (
			id TEXT PRIMARY KEY,
			question TEXT NOT NULL,
			strategy TEXT NOT NULL,
			agent_count INTEGER NOT NULL,
			source_count INTEGER NOT NULL,
			warning_count INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_consult_logs_created_at ON consult_logs (created_at DESC)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return goerr.Wrap(err, "failed to execute migration", goerr.V("stmt", stmt))
		}
	}
	return nil
}

// SeedDatasets inserts dataset rows directly. Development and test helper;
// the production table is populated by the ingestion pipeline.
func (s *Store) SeedDatasets(ctx context.Context, datasets ...*model.Dataset) error {
	for _, d := range datasets {
		_, err := s.db.ExecContext(ctx,
			`INSERT OR REPLACE INTO datasets (id, source_name, description, category, categorization_confidence, source_type)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			d.ID, d.Title, d.Description, d.Category.String(), d.Confidence, d.SourceType.String())
		if err != nil {
			return goerr.Wrap(err, "failed to seed dataset", goerr.V("id", d.ID))
		}
	}
	return nil
}

func (s *Store) Datasets() interfaces.DatasetRepository {
	return &datasetRepository{db: s.db}
}

func (s *Store) ConsultLogs() interfaces.ConsultLogRepository {
	return &consultLogRepository{db: s.db}
}
