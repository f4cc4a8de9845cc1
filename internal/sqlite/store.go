// File path: internal/sqlite/store.go
// Package sqlite persists the document catalog so ingested material
// survives restarts even when chunk vectors live in memory.
package sqlite

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/studybuddy-ai/studybuddy/internal/common"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS documents (
	id TEXT PRIMARY KEY,
	kind TEXT NOT NULL,
	filename TEXT NOT NULL,
	chunk_count INTEGER NOT NULL,
	created_at TIMESTAMP NOT NULL
);`,
	`CREATE INDEX IF NOT EXISTS idx_documents_kind ON documents(kind);`,
	`CREATE INDEX IF NOT EXISTS idx_documents_created_at ON documents(created_at);`,
}

// Store wraps the catalog database handle.
type Store struct {
	db *sqlx.DB
}

// Open opens the catalog at path with default pool settings.
func Open(ctx context.Context, path string) (*Store, error) {
	cfg := Config{Path: path}
	cfg.applyDefaults()
	return OpenWithConfig(ctx, cfg)
}

// OpenWithConfig opens the catalog described by cfg and runs migrations.
func OpenWithConfig(ctx context.Context, cfg Config) (*Store, error) {
	cfg.applyDefaults()
	abs, err := filepath.Abs(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("resolve catalog path: %w", err)
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)", abs, cfg.BusyTimeout.Milliseconds())
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping catalog: %w", err)
	}
	store := &Store{db: db}
	if err := store.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	common.Logger().Debug("sqlite: catalog ready", "path", abs)
	return store, nil
}

func (s *Store) migrate(ctx context.Context) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migration: %w", err)
	}
	defer tx.Rollback()
	for _, stmt := range schemaStatements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply migration %q: %w", firstLine(stmt), err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration: %w", err)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func firstLine(stmt string) string {
	if idx := strings.IndexByte(stmt, '\n'); idx >= 0 {
		return strings.TrimSpace(stmt[:idx])
	}
	return strings.TrimSpace(stmt)
}
