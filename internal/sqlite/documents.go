// File path: internal/sqlite/documents.go
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound reports a catalog lookup for an unknown document id.
var ErrNotFound = errors.New("sqlite: document not found")

// DocumentRecord is a row in the documents catalog.
type DocumentRecord struct {
	ID         string    `db:"id" json:"id"`
	Kind       string    `db:"kind" json:"kind"`
	Filename   string    `db:"filename" json:"filename"`
	ChunkCount int       `db:"chunk_count" json:"chunk_count"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// InsertDocument records a freshly ingested document.
func (s *Store) InsertDocument(ctx context.Context, rec DocumentRecord) error {
	const query = `INSERT INTO documents (id, kind, filename, chunk_count, created_at)
VALUES (:id, :kind, :filename, :chunk_count, :created_at)`
	if _, err := s.db.NamedExecContext(ctx, query, rec); err != nil {
		return fmt.Errorf("insert document %s: %w", rec.ID, err)
	}
	return nil
}

// GetDocument fetches a single catalog row by id.
func (s *Store) GetDocument(ctx context.Context, id string) (DocumentRecord, error) {
	const query = `SELECT id, kind, filename, chunk_count, created_at FROM documents WHERE id = ?`
	var rec DocumentRecord
	if err := s.db.GetContext(ctx, &rec, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return DocumentRecord{}, ErrNotFound
		}
		return DocumentRecord{}, fmt.Errorf("get document %s: %w", id, err)
	}
	return rec, nil
}

// ListDocuments returns catalog rows newest first, optionally filtered by kind.
func (s *Store) ListDocuments(ctx context.Context, kind string) ([]DocumentRecord, error) {
	var (
		recs []DocumentRecord
		err  error
	)
	if kind == "" {
		const query = `SELECT id, kind, filename, chunk_count, created_at FROM documents ORDER BY created_at DESC, id`
		err = s.db.SelectContext(ctx, &recs, query)
	} else {
		const query = `SELECT id, kind, filename, chunk_count, created_at FROM documents WHERE kind = ? ORDER BY created_at DESC, id`
		err = s.db.SelectContext(ctx, &recs, query, kind)
	}
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return recs, nil
}

// DeleteDocument removes a catalog row. Missing ids report ErrNotFound.
func (s *Store) DeleteDocument(ctx context.Context, id string) error {
	const query = `DELETE FROM documents WHERE id = ?`
	res, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete document %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete document %s: %w", id, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
