// File path: internal/sqlite/store_test.go
package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.db")
	store, err := Open(context.Background(), path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestInsertAndGetDocument(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	rec := DocumentRecord{
		ID:         "doc-1",
		Kind:       "study_material",
		Filename:   "notes.pdf",
		ChunkCount: 12,
		CreatedAt:  time.Now().UTC().Truncate(time.Second),
	}
	if err := store.InsertDocument(ctx, rec); err != nil {
		t.Fatalf("insert: %v", err)
	}

	got, err := store.GetDocument(ctx, "doc-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Kind != rec.Kind || got.Filename != rec.Filename || got.ChunkCount != rec.ChunkCount {
		t.Fatalf("unexpected record: %+v", got)
	}
}

func TestGetDocumentNotFound(t *testing.T) {
	store := openTestStore(t)
	if _, err := store.GetDocument(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListDocumentsFiltersByKind(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Second)

	records := []DocumentRecord{
		{ID: "a", Kind: "study_material", Filename: "a.txt", ChunkCount: 1, CreatedAt: base.Add(-2 * time.Minute)},
		{ID: "b", Kind: "pyq", Filename: "b.txt", ChunkCount: 2, CreatedAt: base.Add(-time.Minute)},
		{ID: "c", Kind: "study_material", Filename: "c.txt", ChunkCount: 3, CreatedAt: base},
	}
	for _, rec := range records {
		if err := store.InsertDocument(ctx, rec); err != nil {
			t.Fatalf("insert %s: %v", rec.ID, err)
		}
	}

	all, err := store.ListDocuments(ctx, "")
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 records, got %d", len(all))
	}
	if all[0].ID != "c" {
		t.Fatalf("expected newest first, got %s", all[0].ID)
	}

	materials, err := store.ListDocuments(ctx, "study_material")
	if err != nil {
		t.Fatalf("list study_material: %v", err)
	}
	if len(materials) != 2 {
		t.Fatalf("expected 2 study_material records, got %d", len(materials))
	}
	for _, rec := range materials {
		if rec.Kind != "study_material" {
			t.Fatalf("unexpected kind %s", rec.Kind)
		}
	}
}

func TestDeleteDocument(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	rec := DocumentRecord{ID: "doc-del", Kind: "pyq", Filename: "old.txt", ChunkCount: 4, CreatedAt: time.Now().UTC()}
	if err := store.InsertDocument(ctx, rec); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := store.DeleteDocument(ctx, "doc-del"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := store.DeleteDocument(ctx, "doc-del"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestLoadConfigReadsEnvironment(t *testing.T) {
	t.Setenv("STUDYBUDDY_CATALOG_PATH", "custom.db")
	t.Setenv("STUDYBUDDY_CATALOG_BUSY_TIMEOUT", "2s")
	t.Setenv("STUDYBUDDY_CATALOG_MAX_OPEN_CONNS", "8")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Path != "custom.db" {
		t.Fatalf("path not applied: %q", cfg.Path)
	}
	if cfg.BusyTimeout != 2*time.Second {
		t.Fatalf("busy timeout not applied: %v", cfg.BusyTimeout)
	}
	if cfg.MaxOpenConns != 8 {
		t.Fatalf("max open conns not applied: %d", cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns != 2 {
		t.Fatalf("unset fields should keep defaults: %+v", cfg)
	}
}

func TestLoadConfigRejectsMalformedTimeout(t *testing.T) {
	t.Setenv("STUDYBUDDY_CATALOG_BUSY_TIMEOUT", "soon")
	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestOpenWithConfigAppliesSettings(t *testing.T) {
	cfg := Config{
		Path:         filepath.Join(t.TempDir(), "catalog.db"),
		BusyTimeout:  time.Second,
		MaxOpenConns: 2,
	}
	store, err := OpenWithConfig(context.Background(), cfg)
	if err != nil {
		t.Fatalf("open with config: %v", err)
	}
	defer store.Close()
	rec := DocumentRecord{ID: "cfg", Kind: "study_material", Filename: "cfg.txt", ChunkCount: 1, CreatedAt: time.Now().UTC()}
	if err := store.InsertDocument(context.Background(), rec); err != nil {
		t.Fatalf("insert: %v", err)
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.db")
	ctx := context.Background()

	first, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	rec := DocumentRecord{ID: "persist", Kind: "study_material", Filename: "p.txt", ChunkCount: 7, CreatedAt: time.Now().UTC()}
	if err := first.InsertDocument(ctx, rec); err != nil {
		t.Fatalf("insert: %v", err)
	}
	first.Close()

	second, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("second open: %v", err)
	}
	defer second.Close()
	if _, err := second.GetDocument(ctx, "persist"); err != nil {
		t.Fatalf("get after reopen: %v", err)
	}
}
