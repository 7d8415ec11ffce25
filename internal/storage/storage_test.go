package storage_test

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-cms-zones/internal/pages"
	"github.com/goliatone/go-cms-zones/internal/storage"
	"github.com/goliatone/go-cms-zones/internal/versioning"
	"github.com/google/uuid"
)

func TestOpenRejectsUnknownDriver(t *testing.T) {
	t.Parallel()
	if _, err := storage.Open(context.Background(), storage.Config{Driver: "mongo"}); !errors.Is(err, storage.ErrDriverUnsupported) {
		t.Fatalf("expected unsupported driver, got %v", err)
	}
	if _, err := storage.Open(context.Background(), storage.Config{Driver: "postgres"}); !errors.Is(err, storage.ErrDSNRequired) {
		t.Fatalf("expected dsn required, got %v", err)
	}
}

func TestCreateSchemaEnforcesUniqueVersions(t *testing.T) {
	ctx := context.Background()
	db, err := storage.Open(ctx, storage.Config{Driver: "sqlite3", DSN: "file:storage_schema?mode=memory&cache=shared", Debug: true})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := storage.CreateSchema(ctx, db); err != nil {
		t.Fatalf("create schema: %v", err)
	}
	if err := storage.CreateSchema(ctx, db); err != nil {
		t.Fatalf("create schema twice: %v", err)
	}

	store := pages.NewStore(pages.NewBunRepository(db))
	page := &pages.Page{Route: "/", ControllerName: "GenericPage"}
	page.Title = "Home"
	if _, err := store.Create(ctx, page); err != nil {
		t.Fatalf("create page: %v", err)
	}

	clash := pages.Clone(page)
	clash.ContentEntity = versioning.ContentEntity{
		ID:       uuid.New(),
		MasterID: page.MasterID,
		Version:  page.Version,
		Title:    "Clash",
	}
	if _, err := db.NewInsert().Model(clash).Exec(ctx); err == nil {
		t.Fatalf("expected duplicate master version to be rejected")
	}
}
