package testsupport

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

// NewSQLiteMemoryDB opens the shared in-memory SQLite database.
func NewSQLiteMemoryDB() (*sql.DB, error) {
	return sql.Open("sqlite3", "file::memory:?cache=shared")
}

// NewIsolatedSQLiteDB opens an in-memory database private to name.
func NewIsolatedSQLiteDB(name string) (*sql.DB, error) {
	name = strings.NewReplacer("/", "_", " ", "_").Replace(name)
	return sql.Open("sqlite3", fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
}

// NewBunDB returns a bun handle on an isolated in-memory SQLite database named
// after the running test, with tables created for models. The handle is closed
// on cleanup.
func NewBunDB(t testing.TB, models ...any) *bun.DB {
	t.Helper()

	sqlDB, err := NewIsolatedSQLiteDB(t.Name())
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	db := bun.NewDB(sqlDB, sqlitedialect.New())
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	for _, model := range models {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			t.Fatalf("create table %T: %v", model, err)
		}
	}
	return db
}
