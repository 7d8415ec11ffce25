package pages_test

import (
	"context"
	"testing"

	"github.com/goliatone/go-cms-zones/internal/pages"
	"github.com/goliatone/go-cms-zones/internal/versioning"
	"github.com/goliatone/go-cms-zones/pkg/testsupport"
)

func TestBunRouteTable(t *testing.T) {
	ctx := context.Background()
	db := testsupport.NewBunDB(t, (*pages.Page)(nil))
	f := newFixture(pages.NewBunRepository(db))

	home, err := f.store.Create(ctx, publishedPage("Home", "/"))
	if err != nil {
		t.Fatalf("create home: %v", err)
	}
	if _, err := f.store.Create(ctx, publishedPage("Blog", "/Blog")); err != nil {
		t.Fatalf("create blog: %v", err)
	}

	got, err := f.table.GetByRoute(ctx, "/blog/")
	if err != nil {
		t.Fatalf("get by route: %v", err)
	}
	if got.Title != "Blog" || got.Route != "/blog" {
		t.Fatalf("unexpected page %q at %q", got.Title, got.Route)
	}

	if ok, err := f.table.IsRouteAvailable(ctx, "/blog", nil); err != nil || ok {
		t.Fatalf("expected /blog taken, got %v %v", ok, err)
	}
	master := home.MasterID
	if ok, err := f.table.IsRouteAvailable(ctx, "/", &master); err != nil || !ok {
		t.Fatalf("expected root available to its owner, got %v %v", ok, err)
	}

	home.IsPublished = false
	if _, err := f.store.Update(ctx, home); err != nil {
		t.Fatalf("update home: %v", err)
	}
	root, err := f.table.GetByRoute(ctx, "/")
	if err != nil {
		t.Fatalf("root lookup: %v", err)
	}
	if root.Version != 0 {
		t.Fatalf("expected published version 0 of root, got %d", root.Version)
	}
	if _, err := f.table.GetByRoute(ctx, "/missing"); !versioning.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}
