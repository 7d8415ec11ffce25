package admin_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-cms-zones/internal/admin"
	"github.com/goliatone/go-cms-zones/internal/content"
	"github.com/goliatone/go-cms-zones/internal/pages"
	"github.com/goliatone/go-cms-zones/internal/registry"
	"github.com/goliatone/go-cms-zones/internal/versioning"
	"github.com/goliatone/go-cms-zones/internal/zones"
	"github.com/goliatone/go-cms-zones/pkg/testsupport"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

type LandingController struct{}

type landingConfig struct {
	Heading string `json:"heading" cms:"required;maxlen=20"`
}

type CardViewComponent struct{}

type cardConfig struct {
	Columns int `json:"columns" cms:"min=1;max=4"`
}

func controllerRegistry() *registry.Registry {
	return registry.Build(registry.KindController, []registry.Module{{
		Name: "test",
		Register: func(b *registry.Builder) error {
			return b.Add(registry.Registration{Renderer: LandingController{}, Config: landingConfig{}})
		},
	}})
}

func componentRegistry() *registry.Registry {
	return registry.Build(registry.KindComponent, []registry.Module{{
		Name: "test",
		Register: func(b *registry.Builder) error {
			return b.Add(registry.Registration{Renderer: CardViewComponent{}, Config: cardConfig{}})
		},
	}})
}

func newPages() *admin.Pages {
	repo := pages.NewMemoryRepository()
	clock := testsupport.NewClock(time.Time{})
	return admin.NewPages(pages.NewStore(repo, versioning.WithClock(clock.Now)), pages.NewRouteTable(repo), controllerRegistry())
}

func page(title, route, controller, config string) *pages.Page {
	p := &pages.Page{Route: route, ControllerName: controller, ConfigurationJSON: config}
	p.Title = title
	p.IsPublished = true
	return p
}

func TestPagesRejectsTakenRoute(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newPages()

	about, err := svc.Save(ctx, page("About", "/About/", "landing", `{"heading":"hi"}`))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if about.Route != "/about" || about.ControllerName != "Landing" {
		t.Fatalf("expected normalized page, got route=%q controller=%q", about.Route, about.ControllerName)
	}

	_, err = svc.Save(ctx, page("Other", "/about", "Landing", ""))
	if !errors.Is(err, admin.ErrRouteUnavailable) {
		t.Fatalf("expected ErrRouteUnavailable, got %v", err)
	}
	if !goerrors.IsCategory(err, goerrors.CategoryConflict) {
		t.Fatalf("expected conflict category, got %v", err)
	}
	if !strings.Contains(err.Error(), `route "/about" is already used by another page`) {
		t.Fatalf("unexpected message %q", err.Error())
	}

	about.Title = "About us"
	if _, err := svc.Save(ctx, about); err != nil {
		t.Fatalf("re-save under own route: %v", err)
	}
	if about.Version != 1 {
		t.Fatalf("expected version 1, got %d", about.Version)
	}
	if ok, _ := svc.IsRouteAvailable(ctx, "/about", &about.MasterID); !ok {
		t.Fatalf("expected route available to its owner")
	}
}

func TestPagesValidatesControllerAndConfiguration(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newPages()

	_, err := svc.Save(ctx, page("X", "/x", "Missing", ""))
	if !errors.Is(err, admin.ErrUnknownController) || !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected unknown controller validation error, got %v", err)
	}

	_, err = svc.Save(ctx, page("X", "/x", "Landing", `{"heading":""}`))
	fields, ok := goerrors.GetValidationErrors(err)
	if !ok || len(fields) != 1 || fields[0].Field != "configuration_json" {
		t.Fatalf("expected configuration issue, got %v", err)
	}

	_, err = svc.Save(ctx, page("X", "/x", "Landing", `{"heading":42}`))
	fields, ok = goerrors.GetValidationErrors(err)
	if !ok || len(fields) != 1 || !strings.Contains(fields[0].Message, "expected string") {
		t.Fatalf("expected schema type issue, got %v", err)
	}

	_, err = svc.Save(ctx, page("", "/x", "Landing", ""))
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected title validation error, got %v", err)
	}

	issues, err := svc.ValidateConfiguration("Landing", "{ not json")
	if err != nil || len(issues) != 1 || !strings.Contains(issues[0], "invalid JSON") {
		t.Fatalf("expected single JSON issue, got %v %v", issues, err)
	}
}

func TestServiceVersionsAndDelete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newPages()

	home, err := svc.Save(ctx, page("Home", "/", "Landing", ""))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	first := home.ID
	home.Title = "Home v1"
	if _, err := svc.Save(ctx, home); err != nil {
		t.Fatalf("update: %v", err)
	}

	stale, _ := svc.Get(ctx, first)
	stale.Title = "stale"
	if _, err := svc.Save(ctx, stale); !goerrors.IsCategory(err, goerrors.CategoryConflict) {
		t.Fatalf("expected version conflict, got %v", err)
	}

	versions, err := svc.Versions(ctx, first)
	if err != nil || len(versions) != 2 {
		t.Fatalf("expected two versions, got %d err=%v", len(versions), err)
	}

	if err := svc.Delete(ctx, home.ID, true, false); err != nil {
		t.Fatalf("soft delete: %v", err)
	}
	rows, total, err := svc.List(ctx, admin.ListOptions{})
	if err != nil || total != 0 || len(rows) != 0 {
		t.Fatalf("expected deleted page hidden, got %d", total)
	}
	_, total, _ = svc.List(ctx, admin.ListOptions{IncludeDeleted: true})
	if total != 1 {
		t.Fatalf("expected deleted page listed on request, got %d", total)
	}

	if err := svc.Delete(ctx, uuid.New(), false, false); !goerrors.IsCategory(err, goerrors.CategoryNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := svc.GetByMaster(ctx, uuid.New()); !goerrors.IsCategory(err, goerrors.CategoryNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListPaging(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newPages()
	for _, route := range []string{"/a", "/b", "/c"} {
		if _, err := svc.Save(ctx, page(route, route, "Landing", "")); err != nil {
			t.Fatalf("save %s: %v", route, err)
		}
	}
	rows, total, err := svc.List(ctx, admin.ListOptions{Offset: 1, Limit: 1})
	if err != nil || total != 3 || len(rows) != 1 || rows[0].Route != "/b" {
		t.Fatalf("unexpected page of results: total=%d rows=%v err=%v", total, rows, err)
	}
}

func newZones() *admin.Zones {
	clock := testsupport.NewClock(time.Time{})
	svc := zones.NewService(zones.NewMemoryZoneRepository(), zones.NewMemoryItemRepository(), zones.WithClock(clock.Now))
	return admin.NewZones(svc, componentRegistry())
}

func zone(name string) *zones.Zone {
	z := &zones.Zone{Name: name}
	z.Title = name
	z.IsPublished = true
	return z
}

func TestZonesNameUniqueness(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newZones()

	hero, err := svc.Save(ctx, zone("hero"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := svc.Save(ctx, zone("hero")); !errors.Is(err, admin.ErrZoneNameUnavailable) {
		t.Fatalf("expected name conflict, got %v", err)
	}
	if _, err := svc.Save(ctx, zone("Hero")); err != nil {
		t.Fatalf("expected case-sensitive names, got %v", err)
	}
	hero.Description = "top"
	if _, err := svc.Save(ctx, hero); err != nil {
		t.Fatalf("re-save: %v", err)
	}
}

func TestZonesItemValidation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newZones()
	hero, err := svc.Save(ctx, zone("hero"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	_, err = svc.AddItem(ctx, hero.ID, &zones.Item{ComponentName: "card", ComponentPropertiesJSON: "{ not json"})
	fields, ok := goerrors.GetValidationErrors(err)
	if !ok || len(fields) != 1 || !strings.Contains(fields[0].Message, "invalid JSON") {
		t.Fatalf("expected JSON parse issue, got %v", err)
	}

	_, err = svc.AddItem(ctx, hero.ID, &zones.Item{ComponentName: "card", ComponentPropertiesJSON: `{"columns":"two"}`})
	fields, ok = goerrors.GetValidationErrors(err)
	if !ok || len(fields) != 1 || fields[0].Message != "columns: expected integer, but got string" {
		t.Fatalf("expected schema type issue, got %v", err)
	}

	if _, err := svc.AddItem(ctx, hero.ID, &zones.Item{ComponentName: "Unknown"}); !errors.Is(err, admin.ErrUnknownComponent) {
		t.Fatalf("expected unknown component, got %v", err)
	}
	if _, err := svc.AddItem(ctx, uuid.New(), &zones.Item{ComponentName: "Card"}); !goerrors.IsCategory(err, goerrors.CategoryNotFound) {
		t.Fatalf("expected missing zone, got %v", err)
	}

	item, err := svc.AddItem(ctx, hero.ID, &zones.Item{ComponentName: "card", ComponentPropertiesJSON: `{"columns":2}`, IsActive: true})
	if err != nil {
		t.Fatalf("add item: %v", err)
	}
	if item.ComponentName != "Card" || item.Ordinal != 1 {
		t.Fatalf("unexpected item %+v", item)
	}

	item.ComponentPropertiesJSON = `{"columns":9}`
	if err := svc.UpdateItem(ctx, item); !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected bound violation, got %v", err)
	}
	if err := svc.RemoveItem(ctx, uuid.New()); !goerrors.IsCategory(err, goerrors.CategoryNotFound) {
		t.Fatalf("expected missing item, got %v", err)
	}
}

func TestZonesDeleteHistoryRemovesItems(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newZones()
	hero, _ := svc.Save(ctx, zone("hero"))
	if _, err := svc.AddItem(ctx, hero.ID, &zones.Item{ComponentName: "Card"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	got, err := svc.Get(ctx, hero.MasterID)
	if err != nil || len(got.Items) != 1 {
		t.Fatalf("expected one item, got %v", err)
	}
	if err := svc.Delete(ctx, hero.ID, false, true); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Get(ctx, hero.MasterID); !goerrors.IsCategory(err, goerrors.CategoryNotFound) {
		t.Fatalf("expected zone gone, got %v", err)
	}
}

func TestArticlesRequireExistingList(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	lists := content.NewArticleListStore(content.NewMemoryArticleListRepository())
	articles := admin.NewArticles(content.NewArticleStore(content.NewMemoryArticleRepository()), lists)

	a := &content.Article{ArticleListID: uuid.New()}
	a.Title = "Orphan"
	_, err := articles.Save(ctx, a)
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) || !errors.Is(err, admin.ErrArticleListMissing) {
		t.Fatalf("expected missing list error, got %v", err)
	}
	if versioning.IsNotFound(err) {
		t.Fatalf("missing list must not read as a missing article: %v", err)
	}

	list := &content.ArticleList{}
	list.Title = "News"
	if _, err := admin.NewArticleLists(lists).Save(ctx, list); err != nil {
		t.Fatalf("save list: %v", err)
	}
	a.ArticleListID = list.MasterID
	if _, err := articles.Save(ctx, a); err != nil {
		t.Fatalf("save article: %v", err)
	}

	blocks := admin.NewBlocks(content.NewBlockStore(content.NewMemoryBlockRepository()))
	b := &content.Block{}
	b.Title = "Footer"
	if _, err := blocks.Save(ctx, b); !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected block name error, got %v", err)
	}
}
