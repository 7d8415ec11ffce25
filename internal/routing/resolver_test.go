package routing_test

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-cms-zones/internal/pages"
	"github.com/goliatone/go-cms-zones/internal/registry"
	"github.com/goliatone/go-cms-zones/internal/routing"
)

type StubController struct{}

func (StubController) Handle(context.Context, *routing.RequestContext) (*routing.Response, error) {
	return routing.OK("stub"), nil
}

type stubConfig struct {
	Title string `json:"title"`
	Limit int    `json:"limit"`
}

func (c *stubConfig) Defaults() { c.Limit = 5 }

type ConfiguredController struct{ StubController }

type routeFixture struct {
	store *pages.Store
	table *pages.RouteTable
}

func newRouteFixture() *routeFixture {
	repo := pages.NewMemoryRepository()
	return &routeFixture{store: pages.NewStore(repo), table: pages.NewRouteTable(repo)}
}

func (f *routeFixture) page(t *testing.T, route, controller, config string) *pages.Page {
	t.Helper()
	p := &pages.Page{Route: route, ControllerName: controller, ConfigurationJSON: config}
	p.Title = route
	p.Slug = route
	p.IsPublished = true
	created, err := f.store.Create(context.Background(), p)
	if err != nil {
		t.Fatalf("create %s: %v", route, err)
	}
	return created
}

func stubRegistry() *registry.Registry {
	return registry.Build(registry.KindController, []registry.Module{{
		Name: "stub",
		Register: func(b *registry.Builder) error {
			b.MustAdd(registry.Registration{Renderer: StubController{}})
			b.MustAdd(registry.Registration{Renderer: ConfiguredController{}, Config: stubConfig{}})
			return nil
		},
	}}, registry.WithAccept(routing.ControllerFilter))
}

func TestResolveLongestPrefix(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newRouteFixture()
	f.page(t, "/", "Stub", "")
	f.page(t, "/blog", "Stub", "")
	f.page(t, "/blog/2024", "Stub", "")
	resolver := routing.NewResolver(f.table, stubRegistry())

	cases := []struct {
		path     string
		route    string
		subRoute string
	}{
		{"/blog/2024/my-post", "/blog/2024", "my-post"},
		{"/blog/other/x", "/blog", "other/x"},
		{"/Blog/2024/", "/blog/2024", ""},
		{"/blog", "/blog", ""},
		{"/about/team", "/", "about/team"},
		{"", "/", ""},
	}
	for _, tc := range cases {
		res, ok, err := resolver.Resolve(ctx, tc.path)
		if err != nil || !ok {
			t.Fatalf("resolve %q: ok=%v err=%v", tc.path, ok, err)
		}
		if res.MatchedRoute != tc.route || res.SubRoute != tc.subRoute {
			t.Fatalf("resolve %q: expected %s + %q, got %s + %q", tc.path, tc.route, tc.subRoute, res.MatchedRoute, res.SubRoute)
		}
		if res.Action != routing.DefaultAction || res.Controller.Name != "Stub" {
			t.Fatalf("unexpected dispatch target %s/%s", res.Controller.Name, res.Action)
		}
	}
}

func TestResolveFailsWithoutRootPage(t *testing.T) {
	t.Parallel()
	f := newRouteFixture()
	f.page(t, "/blog", "Stub", "")
	resolver := routing.NewResolver(f.table, stubRegistry())

	if _, ok, err := resolver.Resolve(context.Background(), "/nothing-matches-at-all"); ok || err != nil {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}
}

func TestResolveRootFallbackDisabled(t *testing.T) {
	t.Parallel()
	f := newRouteFixture()
	f.page(t, "/", "Stub", "")
	resolver := routing.NewResolver(f.table, stubRegistry(), routing.WithRootFallback(false), routing.WithDispatchAction("Show"))

	if _, ok, _ := resolver.Resolve(context.Background(), "/elsewhere"); ok {
		t.Fatalf("expected miss with root fallback disabled")
	}
	res, ok, _ := resolver.Resolve(context.Background(), "/")
	if !ok || res.Action != "Show" {
		t.Fatalf("expected root match with custom action, got %+v", res)
	}
}

func TestResolveUnknownController(t *testing.T) {
	t.Parallel()
	f := newRouteFixture()
	f.page(t, "/shop", "Missing", "")
	resolver := routing.NewResolver(f.table, stubRegistry())

	if _, ok, err := resolver.Resolve(context.Background(), "/shop"); ok || err != nil {
		t.Fatalf("expected unresolved page, got ok=%v err=%v", ok, err)
	}
}

func TestResolveDecodesConfiguration(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newRouteFixture()
	f.page(t, "/good", "configured", `{"TITLE":"Hello","limit":9}`)
	f.page(t, "/bad", "Configured", `{ not json`)
	f.page(t, "/empty", "Configured", "")
	resolver := routing.NewResolver(f.table, stubRegistry())

	res, ok, _ := resolver.Resolve(ctx, "/good")
	cfg, _ := res.Configuration.(*stubConfig)
	if !ok || cfg == nil || cfg.Title != "Hello" || cfg.Limit != 9 {
		t.Fatalf("expected decoded configuration, got %+v", res.Configuration)
	}

	res, ok, _ = resolver.Resolve(ctx, "/bad")
	cfg, _ = res.Configuration.(*stubConfig)
	if !ok || cfg == nil || cfg.Limit != 5 || !res.ConfigurationFallback {
		t.Fatalf("expected default configuration fallback, got %+v", res)
	}

	res, ok, _ = resolver.Resolve(ctx, "/empty")
	cfg, _ = res.Configuration.(*stubConfig)
	if !ok || cfg == nil || cfg.Limit != 5 || res.ConfigurationFallback {
		t.Fatalf("expected defaults for empty configuration, got %+v", res)
	}
}

type failingLookup struct{}

func (failingLookup) GetByRoute(context.Context, string) (*pages.Page, error) {
	return nil, errors.New("db down")
}

func TestResolvePropagatesStorageErrors(t *testing.T) {
	t.Parallel()
	resolver := routing.NewResolver(failingLookup{}, stubRegistry())
	if _, _, err := resolver.Resolve(context.Background(), "/x"); err == nil {
		t.Fatalf("expected storage error")
	}
}
