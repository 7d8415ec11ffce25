package zones_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/goliatone/go-cms-zones/internal/identity"
	"github.com/goliatone/go-cms-zones/internal/registry"
	"github.com/goliatone/go-cms-zones/internal/zones"
	"github.com/google/uuid"
)

type bannerConfig struct {
	Heading string `json:"heading" cms:"required"`
	Size    int    `json:"size"`
}

func (c *bannerConfig) Defaults() {
	c.Heading = "default"
	c.Size = 1
}

type BannerViewComponent struct{}

func (BannerViewComponent) Render(_ context.Context, req zones.ComponentRequest) (any, error) {
	cfg := req.Config.(*bannerConfig)
	return cfg.Heading, nil
}

type FailingViewComponent struct{}

func (FailingViewComponent) Render(context.Context, zones.ComponentRequest) (any, error) {
	return nil, errors.New("render failed")
}

func componentRegistry() *registry.Registry {
	return registry.Build(registry.KindComponent, []registry.Module{{
		Name: "test",
		Register: func(b *registry.Builder) error {
			b.MustAdd(registry.Registration{Renderer: BannerViewComponent{}, Config: bannerConfig{}})
			b.MustAdd(registry.Registration{Renderer: FailingViewComponent{}})
			return nil
		},
	}})
}

func TestRenderContextPaths(t *testing.T) {
	t.Parallel()
	pageID := uuid.MustParse("6f1c2c86-9b1e-4f43-9c1e-000000000001")
	rc := zones.NewRenderContext(zones.PageParent(pageID), false)

	first := rc.ZonePath("sidebar")
	second := rc.ZonePath("sidebar")
	if first == second {
		t.Fatalf("expected distinct paths, got %q twice", first)
	}
	if first != "page:"+pageID.String()+"/sidebar#1" {
		t.Fatalf("unexpected first path %q", first)
	}
	if !strings.HasSuffix(second, "#2") {
		t.Fatalf("unexpected second path %q", second)
	}

	child := rc.Child(zones.ControllerParent("ArticleList", "Index"))
	if got := child.ZonePath("sidebar"); got != "controller:articlelist/index/sidebar#1" {
		t.Fatalf("unexpected child path %q", got)
	}
	if got := rc.ZonePath("footer"); !strings.HasSuffix(got, "/footer#3") {
		t.Fatalf("expected counter to be shared per parent, got %q", got)
	}

	fresh := zones.NewRenderContext(zones.PageParent(pageID), false)
	if got := fresh.ZonePath("sidebar"); got != first {
		t.Fatalf("expected new render to reset counters, got %q", got)
	}
}

func TestEngineRenderPublicMissingZone(t *testing.T) {
	t.Parallel()
	engine := zones.NewEngine(newService(), componentRegistry())
	rc := zones.NewRenderContext("page:x", false)

	out, err := engine.Render(context.Background(), rc, "sidebar")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out.ZoneID != uuid.Nil || len(out.Items) != 0 || out.Path != "page:x/sidebar#1" {
		t.Fatalf("expected empty zone, got %+v", out)
	}
}

func TestEngineRenderAdminProvisionsZone(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newService()
	engine := zones.NewEngine(svc, componentRegistry())

	out, err := engine.Render(ctx, zones.NewRenderContext("page:x", true), "sidebar")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := identity.ZoneUUID("page:x/sidebar#1")
	if out.ZoneID != want {
		t.Fatalf("expected deterministic zone id %s, got %s", want, out.ZoneID)
	}

	again, err := engine.Render(ctx, zones.NewRenderContext("page:x", true), "sidebar")
	if err != nil {
		t.Fatalf("second render: %v", err)
	}
	if again.ZoneID != want {
		t.Fatalf("expected the same zone on second render")
	}
	all, _ := svc.Store().GetAll(ctx)
	if len(all) != 1 {
		t.Fatalf("expected one provisioned zone, got %d", len(all))
	}
}

func TestEngineRenderItems(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newService()
	engine := zones.NewEngine(svc, componentRegistry())
	zone := createZone(t, svc, "page:x/main#1", true)

	mustAdd := func(item *zones.Item) {
		if _, err := svc.AddItem(ctx, zone.ID, item); err != nil {
			t.Fatalf("add: %v", err)
		}
	}
	mustAdd(&zones.Item{ComponentName: "Banner", ComponentPropertiesJSON: `{"HEADING":"Welcome"}`, IsActive: true})
	mustAdd(&zones.Item{ComponentName: "banner", ComponentPropertiesJSON: `{ not json`, IsActive: true})
	mustAdd(&zones.Item{ComponentName: "Failing", IsActive: true})
	mustAdd(&zones.Item{ComponentName: "Missing", IsActive: true})
	mustAdd(&zones.Item{ComponentName: "Banner", IsActive: false})

	public, err := engine.Render(ctx, zones.NewRenderContext("page:x", false), "main")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if len(public.Items) != 4 {
		t.Fatalf("expected four active items, got %d", len(public.Items))
	}
	if public.Items[0].Output != "Welcome" {
		t.Fatalf("expected decoded heading, got %v", public.Items[0].Output)
	}
	if public.Items[1].Output != "default" || public.Items[1].Error != "" {
		t.Fatalf("expected default configuration fallback, got %+v", public.Items[1])
	}
	if public.Items[2].Error != "render failed" {
		t.Fatalf("expected component error, got %+v", public.Items[2])
	}
	if !strings.Contains(public.Items[3].Error, "not registered") {
		t.Fatalf("expected unknown component error, got %+v", public.Items[3])
	}

	admin, err := engine.Render(ctx, zones.NewRenderContext("page:x", true), "main")
	if err != nil {
		t.Fatalf("admin render: %v", err)
	}
	if len(admin.Items) != 5 || admin.Items[4].Active {
		t.Fatalf("expected inactive item in admin render, got %+v", admin.Items)
	}
}

func TestIsComponent(t *testing.T) {
	t.Parallel()
	if !zones.IsComponent(BannerViewComponent{}) || zones.IsComponent(struct{}{}) {
		t.Fatalf("unexpected component detection")
	}
}
