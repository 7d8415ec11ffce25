package di_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goliatone/go-cms-zones/internal/di"
	"github.com/goliatone/go-cms-zones/internal/identity"
	"github.com/goliatone/go-cms-zones/internal/registry"
	"github.com/goliatone/go-cms-zones/internal/routing"
	"github.com/goliatone/go-cms-zones/internal/runtimeconfig"
	"github.com/goliatone/go-cms-zones/pkg/testsupport"
	repocache "github.com/goliatone/go-repository-cache/cache"
)

func quietConfig() runtimeconfig.Config {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Logging.Provider = runtimeconfig.ProviderNone
	return cfg
}

type WelcomeController struct{}

func (WelcomeController) Handle(context.Context, *routing.RequestContext) (*routing.Response, error) {
	return routing.OK("welcome"), nil
}

func TestNewContainerWiresMemoryStack(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	cfg := quietConfig()
	cfg.Routing.SeedRootPage = true

	container, err := di.NewContainer(ctx, cfg)
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	t.Cleanup(func() { _ = container.Close() })

	if container.BunDB() != nil {
		t.Fatalf("expected memory storage to skip the database")
	}
	if got := len(container.Controllers().All()); got != 3 {
		t.Fatalf("expected 3 built-in controllers, got %d", got)
	}
	if got := len(container.Components().All()); got != 2 {
		t.Fatalf("expected 2 built-in components, got %d", got)
	}

	resp, res, err := container.Dispatcher().Dispatch(ctx, "/", nil, false)
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if resp.Status != http.StatusOK || res.Controller.Name != "GenericPage" {
		t.Fatalf("unexpected dispatch: status=%d controller=%q", resp.Status, res.Controller.Name)
	}
	if res.Page.MasterID != identity.PageUUID("/") {
		t.Fatalf("expected deterministic root page id, got %s", res.Page.MasterID)
	}
}

func TestNewContainerWithoutSeedLeavesRoutesEmpty(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	container, err := di.NewContainer(ctx, quietConfig())
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	if _, ok, err := container.Resolver().Resolve(ctx, "/"); err != nil || ok {
		t.Fatalf("expected no resolution, got ok=%v err=%v", ok, err)
	}
}

func TestNewContainerRejectsInvalidConfig(t *testing.T) {
	t.Parallel()
	cfg := quietConfig()
	cfg.Storage.Driver = "oracle"
	if _, err := di.NewContainer(context.Background(), cfg); !errors.Is(err, runtimeconfig.ErrStorageDriverUnknown) {
		t.Fatalf("expected unknown driver, got %v", err)
	}
}

func TestNewContainerSeedsSQLiteOnce(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := testsupport.NewBunDB(t)

	cfg := quietConfig()
	cfg.Storage.Driver = runtimeconfig.DriverSQLite
	cfg.Routing.SeedRootPage = true

	for range 2 {
		container, err := di.NewContainer(ctx, cfg, di.WithBunDB(db))
		if err != nil {
			t.Fatalf("NewContainer: %v", err)
		}
		if err := container.Close(); err != nil {
			t.Fatalf("close: %v", err)
		}
	}

	count, err := db.NewSelect().Table("pages").Count(ctx)
	if err != nil {
		t.Fatalf("count pages: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected a single seeded page, got %d", count)
	}
}

func TestNewContainerUsesRepositoryCache(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := testsupport.NewBunDB(t)

	cfg := quietConfig()
	cfg.Storage.Driver = runtimeconfig.DriverSQLite
	cfg.Cache.Enabled = true
	cfg.Cache.DefaultTTL = time.Minute
	cfg.Routing.SeedRootPage = true

	cacheCfg := repocache.DefaultConfig()
	service, err := repocache.NewCacheService(cacheCfg)
	if err != nil {
		t.Fatalf("cache service: %v", err)
	}
	container, err := di.NewContainer(ctx, cfg, di.WithBunDB(db), di.WithCache(service, repocache.NewDefaultKeySerializer()))
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}

	page, err := container.PageStore().GetByMasterID(ctx, identity.PageUUID("/"))
	if err != nil || page.Title != "Home" {
		t.Fatalf("expected seeded page through cached repository, got %v", err)
	}
}

func TestContainerAcceptsHostModules(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	module := registry.Module{
		Name: "host",
		Register: func(b *registry.Builder) error {
			return b.Add(registry.Registration{Renderer: WelcomeController{}})
		},
	}
	container, err := di.NewContainer(ctx, quietConfig(), di.WithControllerModules(module))
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	entry, ok := container.Controllers().Get("welcome")
	if !ok || entry.Module != "host" {
		t.Fatalf("expected host controller, got %+v", entry)
	}
}

func TestContainerRouterServesAdminAndPublic(t *testing.T) {
	t.Parallel()
	cfg := quietConfig()
	cfg.Routing.SeedRootPage = true
	container, err := di.NewContainer(context.Background(), cfg, di.WithClock(testsupport.NewClock(time.Time{}).Now))
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	router, err := container.Router()
	if err != nil {
		t.Fatalf("router: %v", err)
	}

	for path, want := range map[string]int{
		"/":                          http.StatusOK,
		"/admin/api/pages":           http.StatusOK,
		"/admin/api/components":      http.StatusOK,
		"/admin/api/controllers/Nop": http.StatusNotFound,
	} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != want {
			t.Fatalf("GET %s: expected %d, got %d: %s", path, want, rec.Code, rec.Body.String())
		}
	}
}
