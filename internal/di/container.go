package di

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goliatone/go-cms-zones/internal/admin"
	"github.com/goliatone/go-cms-zones/internal/commands"
	"github.com/goliatone/go-cms-zones/internal/components"
	"github.com/goliatone/go-cms-zones/internal/content"
	cmshttp "github.com/goliatone/go-cms-zones/internal/http"
	"github.com/goliatone/go-cms-zones/internal/identity"
	"github.com/goliatone/go-cms-zones/internal/logging"
	"github.com/goliatone/go-cms-zones/internal/logging/gologger"
	"github.com/goliatone/go-cms-zones/internal/logging/zaplog"
	"github.com/goliatone/go-cms-zones/internal/pages"
	"github.com/goliatone/go-cms-zones/internal/registry"
	"github.com/goliatone/go-cms-zones/internal/routing"
	"github.com/goliatone/go-cms-zones/internal/runtimeconfig"
	"github.com/goliatone/go-cms-zones/internal/storage"
	"github.com/goliatone/go-cms-zones/internal/versioning"
	"github.com/goliatone/go-cms-zones/internal/zones"
	"github.com/goliatone/go-cms-zones/pkg/interfaces"
	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"
)

// Container wires the CMS modules from a runtime configuration.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	logger         interfaces.Logger
	now            func() time.Time

	bunDB         *bun.DB
	ownsDB        bool
	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer

	controllerModules []registry.Module
	componentModules  []registry.Module
	adminMode         func(*http.Request) bool

	pageRepo        pages.Repository
	zoneRepo        zones.ZoneRepository
	itemRepo        zones.ItemRepository
	articleRepo     content.ArticleRepository
	articleListRepo content.ArticleListRepository
	blockRepo       content.BlockRepository

	pageStore        *pages.Store
	routeTable       *pages.RouteTable
	articleStore     *content.ArticleStore
	articleListStore *content.ArticleListStore
	blockStore       *content.BlockStore
	feed             *content.Feed

	zoneSvc *zones.Service
	engine  *zones.Engine

	components  *registry.Registry
	controllers *registry.Registry
	resolver    *routing.Resolver
	dispatcher  *routing.Dispatcher

	pagesAdmin    *admin.Pages
	zonesAdmin    *admin.Zones
	articlesAdmin *admin.Service[*content.Article]
	listsAdmin    *admin.Service[*content.ArticleList]
	blocksAdmin   *admin.Service[*content.Block]
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithBunDB supplies an open database. The container does not close it.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithCache overrides the repository cache used with SQL storage.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithLoggerProvider overrides the provider selected by the logging config.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithControllerModules adds host controller modules after the built-ins.
func WithControllerModules(modules ...registry.Module) Option {
	return func(c *Container) {
		c.controllerModules = append(c.controllerModules, modules...)
	}
}

// WithComponentModules adds host component modules after the built-ins.
func WithComponentModules(modules ...registry.Module) Option {
	return func(c *Container) {
		c.componentModules = append(c.componentModules, modules...)
	}
}

// WithClock overrides the timestamp source of every store.
func WithClock(now func() time.Time) Option {
	return func(c *Container) {
		if now != nil {
			c.now = now
		}
	}
}

// WithAdminMode decides per public request whether zones render in admin
// mode.
func WithAdminMode(fn func(*http.Request) bool) Option {
	return func(c *Container) {
		c.adminMode = fn
	}
}

// NewContainer validates cfg and builds every service. Close releases the
// database when the container opened it.
func NewContainer(ctx context.Context, cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Container{
		Config: cfg,
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if err := c.configureLogging(); err != nil {
		return nil, err
	}
	if err := c.configureStorage(ctx); err != nil {
		return nil, err
	}
	c.configureCacheDefaults()
	c.configureRepositories()
	c.configureServices()

	if cfg.Routing.SeedRootPage {
		if err := c.seedRootPage(ctx); err != nil {
			_ = c.Close()
			return nil, err
		}
	}
	c.logger.Info("cms.container.ready",
		"storage", cfg.StorageDriver(),
		"cache", c.cacheService != nil,
		"controllers", len(c.controllers.All()),
		"components", len(c.components.All()),
	)
	return c, nil
}

func (c *Container) configureLogging() error {
	if c.loggerProvider == nil {
		provider, err := newLoggerProvider(c.Config.Logging)
		if err != nil {
			return err
		}
		c.loggerProvider = provider
	}
	c.logger = logging.ModuleLogger(c.loggerProvider, "cms")
	return nil
}

func newLoggerProvider(cfg runtimeconfig.LoggingConfig) (interfaces.LoggerProvider, error) {
	switch cfg.Provider {
	case runtimeconfig.ProviderNone:
		return nil, nil
	case runtimeconfig.ProviderZap:
		return zaplog.NewProvider(zaplog.Config{
			Level:     cfg.Level,
			Format:    cfg.Format,
			AddSource: cfg.AddSource,
		})
	default:
		return gologger.NewProvider(gologger.Config{
			Level:     cfg.Level,
			Format:    cfg.Format,
			AddSource: cfg.AddSource,
			Focus:     cfg.Focus,
		})
	}
}

func (c *Container) configureStorage(ctx context.Context) error {
	driver := c.Config.StorageDriver()
	if c.bunDB == nil && driver != runtimeconfig.DriverMemory {
		db, err := storage.Open(ctx, storage.Config{
			Driver: driver,
			DSN:    c.Config.Storage.DSN,
			Debug:  c.Config.Storage.Debug,
			Logger: logging.ModuleLogger(c.loggerProvider, "cms.storage"),
		})
		if err != nil {
			return err
		}
		c.bunDB = db
		c.ownsDB = true
	}
	if c.bunDB != nil && c.Config.Storage.AutoMigrate {
		if err := storage.CreateSchema(ctx, c.bunDB); err != nil {
			_ = c.Close()
			return fmt.Errorf("cms: create schema: %w", err)
		}
	}
	return nil
}

func (c *Container) configureCacheDefaults() {
	if c.bunDB == nil || !c.Config.Cache.Enabled {
		return
	}
	if c.cacheService == nil {
		cfg := repocache.DefaultConfig()
		if c.Config.Cache.DefaultTTL > 0 {
			cfg.TTL = c.Config.Cache.DefaultTTL
		}
		service, err := repocache.NewCacheService(cfg)
		if err != nil {
			c.logger.Warn("cms.cache.disabled", "error", err)
			return
		}
		c.cacheService = service
	}
	if c.keySerializer == nil {
		c.keySerializer = repocache.NewDefaultKeySerializer()
	}
}

func (c *Container) configureRepositories() {
	if c.bunDB == nil {
		c.pageRepo = pages.NewMemoryRepository()
		c.zoneRepo = zones.NewMemoryZoneRepository()
		c.itemRepo = zones.NewMemoryItemRepository()
		c.articleRepo = content.NewMemoryArticleRepository()
		c.articleListRepo = content.NewMemoryArticleListRepository()
		c.blockRepo = content.NewMemoryBlockRepository()
		return
	}
	db, cs, ks := c.bunDB, c.cacheService, c.keySerializer
	c.pageRepo = pages.NewBunRepositoryWithCache(db, cs, ks)
	c.zoneRepo = zones.NewBunZoneRepositoryWithCache(db, cs, ks)
	c.itemRepo = zones.NewBunItemRepositoryWithCache(db, cs, ks)
	c.articleRepo = content.NewBunArticleRepository(db, cs, ks)
	c.articleListRepo = content.NewBunArticleListRepository(db, cs, ks)
	c.blockRepo = content.NewBunBlockRepository(db, cs, ks)
}

func (c *Container) storeOptions() []versioning.Option {
	return []versioning.Option{
		versioning.WithClock(c.now),
		versioning.WithLogger(logging.VersioningLogger(c.loggerProvider)),
		versioning.WithOptimisticConcurrency(c.Config.Versioning.OptimisticConcurrency),
	}
}

func (c *Container) registryOptions(accept func(any) bool) []registry.Option {
	opts := []registry.Option{
		registry.WithAccept(accept),
		registry.WithLogger(logging.RegistryLogger(c.loggerProvider)),
	}
	if c.Config.Registry.StrictNames {
		opts = append(opts, registry.WithStrictNames())
	}
	return opts
}

func (c *Container) configureServices() {
	storeOpts := c.storeOptions()

	c.pageStore = pages.NewStore(c.pageRepo, storeOpts...)
	c.routeTable = pages.NewRouteTable(c.pageRepo, pages.WithRouteTableLogger(logging.PagesLogger(c.loggerProvider)))
	c.articleStore = content.NewArticleStore(c.articleRepo, storeOpts...)
	c.articleListStore = content.NewArticleListStore(c.articleListRepo, storeOpts...)
	c.blockStore = content.NewBlockStore(c.blockRepo, storeOpts...)
	c.feed = content.NewFeed(c.articleRepo)

	componentModules := append([]registry.Module{components.Builtin(c.blockStore, c.feed)}, c.componentModules...)
	c.components = registry.Build(registry.KindComponent, componentModules, c.registryOptions(zones.IsComponent)...)

	c.zoneSvc = zones.NewService(c.zoneRepo, c.itemRepo,
		zones.WithClock(c.now),
		zones.WithLogger(logging.ZonesLogger(c.loggerProvider)),
		zones.WithStoreOptions(versioning.WithOptimisticConcurrency(c.Config.Versioning.OptimisticConcurrency)),
	)
	c.engine = zones.NewEngine(c.zoneSvc, c.components)

	controllerModules := append([]registry.Module{routing.BuiltinControllers(c.engine, c.feed)}, c.controllerModules...)
	c.controllers = registry.Build(registry.KindController, controllerModules, c.registryOptions(routing.ControllerFilter)...)

	routingLogger := logging.RoutingLogger(c.loggerProvider)
	c.resolver = routing.NewResolver(c.routeTable, c.controllers,
		routing.WithDispatchAction(c.Config.Routing.DispatchAction),
		routing.WithRootFallback(c.Config.Routing.RootFallback),
		routing.WithLogger(routingLogger),
	)
	c.dispatcher = routing.NewDispatcher(c.resolver, routingLogger)

	adminLogger := logging.AdminLogger(c.loggerProvider)
	c.pagesAdmin = admin.NewPages(c.pageStore, c.routeTable, c.controllers, admin.WithLogger[*pages.Page](adminLogger))
	c.zonesAdmin = admin.NewZones(c.zoneSvc, c.components, admin.WithLogger[*zones.Zone](adminLogger))
	c.articlesAdmin = admin.NewArticles(c.articleStore, c.articleListStore, admin.WithLogger[*content.Article](adminLogger))
	c.listsAdmin = admin.NewArticleLists(c.articleListStore, admin.WithLogger[*content.ArticleList](adminLogger))
	c.blocksAdmin = admin.NewBlocks(c.blockStore, admin.WithLogger[*content.Block](adminLogger))

	for _, failure := range append(c.controllers.Failures(), c.components.Failures()...) {
		c.logger.Warn("cms.registry.module_skipped", "module", failure.Module, "error", failure.Err)
	}
}

// seedRootPage inserts the published home page at "/" unless a page already
// owns the route. The page id is derived from the route so repeated starts
// against the same database agree on it.
func (c *Container) seedRootPage(ctx context.Context) error {
	if _, err := c.routeTable.GetByRoute(ctx, "/"); err == nil {
		return nil
	} else if !versioning.IsNotFound(err) {
		return err
	}
	id := identity.PageUUID("/")
	if _, err := c.pageRepo.GetByID(ctx, id); err == nil {
		return nil
	} else if !versioning.IsNotFound(err) {
		return err
	}

	now := c.now()
	home := &pages.Page{Route: "/", ControllerName: "GenericPage"}
	home.ID = id
	home.MasterID = id
	home.Title = "Home"
	home.Slug = "home"
	home.IsPublished = true
	home.CreationDate = now
	home.ModificationDate = now
	home.PublicationDate = &now
	if _, err := c.pageRepo.Insert(ctx, home); err != nil {
		return fmt.Errorf("cms: seed root page: %w", err)
	}
	c.logger.Info("cms.pages.root_seeded", "page_id", id)
	return nil
}

// Close releases the database when the container opened it.
func (c *Container) Close() error {
	if c.bunDB == nil || !c.ownsDB {
		return nil
	}
	err := c.bunDB.Close()
	c.bunDB = nil
	return err
}

// Router mounts the admin API and the public resolver on a chi router.
func (c *Container) Router() (chi.Router, error) {
	httpLogger := logging.HTTPLogger(c.loggerProvider)
	api := cmshttp.NewAdminAPI(
		cmshttp.WithBasePath(c.Config.HTTP.AdminPrefix),
		cmshttp.WithMaxBodyBytes(c.Config.HTTP.MaxBodyBytes),
		cmshttp.WithPages(c.pagesAdmin),
		cmshttp.WithArticles(c.articlesAdmin),
		cmshttp.WithArticleLists(c.listsAdmin),
		cmshttp.WithBlocks(c.blocksAdmin),
		cmshttp.WithZones(c.zonesAdmin),
		cmshttp.WithRegistries(c.controllers, c.components),
		cmshttp.WithLogger(commands.Logger(c.loggerProvider, "admin")),
	)
	public := cmshttp.NewPublicHandler(c.dispatcher,
		cmshttp.WithAdminMode(c.adminMode),
		cmshttp.WithPublicLogger(httpLogger),
	)
	return cmshttp.NewRouter(api, public, httpLogger)
}

func (c *Container) Logger() interfaces.Logger                   { return c.logger }
func (c *Container) LoggerProvider() interfaces.LoggerProvider   { return c.loggerProvider }
func (c *Container) BunDB() *bun.DB                              { return c.bunDB }
func (c *Container) PageStore() *pages.Store                     { return c.pageStore }
func (c *Container) RouteTable() *pages.RouteTable               { return c.routeTable }
func (c *Container) ZoneService() *zones.Service                 { return c.zoneSvc }
func (c *Container) ZoneEngine() *zones.Engine                   { return c.engine }
func (c *Container) ArticleStore() *content.ArticleStore         { return c.articleStore }
func (c *Container) ArticleListStore() *content.ArticleListStore { return c.articleListStore }
func (c *Container) BlockStore() *content.BlockStore             { return c.blockStore }
func (c *Container) Feed() *content.Feed                         { return c.feed }
func (c *Container) Controllers() *registry.Registry             { return c.controllers }
func (c *Container) Components() *registry.Registry              { return c.components }
func (c *Container) Resolver() *routing.Resolver                 { return c.resolver }
func (c *Container) Dispatcher() *routing.Dispatcher             { return c.dispatcher }

func (c *Container) PagesAdmin() *admin.Pages                                { return c.pagesAdmin }
func (c *Container) ZonesAdmin() *admin.Zones                                { return c.zonesAdmin }
func (c *Container) ArticlesAdmin() *admin.Service[*content.Article]         { return c.articlesAdmin }
func (c *Container) ArticleListsAdmin() *admin.Service[*content.ArticleList] { return c.listsAdmin }
func (c *Container) BlocksAdmin() *admin.Service[*content.Block]             { return c.blocksAdmin }
