package cms

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/goliatone/go-cms-zones/internal/admin"
	"github.com/goliatone/go-cms-zones/internal/content"
	"github.com/goliatone/go-cms-zones/internal/di"
	"github.com/goliatone/go-cms-zones/internal/pages"
	"github.com/goliatone/go-cms-zones/internal/registry"
	"github.com/goliatone/go-cms-zones/internal/routing"
	"github.com/goliatone/go-cms-zones/internal/zones"
	"github.com/goliatone/go-cms-zones/pkg/interfaces"
	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"
)

// Extension points for host code registering controllers and components.
type (
	RegistryModule = registry.Module
	Builder        = registry.Builder
	Registration   = registry.Registration
	Registry       = registry.Registry
	Entry          = registry.Entry

	Controller       = routing.Controller
	RequestContext   = routing.RequestContext
	Response         = routing.Response
	Resolution       = routing.Resolution
	Component        = zones.Component
	ComponentRequest = zones.ComponentRequest
	RenderContext    = zones.RenderContext
)

// Content types.
type (
	Page        = pages.Page
	Zone        = zones.Zone
	ZoneItem    = zones.Item
	Article     = content.Article
	ArticleList = content.ArticleList
	Block       = content.Block
)

// Admin façades.
type (
	PagesAdmin        = admin.Pages
	ZonesAdmin        = admin.Zones
	ArticlesAdmin     = admin.Service[*content.Article]
	ArticleListsAdmin = admin.Service[*content.ArticleList]
	BlocksAdmin       = admin.Service[*content.Block]
	ListOptions       = admin.ListOptions
)

// OK wraps body in a 200 controller response.
func OK(body any) *Response { return routing.OK(body) }

// NotFound is the response for paths a controller does not serve.
func NotFound() *Response { return routing.NotFound() }

// Option customises the module wiring.
type Option = di.Option

func WithBunDB(db *bun.DB) Option { return di.WithBunDB(db) }

func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return di.WithCache(service, serializer)
}

func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return di.WithLoggerProvider(provider)
}

// WithControllerModules registers host controllers after the built-in ones.
func WithControllerModules(modules ...RegistryModule) Option {
	return di.WithControllerModules(modules...)
}

// WithComponentModules registers host zone components after the built-in
// ones.
func WithComponentModules(modules ...RegistryModule) Option {
	return di.WithComponentModules(modules...)
}

func WithClock(now func() time.Time) Option { return di.WithClock(now) }

// WithAdminMode decides per public request whether zones render in admin
// mode.
func WithAdminMode(fn func(*http.Request) bool) Option { return di.WithAdminMode(fn) }

// Module represents the top level CMS runtime façade.
type Module struct {
	container *di.Container
}

// New constructs a CMS module using the provided configuration and optional
// overrides.
func New(cfg Config, opts ...Option) (*Module, error) {
	return NewWithContext(context.Background(), cfg, opts...)
}

// NewWithContext is New with a context bounding storage setup and seeding.
func NewWithContext(ctx context.Context, cfg Config, opts ...Option) (*Module, error) {
	container, err := di.NewContainer(ctx, cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Close releases storage opened by the module.
func (m *Module) Close() error {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Close()
}

func (m *Module) Config() Config                   { return m.container.Config }
func (m *Module) Logger() interfaces.Logger        { return m.container.Logger() }
func (m *Module) Pages() *PagesAdmin               { return m.container.PagesAdmin() }
func (m *Module) Zones() *ZonesAdmin               { return m.container.ZonesAdmin() }
func (m *Module) Articles() *ArticlesAdmin         { return m.container.ArticlesAdmin() }
func (m *Module) ArticleLists() *ArticleListsAdmin { return m.container.ArticleListsAdmin() }
func (m *Module) Blocks() *BlocksAdmin             { return m.container.BlocksAdmin() }
func (m *Module) Controllers() *Registry           { return m.container.Controllers() }
func (m *Module) Components() *Registry            { return m.container.Components() }

// Resolve maps path to its page and controller without running it. ok is
// false when no page serves path.
func (m *Module) Resolve(ctx context.Context, path string) (res *Resolution, ok bool, err error) {
	return m.container.Resolver().Resolve(ctx, path)
}

// Dispatch resolves path and runs its controller.
func (m *Module) Dispatch(ctx context.Context, path string, query url.Values, admin bool) (*Response, *Resolution, error) {
	return m.container.Dispatcher().Dispatch(ctx, path, query, admin)
}

// Handler returns the HTTP handler serving the admin API under
// Config.HTTP.AdminPrefix and every other path through the resolver.
func (m *Module) Handler() (http.Handler, error) {
	return m.container.Router()
}
