package http

import (
	"context"
	"errors"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/goliatone/go-cms-zones/internal/admin"
	"github.com/goliatone/go-cms-zones/internal/commands/contentcmd"
	"github.com/goliatone/go-cms-zones/internal/commands/pagescmd"
	"github.com/goliatone/go-cms-zones/internal/commands/zonescmd"
	"github.com/goliatone/go-cms-zones/internal/content"
	"github.com/goliatone/go-cms-zones/internal/logging"
	"github.com/goliatone/go-cms-zones/internal/pages"
	"github.com/goliatone/go-cms-zones/internal/registry"
	"github.com/goliatone/go-cms-zones/internal/zones"
	"github.com/goliatone/go-cms-zones/pkg/interfaces"
)

// DefaultAdminPrefix is where the admin API mounts unless overridden.
const DefaultAdminPrefix = "/admin/api"

// DefaultMaxBodyBytes caps admin request bodies.
const DefaultMaxBodyBytes int64 = 1 << 20

// Resource path segments. They double as DeleteContentCommand resources.
const (
	pagesPath        = "pages"
	articlesPath     = "articles"
	articleListsPath = "article-lists"
	blocksPath       = "blocks"
	zonesPath        = "zones"
)

// AdminAPI registers the admin endpoints. Façades left unset keep their
// routes unmounted.
type AdminAPI struct {
	basePath     string
	maxBodyBytes int64
	pages        *admin.Pages
	articles     *admin.Service[*content.Article]
	articleLists *admin.Service[*content.ArticleList]
	blocks       *admin.Service[*content.Block]
	zones        *admin.Zones
	controllers  *registry.Registry
	components   *registry.Registry
	logger       interfaces.Logger

	savePage      *pagescmd.SavePageHandler
	deleteContent *contentcmd.DeleteContentHandler
	addItem       *zonescmd.AddZoneItemHandler
	reorderItems  *zonescmd.ReorderZoneItemsHandler
}

// AdminOption mutates the AdminAPI configuration.
type AdminOption func(*AdminAPI)

// NewAdminAPI constructs an AdminAPI and the command handlers behind its
// mutating routes.
func NewAdminAPI(opts ...AdminOption) *AdminAPI {
	api := &AdminAPI{
		basePath:     DefaultAdminPrefix,
		maxBodyBytes: DefaultMaxBodyBytes,
		logger:       logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(api)
		}
	}

	targets := map[string]contentcmd.Deleter{}
	if api.pages != nil {
		api.savePage = pagescmd.NewSavePageHandler(api.pages, api.logger)
		targets[pagesPath] = api.pages
	}
	if api.articles != nil {
		targets[articlesPath] = api.articles
	}
	if api.articleLists != nil {
		targets[articleListsPath] = api.articleLists
	}
	if api.blocks != nil {
		targets[blocksPath] = api.blocks
	}
	if api.zones != nil {
		targets[zonesPath] = api.zones
		api.addItem = zonescmd.NewAddZoneItemHandler(api.zones, api.logger)
		api.reorderItems = zonescmd.NewReorderZoneItemsHandler(api.zones, api.logger)
	}
	api.deleteContent = contentcmd.NewDeleteContentHandler(targets, api.logger)
	return api
}

// WithBasePath overrides DefaultAdminPrefix.
func WithBasePath(path string) AdminOption {
	return func(api *AdminAPI) {
		if trimmed := strings.Trim(strings.TrimSpace(path), "/"); trimmed != "" {
			api.basePath = "/" + trimmed
		}
	}
}

// WithMaxBodyBytes overrides DefaultMaxBodyBytes. Non-positive values are
// ignored.
func WithMaxBodyBytes(limit int64) AdminOption {
	return func(api *AdminAPI) {
		if limit > 0 {
			api.maxBodyBytes = limit
		}
	}
}

// WithPages wires the page façade.
func WithPages(svc *admin.Pages) AdminOption {
	return func(api *AdminAPI) { api.pages = svc }
}

// WithArticles wires the article façade.
func WithArticles(svc *admin.Service[*content.Article]) AdminOption {
	return func(api *AdminAPI) { api.articles = svc }
}

// WithArticleLists wires the article list façade.
func WithArticleLists(svc *admin.Service[*content.ArticleList]) AdminOption {
	return func(api *AdminAPI) { api.articleLists = svc }
}

// WithBlocks wires the content block façade.
func WithBlocks(svc *admin.Service[*content.Block]) AdminOption {
	return func(api *AdminAPI) { api.blocks = svc }
}

// WithZones wires the zone façade.
func WithZones(svc *admin.Zones) AdminOption {
	return func(api *AdminAPI) { api.zones = svc }
}

// WithRegistries wires the controller and component registries.
func WithRegistries(controllers, components *registry.Registry) AdminOption {
	return func(api *AdminAPI) {
		api.controllers = controllers
		api.components = components
	}
}

// WithLogger sets the logger used by the API and its command handlers.
func WithLogger(logger interfaces.Logger) AdminOption {
	return func(api *AdminAPI) { api.logger = logging.OrNoOp(logger) }
}

// BasePath returns the mount prefix.
func (api *AdminAPI) BasePath() string {
	return api.basePath
}

// Register attaches the admin endpoints to router.
func (api *AdminAPI) Register(router chi.Router) error {
	if router == nil {
		return errors.New("http: router is required")
	}
	if api == nil {
		return errors.New("http: admin api is nil")
	}

	router.Route(api.basePath, func(r chi.Router) {
		r.Use(middleware.RequestSize(api.maxBodyBytes))
		if api.pages != nil {
			mountResource(r, resource[*pages.Page]{
				path:      pagesPath,
				service:   api.pages.Service,
				newEntity: pages.New,
				save:      api.savePageCommand,
				delete:    api.deleteCommand(pagesPath),
			})
		}
		if api.articles != nil {
			mountResource(r, resource[*content.Article]{
				path:      articlesPath,
				service:   api.articles,
				newEntity: content.NewArticle,
				delete:    api.deleteCommand(articlesPath),
			})
		}
		if api.articleLists != nil {
			mountResource(r, resource[*content.ArticleList]{
				path:      articleListsPath,
				service:   api.articleLists,
				newEntity: content.NewArticleList,
				delete:    api.deleteCommand(articleListsPath),
			})
		}
		if api.blocks != nil {
			mountResource(r, resource[*content.Block]{
				path:      blocksPath,
				service:   api.blocks,
				newEntity: content.NewBlock,
				delete:    api.deleteCommand(blocksPath),
			})
		}
		if api.zones != nil {
			mountResource(r, resource[*zones.Zone]{
				path:      zonesPath,
				service:   api.zones.Service,
				newEntity: zones.NewZone,
				get:       api.zones.Get,
				delete:    api.deleteCommand(zonesPath),
				extra:     api.registerZoneItemRoutes,
			})
		}
		if api.controllers != nil {
			mountRegistry(r, "controllers", api.controllers)
		}
		if api.components != nil {
			mountRegistry(r, "components", api.components)
		}
	})
	return nil
}

func (api *AdminAPI) savePageCommand(ctx context.Context, page *pages.Page) (*pages.Page, error) {
	if err := api.savePage.Execute(ctx, pagescmd.SavePageCommand{Page: page}); err != nil {
		return nil, err
	}
	return page, nil
}
