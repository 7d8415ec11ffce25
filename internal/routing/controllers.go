package routing

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/goliatone/go-cms-zones/internal/content"
	"github.com/goliatone/go-cms-zones/internal/pages"
	"github.com/goliatone/go-cms-zones/internal/registry"
	"github.com/goliatone/go-cms-zones/internal/versioning"
	"github.com/goliatone/go-cms-zones/internal/zones"
	"github.com/google/uuid"
)

// PageView is the body produced by the built-in page controllers.
type PageView struct {
	Page          *pages.Page           `json:"page"`
	Configuration any                   `json:"configuration,omitempty"`
	SubRoute      string                `json:"sub_route,omitempty"`
	Zones         []*zones.RenderedZone `json:"zones,omitempty"`
}

// GenericPageConfig lists the zones a generic page renders.
type GenericPageConfig struct {
	Template string   `json:"template" cms:"label=Template;maxlen=120"`
	Zones    []string `json:"zones" cms:"label=Zones"`
}

func (c *GenericPageConfig) Defaults() {
	c.Zones = []string{"main"}
}

// GenericPageController renders a page and its configured zones. It does
// not serve sub-routes.
type GenericPageController struct {
	zones *zones.Engine
}

func NewGenericPageController(engine *zones.Engine) *GenericPageController {
	return &GenericPageController{zones: engine}
}

func (c *GenericPageController) Handle(ctx context.Context, req *RequestContext) (*Response, error) {
	res := req.Resolution
	if res.HasSubRoute() {
		return NotFound(), nil
	}
	view := &PageView{Page: res.Page, Configuration: res.Configuration}
	cfg, _ := res.Configuration.(*GenericPageConfig)
	if cfg == nil || c.zones == nil {
		return OK(view), nil
	}
	for _, name := range cfg.Zones {
		if name = strings.TrimSpace(name); name == "" {
			continue
		}
		rendered, err := c.zones.Render(ctx, req.Render, name)
		if err != nil {
			return nil, err
		}
		view.Zones = append(view.Zones, rendered)
	}
	return OK(view), nil
}

// ArticleListConfig binds a page to an article list.
type ArticleListConfig struct {
	ArticleListID uuid.UUID `json:"article_list_id" cms:"label=Article list;required"`
	PageSize      int       `json:"page_size" cms:"label=Page size;min=1;max=100"`
}

func (c *ArticleListConfig) Defaults() {
	c.PageSize = 10
}

// ArticleListView is the body of an article listing.
type ArticleListView struct {
	Page       *pages.Page        `json:"page"`
	Articles   []*content.Article `json:"articles"`
	PageNumber int                `json:"page_number"`
	PageSize   int                `json:"page_size"`
	Total      int                `json:"total"`
}

// ArticleView is the body of a single article reached through a list page.
type ArticleView struct {
	Page    *pages.Page      `json:"page"`
	Article *content.Article `json:"article"`
}

// ArticleListController lists the published articles of a list. A one
// segment sub-route selects an article by slug.
type ArticleListController struct {
	feed *content.Feed
}

func NewArticleListController(feed *content.Feed) *ArticleListController {
	return &ArticleListController{feed: feed}
}

func (c *ArticleListController) Handle(ctx context.Context, req *RequestContext) (*Response, error) {
	res := req.Resolution
	cfg, _ := res.Configuration.(*ArticleListConfig)
	if cfg == nil {
		cfg = &ArticleListConfig{}
		cfg.Defaults()
	}

	if res.HasSubRoute() {
		if strings.Contains(res.SubRoute, "/") {
			return NotFound(), nil
		}
		article, err := c.feed.PublishedBySlug(ctx, cfg.ArticleListID, res.SubRoute)
		if err != nil {
			if versioning.IsNotFound(err) {
				return NotFound(), nil
			}
			return nil, err
		}
		return OK(&ArticleView{Page: res.Page, Article: article}), nil
	}

	articles, err := c.feed.Published(ctx, cfg.ArticleListID)
	if err != nil {
		return nil, err
	}
	size := cfg.PageSize
	if size <= 0 {
		size = 10
	}
	number := 1
	if raw := req.Query.Get("page"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			number = parsed
		}
	}
	start := (number - 1) * size
	if start > len(articles) {
		start = len(articles)
	}
	end := min(start+size, len(articles))
	return OK(&ArticleListView{
		Page:       res.Page,
		Articles:   articles[start:end],
		PageNumber: number,
		PageSize:   size,
		Total:      len(articles),
	}), nil
}

// RedirectConfig is the target of a redirect page.
type RedirectConfig struct {
	TargetURL string `json:"target_url" cms:"label=Target URL;required;pattern=^(https?://|/);message=target URL must be absolute or start with /"`
	Permanent bool   `json:"permanent" cms:"label=Permanent"`
}

// RedirectPageController redirects to a configured URL.
type RedirectPageController struct{}

func (RedirectPageController) Handle(_ context.Context, req *RequestContext) (*Response, error) {
	cfg, _ := req.Resolution.Configuration.(*RedirectConfig)
	if cfg == nil || strings.TrimSpace(cfg.TargetURL) == "" {
		return NotFound(), nil
	}
	status := http.StatusFound
	if cfg.Permanent {
		status = http.StatusMovedPermanently
	}
	return &Response{Status: status, RedirectURL: cfg.TargetURL}, nil
}

// BuiltinControllers returns the registry module holding the built-in page
// controllers.
func BuiltinControllers(engine *zones.Engine, feed *content.Feed) registry.Module {
	return registry.Module{
		Name: "builtin.controllers",
		Register: func(b *registry.Builder) error {
			b.MustAdd(registry.Registration{
				Renderer:    NewGenericPageController(engine),
				Config:      GenericPageConfig{},
				DisplayName: "Generic page",
				Description: "Renders the page and its zones.",
				Category:    "pages",
				Order:       10,
			})
			b.MustAdd(registry.Registration{
				Renderer:    NewArticleListController(feed),
				Config:      ArticleListConfig{},
				DisplayName: "Article list",
				Description: "Lists the articles of a list; sub-routes open an article.",
				Category:    "pages",
				Order:       20,
			})
			b.MustAdd(registry.Registration{
				Renderer:    RedirectPageController{},
				Config:      RedirectConfig{},
				DisplayName: "Redirect",
				Description: "Redirects to another URL.",
				Category:    "utility",
				Order:       10,
			})
			return nil
		},
	}
}

// ControllerFilter is the accept filter for controller registries: zone
// components are excluded and renderers must implement Controller.
func ControllerFilter(renderer any) bool {
	return IsController(renderer) && !zones.IsComponent(renderer)
}
