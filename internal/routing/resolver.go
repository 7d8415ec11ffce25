package routing

import (
	"context"
	"strings"

	"github.com/goliatone/go-cms-zones/internal/logging"
	"github.com/goliatone/go-cms-zones/internal/pages"
	"github.com/goliatone/go-cms-zones/internal/registry"
	"github.com/goliatone/go-cms-zones/internal/versioning"
	"github.com/goliatone/go-cms-zones/pkg/interfaces"
)

// DefaultAction is the action every resolved page dispatches to.
const DefaultAction = "Index"

// RouteLookup finds the published page owning an exact route.
type RouteLookup interface {
	GetByRoute(ctx context.Context, route string) (*pages.Page, error)
}

// Resolution is the dispatch target produced for a request path.
type Resolution struct {
	Path string      `json:"path"`
	Page *pages.Page `json:"page"`
	// MatchedRoute is the route of Page.
	MatchedRoute string `json:"matched_route"`
	// SubRoute is the unmatched remainder of Path, "" when Path matched
	// exactly.
	SubRoute      string         `json:"sub_route,omitempty"`
	Controller    registry.Entry `json:"controller"`
	Configuration any            `json:"configuration,omitempty"`
	Action        string         `json:"action"`
	// ConfigurationFallback is set when the stored configuration failed to
	// decode and defaults were used instead.
	ConfigurationFallback bool `json:"configuration_fallback,omitempty"`
}

// HasSubRoute reports whether part of the path was left unmatched.
func (r *Resolution) HasSubRoute() bool {
	return r != nil && r.SubRoute != ""
}

// Resolver maps request paths to pages and their controllers.
type Resolver struct {
	routes       RouteLookup
	controllers  *registry.Registry
	action       string
	rootFallback bool
	logger       interfaces.Logger
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithDispatchAction overrides DefaultAction.
func WithDispatchAction(action string) ResolverOption {
	return func(r *Resolver) {
		if action = strings.TrimSpace(action); action != "" {
			r.action = action
		}
	}
}

// WithRootFallback toggles matching the root page for otherwise unmatched
// paths. Enabled by default.
func WithRootFallback(enabled bool) ResolverOption {
	return func(r *Resolver) {
		r.rootFallback = enabled
	}
}

// WithLogger sets the resolver logger.
func WithLogger(logger interfaces.Logger) ResolverOption {
	return func(r *Resolver) {
		r.logger = logging.OrNoOp(logger)
	}
}

// NewResolver constructs a resolver over routes and the controller registry.
func NewResolver(routes RouteLookup, controllers *registry.Registry, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		routes:       routes,
		controllers:  controllers,
		action:       DefaultAction,
		rootFallback: true,
		logger:       logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Resolve finds the page owning path. The exact route wins, then the longest
// stored prefix, then the root page. The boolean is false when no page
// matches or its controller is not registered. Errors are storage failures.
func (r *Resolver) Resolve(ctx context.Context, path string) (*Resolution, bool, error) {
	normalized := pages.NormalizeRoute(path)
	logger := r.logger.WithContext(ctx)

	page, subRoute, err := r.match(ctx, normalized)
	if err != nil {
		return nil, false, err
	}
	if page == nil {
		logger.Debug("routing.resolve.miss", "path", normalized)
		return nil, false, nil
	}

	entry, ok := r.controllers.Get(page.ControllerName)
	if !ok {
		logger.Warn("routing.resolve.unknown_controller", "path", normalized, "route", page.Route, "controller", page.ControllerName)
		return nil, false, nil
	}

	res := &Resolution{
		Path:         normalized,
		Page:         page,
		MatchedRoute: page.Route,
		SubRoute:     subRoute,
		Controller:   entry,
		Action:       r.action,
	}
	if entry.HasConfiguration() {
		config, err := r.controllers.DecodeConfiguration(entry.Name, page.ConfigurationJSON)
		if err != nil {
			logger.Warn("routing.resolve.config_fallback", "route", page.Route, "controller", entry.Name, "error", err)
			config, _ = r.controllers.CreateDefaultConfiguration(entry.Name)
			res.ConfigurationFallback = true
		}
		res.Configuration = config
	}
	logger.Debug("routing.resolve.hit", "path", normalized, "route", page.Route, "sub_route", subRoute, "controller", entry.Name)
	return res, true, nil
}

func (r *Resolver) match(ctx context.Context, normalized string) (*pages.Page, string, error) {
	page, err := r.lookup(ctx, normalized)
	if err != nil || page != nil {
		return page, "", err
	}

	segments := pages.Segments(normalized)
	for i := len(segments) - 1; i >= 1; i-- {
		prefix := "/" + strings.Join(segments[:i], "/")
		page, err := r.lookup(ctx, prefix)
		if err != nil {
			return nil, "", err
		}
		if page != nil {
			return page, strings.Join(segments[i:], "/"), nil
		}
	}

	if !r.rootFallback || normalized == pages.RootRoute {
		return nil, "", nil
	}
	root, err := r.lookup(ctx, pages.RootRoute)
	if err != nil || root == nil {
		return nil, "", err
	}
	return root, strings.Join(segments, "/"), nil
}

func (r *Resolver) lookup(ctx context.Context, route string) (*pages.Page, error) {
	page, err := r.routes.GetByRoute(ctx, route)
	if err != nil {
		if versioning.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return page, nil
}
