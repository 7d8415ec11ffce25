package zones

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-cms-zones/internal/identity"
	"github.com/goliatone/go-cms-zones/internal/registry"
	"github.com/goliatone/go-cms-zones/internal/versioning"
	"github.com/google/uuid"
)

// RenderContext carries the render-position counters of one top-level
// render. Children created with Child share the counters.
type RenderContext struct {
	parent   string
	counters map[string]int
	admin    bool
}

// NewRenderContext starts a render rooted at parent.
func NewRenderContext(parent string, admin bool) *RenderContext {
	return &RenderContext{
		parent:   parent,
		counters: map[string]int{},
		admin:    admin,
	}
}

// PageParent is the parent key for zones rendered inside a resolved page.
func PageParent(pageMasterID uuid.UUID) string {
	return "page:" + pageMasterID.String()
}

// ControllerParent is the parent key for zones rendered outside a page.
func ControllerParent(controller, action string) string {
	return "controller:" + strings.ToLower(controller) + "/" + strings.ToLower(action)
}

// Parent returns the current parent key.
func (rc *RenderContext) Parent() string {
	return rc.parent
}

// Admin reports whether the render happens in the admin editor.
func (rc *RenderContext) Admin() bool {
	return rc.admin
}

// Child returns a context for a nested parent sharing the same counters.
func (rc *RenderContext) Child(parent string) *RenderContext {
	return &RenderContext{parent: parent, counters: rc.counters, admin: rc.admin}
}

// ZonePath advances the counter of the current parent and returns
// "<parent>/<name>#<n>".
func (rc *RenderContext) ZonePath(name string) string {
	rc.counters[rc.parent]++
	return fmt.Sprintf("%s/%s#%d", rc.parent, name, rc.counters[rc.parent])
}

// Component renders one zone item.
type Component interface {
	Render(ctx context.Context, req ComponentRequest) (any, error)
}

// IsComponent reports whether renderer is a zone component.
func IsComponent(renderer any) bool {
	_, ok := renderer.(Component)
	return ok
}

// ComponentRequest is handed to a component for one item.
type ComponentRequest struct {
	Zone   *Zone
	Item   *Item
	Config any
	Render *RenderContext
}

// RenderedZone is the output of Engine.Render.
type RenderedZone struct {
	Name   string         `json:"name"`
	Path   string         `json:"path"`
	ZoneID uuid.UUID      `json:"zone_id,omitempty"`
	Items  []RenderedItem `json:"items"`
}

// RenderedItem is the output of one component.
type RenderedItem struct {
	ID        uuid.UUID `json:"id"`
	Component string    `json:"component"`
	Ordinal   int       `json:"ordinal"`
	Active    bool      `json:"active"`
	Output    any       `json:"output,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// Engine renders zones through the component registry.
type Engine struct {
	service    *Service
	components *registry.Registry
}

// NewEngine binds service to the component registry.
func NewEngine(service *Service, components *registry.Registry) *Engine {
	return &Engine{service: service, components: components}
}

// Render resolves the zone for the next render position of name. Public
// renders use the published zone and its active items, and yield an empty
// zone when none exists. Admin renders provision the zone on first use and
// include inactive items. Item failures are reported per item.
func (e *Engine) Render(ctx context.Context, rc *RenderContext, name string) (*RenderedZone, error) {
	if rc == nil {
		return nil, fmt.Errorf("zones: render context is required")
	}
	path := rc.ZonePath(name)
	out := &RenderedZone{Name: name, Path: path, Items: []RenderedItem{}}

	var (
		zone *Zone
		err  error
	)
	if rc.Admin() {
		zone, err = e.ensureZone(ctx, path)
	} else {
		zone, err = e.service.GetByName(ctx, path)
		if versioning.IsNotFound(err) {
			return out, nil
		}
	}
	if err != nil {
		return nil, err
	}
	out.ZoneID = zone.MasterID

	for _, item := range zone.Items {
		out.Items = append(out.Items, e.renderItem(ctx, rc, zone, item))
	}
	return out, nil
}

func (e *Engine) renderItem(ctx context.Context, rc *RenderContext, zone *Zone, item *Item) RenderedItem {
	rendered := RenderedItem{
		ID:        item.ID,
		Component: item.ComponentName,
		Ordinal:   item.Ordinal,
		Active:    item.IsActive,
	}
	logger := e.service.logger
	entry, ok := e.components.Get(item.ComponentName)
	if !ok {
		rendered.Error = fmt.Sprintf("component %q is not registered", item.ComponentName)
		logger.Warn("zones.render.unknown_component", "zone", zone.Name, "component", item.ComponentName)
		return rendered
	}
	component, ok := entry.Renderer.(Component)
	if !ok {
		rendered.Error = fmt.Sprintf("component %q cannot render", entry.Name)
		return rendered
	}

	var config any
	if entry.HasConfiguration() {
		decoded, err := e.components.DecodeConfiguration(entry.Name, item.ComponentPropertiesJSON)
		if err != nil {
			logger.Warn("zones.render.config_fallback", "zone", zone.Name, "component", entry.Name, "error", err)
			decoded, _ = e.components.CreateDefaultConfiguration(entry.Name)
		}
		config = decoded
	}

	output, err := component.Render(ctx, ComponentRequest{Zone: zone, Item: item, Config: config, Render: rc})
	if err != nil {
		rendered.Error = err.Error()
		logger.Error("zones.render.failed", "zone", zone.Name, "component", entry.Name, "error", err)
		return rendered
	}
	rendered.Output = output
	return rendered
}

func (e *Engine) ensureZone(ctx context.Context, path string) (*Zone, error) {
	s := e.service
	existing, err := s.latestByName(ctx, path)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		now := s.now()
		id := identity.ZoneUUID(path)
		zone := &Zone{Name: path}
		zone.ID = id
		zone.MasterID = id
		zone.Title = path
		zone.Slug = versioning.DeriveSlug(path)
		zone.IsPublished = true
		zone.CreationDate = now
		zone.ModificationDate = now
		zone.PublicationDate = &now
		if _, err := s.zoneRepo.Insert(ctx, zone); err != nil && !isDuplicate(err) {
			return nil, err
		}
		s.logger.Info("zones.provisioned", "path", path, "zone_id", id)
		if existing, err = s.zones.GetByMasterID(ctx, id); err != nil {
			return nil, err
		}
	}
	return s.GetByID(ctx, existing.ID)
}
