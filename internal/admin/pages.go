package admin

import (
	"context"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-cms-zones/internal/pages"
	"github.com/goliatone/go-cms-zones/internal/registry"
	"github.com/google/uuid"
)

// Pages is the admin façade for pages. Saves normalize the route, require a
// registered controller with a valid configuration and keep routes unique
// among live pages.
type Pages struct {
	*Service[*pages.Page]
	table       *pages.RouteTable
	controllers *registry.Registry
}

// NewPages builds the page façade.
func NewPages(store *pages.Store, table *pages.RouteTable, controllers *registry.Registry, opts ...Option[*pages.Page]) *Pages {
	p := &Pages{table: table, controllers: controllers}
	all := append([]Option[*pages.Page]{WithValidator(p.validate)}, opts...)
	p.Service = NewService[*pages.Page](store, all...)
	return p
}

// IsRouteAvailable reports whether route is free for the page excludeMasterID
// names, or for a new page when it is nil.
func (p *Pages) IsRouteAvailable(ctx context.Context, route string, excludeMasterID *uuid.UUID) (bool, error) {
	return p.table.IsRouteAvailable(ctx, route, excludeMasterID)
}

// ValidateConfiguration checks raw against the configuration model of
// controller.
func (p *Pages) ValidateConfiguration(controller, raw string) ([]string, error) {
	issues, ok := p.controllers.ValidateConfiguration(controller, raw)
	if !ok {
		return nil, unknownController(controller)
	}
	return issues, nil
}

func (p *Pages) validate(ctx context.Context, page *pages.Page) error {
	page.Route = pages.NormalizeRoute(page.Route)
	page.ControllerName = strings.TrimSpace(page.ControllerName)
	if err := invalid(validation.ValidateStruct(page,
		validation.Field(&page.ControllerName, validation.Required),
		validation.Field(&page.Route, validation.Required, validation.Length(1, 512)),
	), "page is invalid"); err != nil {
		return err
	}

	entry, ok := p.controllers.Get(page.ControllerName)
	if !ok {
		return unknownController(page.ControllerName)
	}
	page.ControllerName = entry.Name
	if entry.HasConfiguration() && strings.TrimSpace(page.ConfigurationJSON) != "" {
		if issues, _ := p.controllers.ValidateConfiguration(entry.Name, page.ConfigurationJSON); len(issues) > 0 {
			return fieldInvalid(nil, "configuration_json", "page configuration is invalid", issues...)
		}
	}

	var exclude *uuid.UUID
	if page.MasterID != uuid.Nil {
		master := page.MasterID
		exclude = &master
	}
	available, err := p.table.IsRouteAvailable(ctx, page.Route, exclude)
	if err != nil {
		return mapStoreError(err, p.Resource(), page.Route)
	}
	if !available {
		return routeUnavailable(page.Route)
	}
	return nil
}

func unknownController(name string) error {
	return fieldInvalid(ErrUnknownController, "controller_name",
		fmt.Sprintf("controller %q is not registered", name))
}
