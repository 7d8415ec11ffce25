package routing

import (
	"context"
	"fmt"
	"net/url"

	"github.com/goliatone/go-cms-zones/internal/logging"
	"github.com/goliatone/go-cms-zones/internal/zones"
	"github.com/goliatone/go-cms-zones/pkg/interfaces"
)

// Dispatcher resolves a path and runs the matched controller.
type Dispatcher struct {
	resolver *Resolver
	logger   interfaces.Logger
}

// NewDispatcher wraps resolver.
func NewDispatcher(resolver *Resolver, logger interfaces.Logger) *Dispatcher {
	return &Dispatcher{resolver: resolver, logger: logging.OrNoOp(logger)}
}

// Resolver exposes the underlying resolver.
func (d *Dispatcher) Resolver() *Resolver {
	return d.resolver
}

// Dispatch resolves path and hands the result to its controller. Unresolved
// paths produce a NotFound response. Each call starts a fresh render context
// scoped to the matched page.
func (d *Dispatcher) Dispatch(ctx context.Context, path string, query url.Values, admin bool) (*Response, *Resolution, error) {
	res, ok, err := d.resolver.Resolve(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		return NotFound(), nil, nil
	}
	controller, isController := res.Controller.Renderer.(Controller)
	if !isController {
		return nil, res, fmt.Errorf("routing: %s does not implement Controller", res.Controller.Name)
	}
	if query == nil {
		query = url.Values{}
	}
	req := &RequestContext{
		Resolution: res,
		Render:     zones.NewRenderContext(zones.PageParent(res.Page.MasterID), admin),
		Path:       res.Path,
		Query:      query,
		Admin:      admin,
	}
	resp, err := controller.Handle(ctx, req)
	if err != nil {
		d.logger.WithContext(ctx).Error("routing.dispatch.failed", "path", res.Path, "controller", res.Controller.Name, "error", err)
		return nil, res, err
	}
	if resp == nil {
		resp = OK(nil)
	}
	return resp, res, nil
}
