package pages

import (
	"context"

	"github.com/goliatone/go-cms-zones/internal/logging"
	"github.com/goliatone/go-cms-zones/internal/versioning"
	"github.com/goliatone/go-cms-zones/pkg/interfaces"
	"github.com/google/uuid"
)

// RouteTable answers route ownership questions over the page history.
type RouteTable struct {
	repo   Repository
	logger interfaces.Logger
}

// RouteTableOption configures a RouteTable.
type RouteTableOption func(*RouteTable)

// WithRouteTableLogger sets the logger.
func WithRouteTableLogger(logger interfaces.Logger) RouteTableOption {
	return func(t *RouteTable) {
		t.logger = logging.OrNoOp(logger)
	}
}

// NewRouteTable constructs a route table over repo.
func NewRouteTable(repo Repository, opts ...RouteTableOption) *RouteTable {
	t := &RouteTable{repo: repo, logger: logging.NoOp()}
	for _, opt := range opts {
		if opt != nil {
			opt(t)
		}
	}
	return t
}

// IsRouteAvailable reports whether no live page other than excludeMasterID
// owns route. A page is live when its latest row is not deleted.
func (t *RouteTable) IsRouteAvailable(ctx context.Context, route string, excludeMasterID *uuid.UUID) (bool, error) {
	normalized := NormalizeRoute(route)
	owners, err := t.repo.ListLatestByRoute(ctx, normalized)
	if err != nil {
		return false, err
	}
	for _, owner := range owners {
		if owner.IsDeleted {
			continue
		}
		if excludeMasterID != nil && owner.MasterID == *excludeMasterID {
			continue
		}
		return false, nil
	}
	return true, nil
}

// GetByRoute returns the best published version of the page owning route:
// the highest published, non-deleted row of a master whose latest row still
// carries route and is not deleted. A newer draft does not hide the last
// published version.
func (t *RouteTable) GetByRoute(ctx context.Context, route string) (*Page, error) {
	normalized := NormalizeRoute(route)
	owners, err := t.repo.ListLatestByRoute(ctx, normalized)
	if err != nil {
		return nil, err
	}

	var best *Page
	for _, owner := range owners {
		if owner.IsDeleted {
			continue
		}
		candidate, err := t.bestPublished(ctx, owner, normalized)
		if err != nil {
			return nil, err
		}
		if candidate == nil {
			continue
		}
		if best == nil || candidate.ModificationDate.After(best.ModificationDate) {
			best = candidate
		}
	}
	if best == nil {
		return nil, &versioning.NotFoundError{Resource: resource, Key: normalized}
	}
	return best, nil
}

func (t *RouteTable) bestPublished(ctx context.Context, latest *Page, route string) (*Page, error) {
	if latest.IsVisible() {
		return latest, nil
	}
	rows, err := t.repo.ListByRoute(ctx, route)
	if err != nil {
		return nil, err
	}
	var best *Page
	for _, row := range rows {
		if row.MasterID != latest.MasterID || !row.IsVisible() {
			continue
		}
		if best == nil || row.Version > best.Version {
			best = row
		}
	}
	if best != nil {
		t.logger.Debug("pages.route.fallback_version", "route", route, "master_id", latest.MasterID, "version", best.Version)
	}
	return best, nil
}
