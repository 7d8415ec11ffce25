package pages

import (
	"github.com/goliatone/go-cms-zones/internal/versioning"
)

// Store is the versioned store for pages.
type Store = versioning.Store[*Page]

// NewStore builds a page store whose writes normalize the route first.
func NewStore(repo Repository, opts ...versioning.Option) *Store {
	base := []versioning.Option{
		versioning.WithResource(resource),
		versioning.WithPrepare(normalizeOnSave),
	}
	return versioning.NewStore[*Page](repo, append(base, opts...)...)
}

func normalizeOnSave(entity versioning.Entity) error {
	if page, ok := entity.(*Page); ok {
		page.Route = NormalizeRoute(page.Route)
	}
	return nil
}
