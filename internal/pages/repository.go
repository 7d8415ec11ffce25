package pages

import (
	"context"

	"github.com/goliatone/go-cms-zones/internal/versioning"
	"github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"
)

const resource = "page"

// Repository adds route lookups to the versioned storage port.
type Repository interface {
	versioning.Repository[*Page]
	// ListByRoute returns every row, of any version, carrying route.
	ListByRoute(ctx context.Context, route string) ([]*Page, error)
	// ListLatestByRoute returns latest rows carrying route.
	ListLatestByRoute(ctx context.Context, route string) ([]*Page, error)
}

// MemoryRepository is the in-memory page store.
type MemoryRepository struct {
	*versioning.MemoryRepository[*Page]
}

var _ Repository = (*MemoryRepository)(nil)

// NewMemoryRepository constructs an empty in-memory page repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{MemoryRepository: versioning.NewMemoryRepository(resource, Clone)}
}

func (m *MemoryRepository) ListByRoute(ctx context.Context, route string) ([]*Page, error) {
	return m.Find(ctx, func(p *Page) bool { return p.Route == route })
}

func (m *MemoryRepository) ListLatestByRoute(ctx context.Context, route string) ([]*Page, error) {
	latest, err := m.ListLatest(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*Page, 0, 1)
	for _, p := range latest {
		if p.Route == route {
			out = append(out, p)
		}
	}
	return out, nil
}

// BunRepository persists pages through bun.
type BunRepository struct {
	*versioning.BunRepository[*Page]
}

var _ Repository = (*BunRepository)(nil)

// NewBunRepository constructs an uncached bun page repository.
func NewBunRepository(db *bun.DB) *BunRepository {
	return NewBunRepositoryWithCache(db, nil, nil)
}

// NewBunRepositoryWithCache constructs a bun page repository with optional
// go-repository-cache decoration.
func NewBunRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunRepository {
	return &BunRepository{
		BunRepository: versioning.NewBunRepositoryWithCache(db, resource, New, cacheService, keySerializer),
	}
}

func (r *BunRepository) ListByRoute(ctx context.Context, route string) ([]*Page, error) {
	return r.ListWhere(ctx, "route", route)
}

func (r *BunRepository) ListLatestByRoute(ctx context.Context, route string) ([]*Page, error) {
	return r.ListLatestWhere(ctx, "route", route)
}
