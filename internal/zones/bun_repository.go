package zones

import (
	"context"
	"fmt"

	"github.com/goliatone/go-cms-zones/internal/versioning"
	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// BunZoneRepository persists zones through bun.
type BunZoneRepository struct {
	*versioning.BunRepository[*Zone]
}

var _ ZoneRepository = (*BunZoneRepository)(nil)

// NewBunZoneRepository constructs an uncached zone repository.
func NewBunZoneRepository(db *bun.DB) *BunZoneRepository {
	return NewBunZoneRepositoryWithCache(db, nil, nil)
}

// NewBunZoneRepositoryWithCache constructs a zone repository with optional
// caching.
func NewBunZoneRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunZoneRepository {
	return &BunZoneRepository{
		BunRepository: versioning.NewBunRepositoryWithCache(db, zoneResource, NewZone, cacheService, keySerializer),
	}
}

func (r *BunZoneRepository) ListLatestByName(ctx context.Context, name string) ([]*Zone, error) {
	return r.ListLatestWhere(ctx, "name", name)
}

// NewItemRecordRepository builds the go-repository-bun repository for items.
func NewItemRecordRepository(db *bun.DB) repository.Repository[*Item] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Item]{
		NewRecord: func() *Item { return &Item{} },
		GetID: func(item *Item) uuid.UUID {
			return item.ID
		},
		SetID: func(item *Item, id uuid.UUID) {
			item.ID = id
		},
		GetIdentifier: func() string {
			return "id"
		},
		GetIdentifierValue: func(item *Item) string {
			return item.ID.String()
		},
	})
}

// BunItemRepository persists zone items through bun.
type BunItemRepository struct {
	repo repository.Repository[*Item]
}

var _ ItemRepository = (*BunItemRepository)(nil)

// NewBunItemRepository constructs an uncached item repository.
func NewBunItemRepository(db *bun.DB) *BunItemRepository {
	return NewBunItemRepositoryWithCache(db, nil, nil)
}

// NewBunItemRepositoryWithCache constructs an item repository with optional
// caching.
func NewBunItemRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunItemRepository {
	return &BunItemRepository{
		repo: versioning.WrapWithCache(NewItemRecordRepository(db), cacheService, keySerializer),
	}
}

func (r *BunItemRepository) Create(ctx context.Context, item *Item) (*Item, error) {
	created, err := r.repo.Create(ctx, item)
	if err != nil {
		if versioning.IsUniqueViolation(err) {
			return nil, versioning.ErrDuplicateID
		}
		return nil, fmt.Errorf("zone item repository create: %w", err)
	}
	return created, nil
}

func (r *BunItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*Item, error) {
	item, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapItemError(err, id)
	}
	return item, nil
}

func (r *BunItemRepository) ListByZone(ctx context.Context, zoneID uuid.UUID) ([]*Item, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.content_zone_id = ?", zoneID)
		}),
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("?TableAlias.ordinal ASC, ?TableAlias.created_at ASC")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("zone item repository list: %w", err)
	}
	return records, nil
}

func (r *BunItemRepository) Update(ctx context.Context, item *Item) (*Item, error) {
	updated, err := r.repo.Update(ctx, item,
		repository.UpdateByID(item.ID.String()),
		repository.UpdateColumns(
			"ordinal",
			"component_name",
			"component_properties_json",
			"is_active",
			"modified_at",
		),
	)
	if err != nil {
		return nil, mapItemError(err, item.ID)
	}
	return updated, nil
}

func (r *BunItemRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	if _, err := r.GetByID(ctx, id); err != nil {
		if versioning.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	if err := r.repo.Delete(ctx, &Item{ID: id}); err != nil {
		return false, fmt.Errorf("zone item repository delete: %w", err)
	}
	return true, nil
}

func (r *BunItemRepository) DeleteByZone(ctx context.Context, zoneID uuid.UUID) (int, error) {
	items, err := r.ListByZone(ctx, zoneID)
	if err != nil {
		return 0, err
	}
	for i, item := range items {
		if err := r.repo.Delete(ctx, item); err != nil {
			return i, fmt.Errorf("zone item repository delete: %w", err)
		}
	}
	return len(items), nil
}

func (r *BunItemRepository) UpdateOrdinals(ctx context.Context, items []*Item) error {
	if len(items) == 0 {
		return nil
	}
	_, err := r.repo.UpdateMany(ctx, items, repository.UpdateColumns("ordinal", "modified_at"))
	if err != nil {
		return fmt.Errorf("zone item repository reorder: %w", err)
	}
	return nil
}

func mapItemError(err error, id uuid.UUID) error {
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &versioning.NotFoundError{Resource: itemResource, Key: id.String()}
	}
	return fmt.Errorf("zone item repository error: %w", err)
}
