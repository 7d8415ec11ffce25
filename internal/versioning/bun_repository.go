package versioning

import (
	"context"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// BunRepository stores version rows through go-repository-bun. Every entity
// table carries the ContentEntity columns, so the same queries serve all of
// them.
type BunRepository[T Entity] struct {
	db        *bun.DB
	repo      repository.Repository[T]
	newRecord func() T
	resource  string
}

// NewRecordRepository builds the go-repository-bun repository for T. Rows are
// identified by slug.
func NewRecordRepository[T Entity](db *bun.DB, newRecord func() T) repository.Repository[T] {
	return repository.MustNewRepository(db, repository.ModelHandlers[T]{
		NewRecord: newRecord,
		GetID: func(record T) uuid.UUID {
			return record.Base().ID
		},
		SetID: func(record T, id uuid.UUID) {
			record.Base().ID = id
		},
		GetIdentifier: func() string {
			return "slug"
		},
		GetIdentifierValue: func(record T) string {
			return record.Base().Slug
		},
	})
}

// NewBunRepository constructs an uncached repository.
func NewBunRepository[T Entity](db *bun.DB, resource string, newRecord func() T) *BunRepository[T] {
	return NewBunRepositoryWithCache(db, resource, newRecord, nil, nil)
}

// NewBunRepositoryWithCache wraps the record repository with
// go-repository-cache when both cache arguments are set.
func NewBunRepositoryWithCache[T Entity](db *bun.DB, resource string, newRecord func() T, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunRepository[T] {
	return &BunRepository[T]{
		db:        db,
		repo:      WrapWithCache(NewRecordRepository(db, newRecord), cacheService, keySerializer),
		newRecord: newRecord,
		resource:  resource,
	}
}

func (r *BunRepository[T]) Insert(ctx context.Context, record T) (T, error) {
	created, err := r.repo.Create(ctx, record)
	if err != nil {
		var zero T
		if IsUniqueViolation(err) {
			base := record.Base()
			return zero, &VersionConflictError{
				Resource: r.resource,
				MasterID: base.MasterID,
				Based:    base.Version - 1,
				Latest:   base.Version,
			}
		}
		return zero, fmt.Errorf("%s repository insert: %w", r.resource, err)
	}
	return created, nil
}

func (r *BunRepository[T]) GetByID(ctx context.Context, id uuid.UUID) (T, error) {
	record, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		var zero T
		return zero, r.mapError(err, id.String())
	}
	return record, nil
}

func (r *BunRepository[T]) ListVersions(ctx context.Context, masterID uuid.UUID) ([]T, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.master_id = ?", masterID)
		}),
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("?TableAlias.version ASC")
		}),
	)
	if err != nil {
		return nil, r.mapError(err, masterID.String())
	}
	return records, nil
}

func (r *BunRepository[T]) Latest(ctx context.Context, masterID uuid.UUID) (T, error) {
	var zero T
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.master_id = ?", masterID)
		}),
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("?TableAlias.version DESC")
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return zero, r.mapError(err, masterID.String())
	}
	if len(records) == 0 {
		return zero, &NotFoundError{Resource: r.resource, Key: masterID.String()}
	}
	return records[0], nil
}

func (r *BunRepository[T]) ListLatest(ctx context.Context) ([]T, error) {
	records, _, err := r.repo.List(ctx, repository.SelectRawProcessor(latestOnly))
	if err != nil {
		return nil, r.mapError(err, "latest")
	}
	return records, nil
}

func (r *BunRepository[T]) ListBySlug(ctx context.Context, slug string) ([]T, error) {
	return r.ListWhere(ctx, "slug", slug)
}

// ListWhere returns every row whose column equals value, ordered by master
// and ascending Version.
func (r *BunRepository[T]) ListWhere(ctx context.Context, column string, value any) ([]T, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.? = ?", bun.Ident(column), value)
		}),
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("?TableAlias.master_id ASC, ?TableAlias.version ASC")
		}),
	)
	if err != nil {
		return nil, r.mapError(err, fmt.Sprint(value))
	}
	return records, nil
}

// ListLatestWhere applies ListWhere to latest rows only.
func (r *BunRepository[T]) ListLatestWhere(ctx context.Context, column string, value any) ([]T, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(latestOnly),
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.? = ?", bun.Ident(column), value)
		}),
	)
	if err != nil {
		return nil, r.mapError(err, fmt.Sprint(value))
	}
	return records, nil
}

func (r *BunRepository[T]) DeleteByID(ctx context.Context, id uuid.UUID) (bool, error) {
	if _, err := r.GetByID(ctx, id); err != nil {
		if IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	record := r.newRecord()
	record.Base().ID = id
	if err := r.repo.Delete(ctx, record); err != nil {
		return false, fmt.Errorf("%s repository delete: %w", r.resource, err)
	}
	return true, nil
}

func (r *BunRepository[T]) DeleteByMaster(ctx context.Context, masterID uuid.UUID) (int, error) {
	rows, err := r.ListVersions(ctx, masterID)
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, row := range rows {
		if err := r.repo.Delete(ctx, row); err != nil {
			return removed, fmt.Errorf("%s repository delete history: %w", r.resource, err)
		}
		removed++
	}
	return removed, nil
}

func (r *BunRepository[T]) UpdateFlags(ctx context.Context, records []T) error {
	if len(records) == 0 {
		return nil
	}
	_, err := r.repo.UpdateMany(ctx, records,
		repository.UpdateColumns(
			"is_published",
			"is_archived",
			"is_hidden",
			"is_deleted",
			"modification_date",
		),
	)
	if err != nil {
		return fmt.Errorf("%s repository update flags: %w", r.resource, err)
	}
	return nil
}

// Records exposes the underlying go-repository-bun repository.
func (r *BunRepository[T]) Records() repository.Repository[T] {
	return r.repo
}

func (r *BunRepository[T]) mapError(err error, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{Resource: r.resource, Key: key}
	}
	return fmt.Errorf("%s repository error: %w", r.resource, err)
}

func latestOnly(q *bun.SelectQuery) *bun.SelectQuery {
	return q.Where("?TableAlias.version = (SELECT MAX(latest.version) FROM ?TableName AS latest WHERE latest.master_id = ?TableAlias.master_id)")
}

// WrapWithCache decorates base with go-repository-cache when configured.
func WrapWithCache[T any](base repository.Repository[T], cacheService cache.CacheService, keySerializer cache.KeySerializer) repository.Repository[T] {
	if cacheService == nil || keySerializer == nil {
		return base
	}
	return repositorycache.New(base, cacheService, keySerializer)
}
