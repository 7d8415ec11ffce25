package versioning

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the storage port behind a Store. Rows are never updated in
// place except through UpdateFlags.
type Repository[T Entity] interface {
	Insert(ctx context.Context, record T) (T, error)
	GetByID(ctx context.Context, id uuid.UUID) (T, error)
	// ListVersions returns every row of masterID ordered by ascending Version.
	ListVersions(ctx context.Context, masterID uuid.UUID) ([]T, error)
	// Latest returns the highest Version row of masterID.
	Latest(ctx context.Context, masterID uuid.UUID) (T, error)
	// ListLatest returns the highest Version row of every master.
	ListLatest(ctx context.Context) ([]T, error)
	ListBySlug(ctx context.Context, slug string) ([]T, error)
	DeleteByID(ctx context.Context, id uuid.UUID) (bool, error)
	DeleteByMaster(ctx context.Context, masterID uuid.UUID) (int, error)
	// UpdateFlags persists the lifecycle flags and modification date of
	// existing rows.
	UpdateFlags(ctx context.Context, records []T) error
}
