package versioning

import (
	"context"
	"reflect"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// Store implements append-only versioning over a Repository. Updates insert
// a new row with a fresh ID and Version+1 under the same MasterID.
type Store[T Entity] struct {
	repo Repository[T]
	cfg  settings
}

// NewStore wraps repo.
func NewStore[T Entity](repo Repository[T], opts ...Option) *Store[T] {
	if repo == nil {
		panic("versioning: repository is required")
	}
	cfg := defaultSettings()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return &Store[T]{repo: repo, cfg: cfg}
}

// Repository returns the storage port the store writes through.
func (s *Store[T]) Repository() Repository[T] {
	return s.repo
}

// Resource returns the configured resource name.
func (s *Store[T]) Resource() string {
	return s.cfg.resource
}

// GetAll returns the latest row of every master ordered by ModificationDate,
// newest first. No lifecycle filtering is applied.
func (s *Store[T]) GetAll(ctx context.Context) ([]T, error) {
	rows, err := s.repo.ListLatest(ctx)
	if err != nil {
		return nil, err
	}
	SortByModification(rows)
	return rows, nil
}

// GetByID returns the exact version row.
func (s *Store[T]) GetByID(ctx context.Context, id uuid.UUID) (T, error) {
	return s.repo.GetByID(ctx, id)
}

// GetByMasterID returns the latest row of masterID.
func (s *Store[T]) GetByMasterID(ctx context.Context, masterID uuid.UUID) (T, error) {
	return s.repo.Latest(ctx, masterID)
}

// GetAllVersions returns the full history of masterID, oldest first.
func (s *Store[T]) GetAllVersions(ctx context.Context, masterID uuid.UUID) ([]T, error) {
	return s.repo.ListVersions(ctx, masterID)
}

// GetBySlug returns the highest Version row carrying slug.
func (s *Store[T]) GetBySlug(ctx context.Context, slug string) (T, error) {
	var zero T
	rows, err := s.repo.ListBySlug(ctx, slug)
	if err != nil {
		return zero, err
	}
	if len(rows) == 0 {
		return zero, &NotFoundError{Resource: s.cfg.resource, Key: slug}
	}
	best := rows[0]
	for _, row := range rows[1:] {
		if newerThan(row.Base(), best.Base()) {
			best = row
		}
	}
	return best, nil
}

// Create stores entity as version 0 of a new master. Identifiers and
// timestamps are assigned on the passed entity.
func (s *Store[T]) Create(ctx context.Context, entity T) (T, error) {
	var zero T
	if isNil(entity) {
		return zero, ErrEntityRequired
	}
	if err := s.runPrepare(entity); err != nil {
		return zero, err
	}

	now := s.cfg.now()
	base := entity.Base()
	id := s.cfg.newID()
	base.ID = id
	base.MasterID = id
	base.Version = 0
	base.CreationDate = now
	base.ModificationDate = now
	s.stamp(base)

	created, err := s.repo.Insert(ctx, entity)
	if err != nil {
		s.cfg.logger.Error("versioning.create.failed", "resource", s.cfg.resource, "error", err)
		return zero, err
	}
	s.cfg.logger.Debug("versioning.create", "resource", s.cfg.resource, "master_id", base.MasterID)
	return created, nil
}

// Update appends a new version derived from the row entity.ID names. The
// passed entity is rewritten with the new ID, the master's MasterID and the
// next Version number. With optimistic concurrency enabled the update fails
// with ErrVersionConflict when entity.ID is not the latest row.
func (s *Store[T]) Update(ctx context.Context, entity T) (T, error) {
	var zero T
	if isNil(entity) {
		return zero, ErrEntityRequired
	}
	base := entity.Base()
	current, err := s.repo.GetByID(ctx, base.ID)
	if err != nil {
		return zero, err
	}
	currentBase := current.Base()
	latest, err := s.repo.Latest(ctx, currentBase.MasterID)
	if err != nil {
		return zero, err
	}
	latestBase := latest.Base()
	if s.cfg.rejectStale && latestBase.ID != currentBase.ID {
		return zero, &VersionConflictError{
			Resource: s.cfg.resource,
			MasterID: currentBase.MasterID,
			Based:    currentBase.Version,
			Latest:   latestBase.Version,
		}
	}
	if err := s.runPrepare(entity); err != nil {
		return zero, err
	}

	base.ID = s.cfg.newID()
	base.MasterID = currentBase.MasterID
	base.Version = latestBase.Version + 1
	base.CreationDate = currentBase.CreationDate
	base.ModificationDate = s.cfg.now()
	s.stamp(base)

	updated, err := s.repo.Insert(ctx, entity)
	if err != nil {
		s.cfg.logger.Warn("versioning.update.failed", "resource", s.cfg.resource, "master_id", base.MasterID, "error", err)
		return zero, err
	}
	s.cfg.logger.Debug("versioning.update", "resource", s.cfg.resource, "master_id", base.MasterID, "version", base.Version)
	return updated, nil
}

// Upsert creates when entity has no ID or MasterID, otherwise updates.
func (s *Store[T]) Upsert(ctx context.Context, entity T) (T, error) {
	var zero T
	if isNil(entity) {
		return zero, ErrEntityRequired
	}
	base := entity.Base()
	if base.ID == uuid.Nil || base.MasterID == uuid.Nil {
		return s.Create(ctx, entity)
	}
	return s.Update(ctx, entity)
}

// Delete removes the row id names, or its whole history. A soft delete of a
// single row appends a new version marked deleted and unpublished; a soft
// delete of the history flags every existing row in place and appends
// nothing. It reports false when id does not exist.
func (s *Store[T]) Delete(ctx context.Context, id uuid.UUID, softDelete, deleteHistory bool) (bool, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	masterID := row.Base().MasterID
	logger := s.cfg.logger

	switch {
	case !softDelete && !deleteHistory:
		logger.Debug("versioning.delete.row", "resource", s.cfg.resource, "id", id)
		return s.repo.DeleteByID(ctx, id)
	case !softDelete && deleteHistory:
		removed, err := s.repo.DeleteByMaster(ctx, masterID)
		if err != nil {
			return false, err
		}
		logger.Debug("versioning.delete.history", "resource", s.cfg.resource, "master_id", masterID, "rows", removed)
		return removed > 0, nil
	case softDelete && !deleteHistory:
		latest, err := s.repo.Latest(ctx, masterID)
		if err != nil {
			return false, err
		}
		base := latest.Base()
		now := s.cfg.now()
		base.IsDeleted = true
		base.IsPublished = false
		base.ID = s.cfg.newID()
		base.Version++
		base.ModificationDate = now
		if _, err := s.repo.Insert(ctx, latest); err != nil {
			return false, err
		}
		logger.Debug("versioning.delete.soft", "resource", s.cfg.resource, "master_id", masterID, "version", base.Version)
		return true, nil
	default:
		rows, err := s.repo.ListVersions(ctx, masterID)
		if err != nil {
			return false, err
		}
		now := s.cfg.now()
		for _, r := range rows {
			base := r.Base()
			base.IsDeleted = true
			base.IsPublished = false
			base.ModificationDate = now
		}
		if err := s.repo.UpdateFlags(ctx, rows); err != nil {
			return false, err
		}
		logger.Debug("versioning.delete.soft_history", "resource", s.cfg.resource, "master_id", masterID, "rows", len(rows))
		return true, nil
	}
}

func (s *Store[T]) stamp(base *ContentEntity) {
	if strings.TrimSpace(base.Slug) == "" {
		base.Slug = DeriveSlug(base.Title)
	}
	if base.IsPublished && base.PublicationDate == nil {
		published := base.ModificationDate
		base.PublicationDate = &published
	}
}

func (s *Store[T]) runPrepare(entity T) error {
	for _, fn := range s.cfg.prepare {
		if err := fn(entity); err != nil {
			return err
		}
	}
	return nil
}

// SortByModification orders rows newest first, breaking ties by ID so the
// result is deterministic.
func SortByModification[T Entity](rows []T) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i].Base(), rows[j].Base()
		if !a.ModificationDate.Equal(b.ModificationDate) {
			return a.ModificationDate.After(b.ModificationDate)
		}
		return a.ID.String() < b.ID.String()
	})
}

func newerThan(a, b *ContentEntity) bool {
	if a.MasterID == b.MasterID {
		return a.Version > b.Version
	}
	return a.ModificationDate.After(b.ModificationDate)
}

func isNil(entity any) bool {
	if entity == nil {
		return true
	}
	v := reflect.ValueOf(entity)
	return v.Kind() == reflect.Pointer && v.IsNil()
}
