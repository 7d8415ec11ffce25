package admin

import (
	"context"
	"reflect"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-cms-zones/internal/logging"
	"github.com/goliatone/go-cms-zones/internal/versioning"
	"github.com/goliatone/go-cms-zones/pkg/interfaces"
	"github.com/google/uuid"
)

// Validator checks an entity before it is saved. Returned errors are
// surfaced to callers unchanged.
type Validator[T versioning.Entity] func(ctx context.Context, entity T) error

// Option configures a Service.
type Option[T versioning.Entity] func(*Service[T])

// WithValidator appends a save-time check.
func WithValidator[T versioning.Entity](fn Validator[T]) Option[T] {
	return func(s *Service[T]) {
		if fn != nil {
			s.validators = append(s.validators, fn)
		}
	}
}

// WithLogger sets the service logger.
func WithLogger[T versioning.Entity](logger interfaces.Logger) Option[T] {
	return func(s *Service[T]) {
		s.logger = logging.OrNoOp(logger)
	}
}

// ListOptions filters and pages List results.
type ListOptions struct {
	IncludeDeleted bool
	PublishedOnly  bool
	Offset         int
	Limit          int
}

// Service is the CRUD façade over one versioned content type.
type Service[T versioning.Entity] struct {
	store      *versioning.Store[T]
	validators []Validator[T]
	logger     interfaces.Logger
}

// NewService wraps store.
func NewService[T versioning.Entity](store *versioning.Store[T], opts ...Option[T]) *Service[T] {
	s := &Service[T]{store: store, logger: logging.NoOp()}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Store exposes the wrapped store.
func (s *Service[T]) Store() *versioning.Store[T] {
	return s.store
}

// Resource names the content type.
func (s *Service[T]) Resource() string {
	return s.store.Resource()
}

// List returns the latest version of every entity, newest first, with the
// total count before paging.
func (s *Service[T]) List(ctx context.Context, opts ListOptions) ([]T, int, error) {
	rows, err := s.store.GetAll(ctx)
	if err != nil {
		return nil, 0, mapStoreError(err, s.Resource(), "list")
	}
	filtered := rows[:0]
	for _, row := range rows {
		base := row.Base()
		if base.IsDeleted && !opts.IncludeDeleted {
			continue
		}
		if opts.PublishedOnly && !base.IsVisible() {
			continue
		}
		filtered = append(filtered, row)
	}
	total := len(filtered)
	start := min(max(opts.Offset, 0), total)
	end := total
	if opts.Limit > 0 {
		end = min(start+opts.Limit, total)
	}
	return filtered[start:end], total, nil
}

// Get returns the version row id names.
func (s *Service[T]) Get(ctx context.Context, id uuid.UUID) (T, error) {
	row, err := s.store.GetByID(ctx, id)
	if err != nil {
		var zero T
		return zero, mapStoreError(err, s.Resource(), id.String())
	}
	return row, nil
}

// GetByMaster returns the latest version of masterID.
func (s *Service[T]) GetByMaster(ctx context.Context, masterID uuid.UUID) (T, error) {
	row, err := s.store.GetByMasterID(ctx, masterID)
	if err != nil {
		var zero T
		return zero, mapStoreError(err, s.Resource(), masterID.String())
	}
	return row, nil
}

// Versions returns the history of the entity owning id, which may be a row
// id or a master id.
func (s *Service[T]) Versions(ctx context.Context, id uuid.UUID) ([]T, error) {
	masterID := id
	if row, err := s.store.GetByID(ctx, id); err == nil {
		masterID = row.Base().MasterID
	} else if !versioning.IsNotFound(err) {
		return nil, mapStoreError(err, s.Resource(), id.String())
	}
	rows, err := s.store.GetAllVersions(ctx, masterID)
	if err != nil {
		return nil, mapStoreError(err, s.Resource(), id.String())
	}
	if len(rows) == 0 {
		return nil, notFound(s.Resource(), id.String())
	}
	return rows, nil
}

// Save validates entity and creates or appends a version of it.
func (s *Service[T]) Save(ctx context.Context, entity T) (T, error) {
	var zero T
	if isNilEntity(entity) {
		return zero, mapStoreError(versioning.ErrEntityRequired, s.Resource(), "")
	}
	if err := validateBase(entity.Base()); err != nil {
		return zero, err
	}
	for _, validate := range s.validators {
		if err := validate(ctx, entity); err != nil {
			return zero, err
		}
	}
	saved, err := s.store.Upsert(ctx, entity)
	if err != nil {
		return zero, mapStoreError(err, s.Resource(), entity.Base().ID.String())
	}
	base := saved.Base()
	s.logger.WithContext(ctx).Info("admin.save", "resource", s.Resource(), "master_id", base.MasterID, "version", base.Version)
	return saved, nil
}

// Delete removes id following the store delete matrix.
func (s *Service[T]) Delete(ctx context.Context, id uuid.UUID, soft, history bool) error {
	ok, err := s.store.Delete(ctx, id, soft, history)
	if err != nil {
		return mapStoreError(err, s.Resource(), id.String())
	}
	if !ok {
		return notFound(s.Resource(), id.String())
	}
	s.logger.WithContext(ctx).Info("admin.delete", "resource", s.Resource(), "id", id, "soft", soft, "history", history)
	return nil
}

func validateBase(base *versioning.ContentEntity) error {
	base.Title = strings.TrimSpace(base.Title)
	base.Slug = strings.TrimSpace(base.Slug)
	return invalid(validation.ValidateStruct(base,
		validation.Field(&base.Title, validation.Required, validation.Length(1, 255)),
		validation.Field(&base.Slug, validation.Length(0, 255)),
		validation.Field(&base.PublicationEndDate, validation.By(func(any) error {
			if base.PublicationEndDate != nil && base.PublicationDate != nil && base.PublicationEndDate.Before(*base.PublicationDate) {
				return validation.NewError("publication_end_before_start", "must not precede the publication date")
			}
			return nil
		})),
	), "content is invalid")
}

func isNilEntity[T versioning.Entity](entity T) bool {
	v := reflect.ValueOf(entity)
	return !v.IsValid() || (v.Kind() == reflect.Pointer && v.IsNil())
}
