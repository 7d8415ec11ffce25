package versioning

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MemoryRepository keeps version rows in a map. It enforces the same
// (master_id, version) uniqueness the SQL schema declares.
type MemoryRepository[T Entity] struct {
	mu       sync.RWMutex
	rows     map[uuid.UUID]T
	clone    func(T) T
	resource string
}

var _ Repository[Entity] = (*MemoryRepository[Entity])(nil)

// NewMemoryRepository constructs an empty repository. clone must return a
// deep copy so callers never share state with stored rows.
func NewMemoryRepository[T Entity](resource string, clone func(T) T) *MemoryRepository[T] {
	if clone == nil {
		panic("versioning: memory repository requires a clone func")
	}
	return &MemoryRepository[T]{
		rows:     make(map[uuid.UUID]T),
		clone:    clone,
		resource: resource,
	}
}

func (m *MemoryRepository[T]) Insert(_ context.Context, record T) (T, error) {
	var zero T
	m.mu.Lock()
	defer m.mu.Unlock()

	base := record.Base()
	if _, exists := m.rows[base.ID]; exists {
		return zero, ErrDuplicateID
	}
	for _, row := range m.rows {
		existing := row.Base()
		if existing.MasterID == base.MasterID && existing.Version == base.Version {
			return zero, &VersionConflictError{
				Resource: m.resource,
				MasterID: base.MasterID,
				Based:    base.Version - 1,
				Latest:   m.latestVersionLocked(base.MasterID),
			}
		}
	}
	m.rows[base.ID] = m.clone(record)
	return m.clone(record), nil
}

func (m *MemoryRepository[T]) GetByID(_ context.Context, id uuid.UUID) (T, error) {
	var zero T
	m.mu.RLock()
	defer m.mu.RUnlock()
	row, ok := m.rows[id]
	if !ok {
		return zero, &NotFoundError{Resource: m.resource, Key: id.String()}
	}
	return m.clone(row), nil
}

func (m *MemoryRepository[T]) ListVersions(ctx context.Context, masterID uuid.UUID) ([]T, error) {
	return m.Find(ctx, func(row T) bool {
		return row.Base().MasterID == masterID
	})
}

func (m *MemoryRepository[T]) Latest(ctx context.Context, masterID uuid.UUID) (T, error) {
	var zero T
	rows, err := m.ListVersions(ctx, masterID)
	if err != nil {
		return zero, err
	}
	if len(rows) == 0 {
		return zero, &NotFoundError{Resource: m.resource, Key: masterID.String()}
	}
	return rows[len(rows)-1], nil
}

func (m *MemoryRepository[T]) ListLatest(_ context.Context) ([]T, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	latest := make(map[uuid.UUID]T)
	for _, row := range m.rows {
		base := row.Base()
		current, ok := latest[base.MasterID]
		if !ok || current.Base().Version < base.Version {
			latest[base.MasterID] = row
		}
	}
	out := make([]T, 0, len(latest))
	for _, row := range latest {
		out = append(out, m.clone(row))
	}
	return out, nil
}

func (m *MemoryRepository[T]) ListBySlug(ctx context.Context, slug string) ([]T, error) {
	return m.Find(ctx, func(row T) bool {
		return row.Base().Slug == slug
	})
}

func (m *MemoryRepository[T]) DeleteByID(_ context.Context, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return false, nil
	}
	delete(m.rows, id)
	return true, nil
}

func (m *MemoryRepository[T]) DeleteByMaster(_ context.Context, masterID uuid.UUID) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for id, row := range m.rows {
		if row.Base().MasterID == masterID {
			delete(m.rows, id)
			removed++
		}
	}
	return removed, nil
}

func (m *MemoryRepository[T]) UpdateFlags(_ context.Context, records []T) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, record := range records {
		base := record.Base()
		row, ok := m.rows[base.ID]
		if !ok {
			return &NotFoundError{Resource: m.resource, Key: base.ID.String()}
		}
		updated := m.clone(row)
		target := updated.Base()
		target.IsPublished = base.IsPublished
		target.IsArchived = base.IsArchived
		target.IsHidden = base.IsHidden
		target.IsDeleted = base.IsDeleted
		target.ModificationDate = base.ModificationDate
		m.rows[base.ID] = updated
	}
	return nil
}

// Find returns clones of every row matching match, ordered by master then
// ascending Version.
func (m *MemoryRepository[T]) Find(_ context.Context, match func(T) bool) ([]T, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]T, 0)
	for _, row := range m.rows {
		if match == nil || match(row) {
			out = append(out, m.clone(row))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Base(), out[j].Base()
		if a.MasterID != b.MasterID {
			return a.MasterID.String() < b.MasterID.String()
		}
		return a.Version < b.Version
	})
	return out, nil
}

func (m *MemoryRepository[T]) latestVersionLocked(masterID uuid.UUID) int {
	latest := -1
	for _, row := range m.rows {
		base := row.Base()
		if base.MasterID == masterID && base.Version > latest {
			latest = base.Version
		}
	}
	return latest
}
