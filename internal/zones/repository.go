package zones

import (
	"context"
	"sort"
	"sync"

	"github.com/goliatone/go-cms-zones/internal/versioning"
	"github.com/google/uuid"
)

const (
	zoneResource = "content zone"
	itemResource = "content zone item"
)

// ZoneRepository adds name lookups to the versioned storage port.
type ZoneRepository interface {
	versioning.Repository[*Zone]
	// ListLatestByName returns latest rows whose Name equals name exactly.
	ListLatestByName(ctx context.Context, name string) ([]*Zone, error)
}

// ItemRepository stores zone items. Items are mutable rows.
type ItemRepository interface {
	Create(ctx context.Context, item *Item) (*Item, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Item, error)
	// ListByZone returns the items of zoneID ordered by Ordinal.
	ListByZone(ctx context.Context, zoneID uuid.UUID) ([]*Item, error)
	Update(ctx context.Context, item *Item) (*Item, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	DeleteByZone(ctx context.Context, zoneID uuid.UUID) (int, error)
	// UpdateOrdinals persists Ordinal and ModifiedAt of items.
	UpdateOrdinals(ctx context.Context, items []*Item) error
}

// MemoryZoneRepository is the in-memory zone store.
type MemoryZoneRepository struct {
	*versioning.MemoryRepository[*Zone]
}

var _ ZoneRepository = (*MemoryZoneRepository)(nil)

// NewMemoryZoneRepository constructs an empty zone repository.
func NewMemoryZoneRepository() *MemoryZoneRepository {
	return &MemoryZoneRepository{MemoryRepository: versioning.NewMemoryRepository(zoneResource, CloneZone)}
}

func (m *MemoryZoneRepository) ListLatestByName(ctx context.Context, name string) ([]*Zone, error) {
	latest, err := m.ListLatest(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*Zone, 0, 1)
	for _, zone := range latest {
		if zone.Name == name {
			out = append(out, zone)
		}
	}
	return out, nil
}

// MemoryItemRepository is the in-memory item store.
type MemoryItemRepository struct {
	mu    sync.RWMutex
	items map[uuid.UUID]*Item
}

var _ ItemRepository = (*MemoryItemRepository)(nil)

// NewMemoryItemRepository constructs an empty item repository.
func NewMemoryItemRepository() *MemoryItemRepository {
	return &MemoryItemRepository{items: make(map[uuid.UUID]*Item)}
}

func (m *MemoryItemRepository) Create(_ context.Context, item *Item) (*Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.items[item.ID]; exists {
		return nil, versioning.ErrDuplicateID
	}
	m.items[item.ID] = CloneItem(item)
	return CloneItem(item), nil
}

func (m *MemoryItemRepository) GetByID(_ context.Context, id uuid.UUID) (*Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	item, ok := m.items[id]
	if !ok {
		return nil, &versioning.NotFoundError{Resource: itemResource, Key: id.String()}
	}
	return CloneItem(item), nil
}

func (m *MemoryItemRepository) ListByZone(_ context.Context, zoneID uuid.UUID) ([]*Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Item, 0)
	for _, item := range m.items {
		if item.ContentZoneID == zoneID {
			out = append(out, CloneItem(item))
		}
	}
	SortItems(out)
	return out, nil
}

func (m *MemoryItemRepository) Update(_ context.Context, item *Item) (*Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[item.ID]; !ok {
		return nil, &versioning.NotFoundError{Resource: itemResource, Key: item.ID.String()}
	}
	m.items[item.ID] = CloneItem(item)
	return CloneItem(item), nil
}

func (m *MemoryItemRepository) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return false, nil
	}
	delete(m.items, id)
	return true, nil
}

func (m *MemoryItemRepository) DeleteByZone(_ context.Context, zoneID uuid.UUID) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for id, item := range m.items {
		if item.ContentZoneID == zoneID {
			delete(m.items, id)
			removed++
		}
	}
	return removed, nil
}

func (m *MemoryItemRepository) UpdateOrdinals(_ context.Context, items []*Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, item := range items {
		stored, ok := m.items[item.ID]
		if !ok {
			return &versioning.NotFoundError{Resource: itemResource, Key: item.ID.String()}
		}
		stored.Ordinal = item.Ordinal
		stored.ModifiedAt = item.ModifiedAt
	}
	return nil
}

// SortItems orders items by Ordinal, then creation time.
func SortItems(items []*Item) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Ordinal != items[j].Ordinal {
			return items[i].Ordinal < items[j].Ordinal
		}
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
}
