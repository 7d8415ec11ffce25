package zones

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/goliatone/go-cms-zones/internal/logging"
	"github.com/goliatone/go-cms-zones/internal/versioning"
	"github.com/goliatone/go-cms-zones/pkg/interfaces"
	"github.com/google/uuid"
)

// Service manages zones and their items.
type Service struct {
	zones    *versioning.Store[*Zone]
	zoneRepo ZoneRepository
	items    ItemRepository
	now      func() time.Time
	newID    func() uuid.UUID
	logger   interfaces.Logger
	storeOps []versioning.Option
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the timestamp source for zones and items.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
			s.storeOps = append(s.storeOps, versioning.WithClock(now))
		}
	}
}

// WithIDGenerator overrides id allocation for zones and items.
func WithIDGenerator(fn func() uuid.UUID) Option {
	return func(s *Service) {
		if fn != nil {
			s.newID = fn
			s.storeOps = append(s.storeOps, versioning.WithIDGenerator(fn))
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(s *Service) {
		s.logger = logging.OrNoOp(logger)
		s.storeOps = append(s.storeOps, versioning.WithLogger(logger))
	}
}

// WithStoreOptions forwards options to the underlying versioned store.
func WithStoreOptions(opts ...versioning.Option) Option {
	return func(s *Service) {
		s.storeOps = append(s.storeOps, opts...)
	}
}

// NewService constructs the zone service.
func NewService(zoneRepo ZoneRepository, items ItemRepository, opts ...Option) *Service {
	s := &Service{
		zoneRepo: zoneRepo,
		items:    items,
		now:      func() time.Time { return time.Now().UTC() },
		newID:    uuid.New,
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	storeOpts := append([]versioning.Option{versioning.WithResource(zoneResource)}, s.storeOps...)
	s.zones = versioning.NewStore[*Zone](zoneRepo, storeOpts...)
	return s
}

// Store exposes the versioned zone store.
func (s *Service) Store() *versioning.Store[*Zone] {
	return s.zones
}

// Items exposes the item repository.
func (s *Service) Items() ItemRepository {
	return s.items
}

// GetByName returns the published zone called name with its active items in
// Ordinal order.
func (s *Service) GetByName(ctx context.Context, name string) (*Zone, error) {
	zone, err := s.latestByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if zone == nil || !zone.IsVisible() {
		return nil, &versioning.NotFoundError{Resource: zoneResource, Key: name}
	}
	items, err := s.items.ListByZone(ctx, zone.MasterID)
	if err != nil {
		return nil, err
	}
	active := items[:0]
	for _, item := range items {
		if item.IsActive {
			active = append(active, item)
		}
	}
	zone.Items = active
	return zone, nil
}

// GetByID returns the zone id names, as a version row or a master, with all
// of its items.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Zone, error) {
	zone, err := s.resolve(ctx, id)
	if err != nil {
		return nil, err
	}
	items, err := s.items.ListByZone(ctx, zone.MasterID)
	if err != nil {
		return nil, err
	}
	zone.Items = items
	return zone, nil
}

// IsNameAvailable reports whether no live zone other than excludeMasterID
// uses name. Names compare case-sensitively.
func (s *Service) IsNameAvailable(ctx context.Context, name string, excludeMasterID *uuid.UUID) (bool, error) {
	owners, err := s.zoneRepo.ListLatestByName(ctx, name)
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

// AddItem appends item to the zone zoneID names. A zero Ordinal is replaced
// by one past the current maximum.
func (s *Service) AddItem(ctx context.Context, zoneID uuid.UUID, item *Item) (*Item, error) {
	if item == nil {
		return nil, ErrItemRequired
	}
	if strings.TrimSpace(item.ComponentName) == "" {
		return nil, ErrComponentRequired
	}
	zone, err := s.resolve(ctx, zoneID)
	if err != nil {
		if versioning.IsNotFound(err) {
			return nil, ErrZoneNotFound
		}
		return nil, err
	}

	if item.Ordinal == 0 {
		existing, err := s.items.ListByZone(ctx, zone.MasterID)
		if err != nil {
			return nil, err
		}
		highest := 0
		for _, e := range existing {
			if e.Ordinal > highest {
				highest = e.Ordinal
			}
		}
		item.Ordinal = highest + 1
	}

	now := s.now()
	if item.ID == uuid.Nil {
		item.ID = s.newID()
	}
	item.ContentZoneID = zone.MasterID
	item.CreatedAt = now
	item.ModifiedAt = now

	created, err := s.items.Create(ctx, item)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("zones.item.added", "zone", zone.Name, "item_id", created.ID, "ordinal", created.Ordinal)
	return created, nil
}

// UpdateItem overwrites the mutable fields of an existing item. It reports
// false when the item does not exist.
func (s *Service) UpdateItem(ctx context.Context, item *Item) (bool, error) {
	if item == nil {
		return false, ErrItemRequired
	}
	existing, err := s.items.GetByID(ctx, item.ID)
	if err != nil {
		if versioning.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	existing.Ordinal = item.Ordinal
	existing.ComponentName = item.ComponentName
	existing.ComponentPropertiesJSON = item.ComponentPropertiesJSON
	existing.IsActive = item.IsActive
	existing.ModifiedAt = s.now()
	if _, err := s.items.Update(ctx, existing); err != nil {
		return false, err
	}
	*item = *existing
	return true, nil
}

// RemoveItem deletes an item, reporting false when it does not exist.
func (s *Service) RemoveItem(ctx context.Context, itemID uuid.UUID) (bool, error) {
	return s.items.Delete(ctx, itemID)
}

// ReorderItems assigns Ordinal 1..n to the listed items of the zone in the
// given order. Ids outside the zone are ignored and unlisted items keep
// their Ordinal.
func (s *Service) ReorderItems(ctx context.Context, zoneID uuid.UUID, orderedIDs []uuid.UUID) error {
	zone, err := s.resolve(ctx, zoneID)
	if err != nil {
		if versioning.IsNotFound(err) {
			return ErrZoneNotFound
		}
		return err
	}
	items, err := s.items.ListByZone(ctx, zone.MasterID)
	if err != nil {
		return err
	}
	byID := make(map[uuid.UUID]*Item, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}

	now := s.now()
	changed := make([]*Item, 0, len(orderedIDs))
	for position, id := range orderedIDs {
		item, ok := byID[id]
		if !ok {
			continue
		}
		item.Ordinal = position + 1
		item.ModifiedAt = now
		changed = append(changed, item)
	}
	if err := s.items.UpdateOrdinals(ctx, changed); err != nil {
		return err
	}
	s.logger.Debug("zones.items.reordered", "zone", zone.Name, "moved", len(changed))
	return nil
}

// DeleteItemsOf removes every item of the zone master.
func (s *Service) DeleteItemsOf(ctx context.Context, masterID uuid.UUID) (int, error) {
	return s.items.DeleteByZone(ctx, masterID)
}

func (s *Service) resolve(ctx context.Context, id uuid.UUID) (*Zone, error) {
	row, err := s.zones.GetByID(ctx, id)
	if err == nil {
		return row, nil
	}
	if !versioning.IsNotFound(err) {
		return nil, err
	}
	return s.zones.GetByMasterID(ctx, id)
}

func (s *Service) latestByName(ctx context.Context, name string) (*Zone, error) {
	owners, err := s.zoneRepo.ListLatestByName(ctx, name)
	if err != nil {
		return nil, err
	}
	var best *Zone
	for _, owner := range owners {
		if owner.IsDeleted {
			continue
		}
		if best == nil || owner.ModificationDate.After(best.ModificationDate) {
			best = owner
		}
	}
	if best == nil && len(owners) > 0 {
		best = owners[0]
	}
	return best, nil
}

func isDuplicate(err error) bool {
	return errors.Is(err, versioning.ErrDuplicateID) || errors.Is(err, versioning.ErrVersionConflict)
}
