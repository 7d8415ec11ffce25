package admin

import (
	"context"
	"errors"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-cms-zones/internal/registry"
	"github.com/goliatone/go-cms-zones/internal/zones"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// Zones is the admin façade for content zones and their items.
type Zones struct {
	*Service[*zones.Zone]
	zones      *zones.Service
	components *registry.Registry
}

// NewZones builds the zone façade over svc.
func NewZones(svc *zones.Service, components *registry.Registry, opts ...Option[*zones.Zone]) *Zones {
	z := &Zones{zones: svc, components: components}
	all := append([]Option[*zones.Zone]{WithValidator(z.validate)}, opts...)
	z.Service = NewService[*zones.Zone](svc.Store(), all...)
	return z
}

// Get returns the zone id names with every item, active or not.
func (z *Zones) Get(ctx context.Context, id uuid.UUID) (*zones.Zone, error) {
	zone, err := z.zones.GetByID(ctx, id)
	if err != nil {
		return nil, mapStoreError(err, z.Resource(), id.String())
	}
	return zone, nil
}

// Delete removes the zone. Removing the whole history also removes its
// items.
func (z *Zones) Delete(ctx context.Context, id uuid.UUID, soft, history bool) error {
	row, err := z.Service.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := z.Service.Delete(ctx, id, soft, history); err != nil {
		return err
	}
	if history && !soft {
		if _, err := z.zones.DeleteItemsOf(ctx, row.MasterID); err != nil {
			return mapStoreError(err, "content zone item", row.MasterID.String())
		}
	}
	return nil
}

// AddItem validates item against its component and appends it to the zone.
func (z *Zones) AddItem(ctx context.Context, zoneID uuid.UUID, item *zones.Item) (*zones.Item, error) {
	if err := z.validateItem(item); err != nil {
		return nil, err
	}
	created, err := z.zones.AddItem(ctx, zoneID, item)
	if err != nil {
		return nil, mapItemError(err, zoneID)
	}
	return created, nil
}

// UpdateItem validates and overwrites an existing item.
func (z *Zones) UpdateItem(ctx context.Context, item *zones.Item) error {
	if err := z.validateItem(item); err != nil {
		return err
	}
	ok, err := z.zones.UpdateItem(ctx, item)
	if err != nil {
		return mapItemError(err, item.ID)
	}
	if !ok {
		return notFound("content zone item", item.ID.String())
	}
	return nil
}

// RemoveItem deletes an item.
func (z *Zones) RemoveItem(ctx context.Context, itemID uuid.UUID) error {
	ok, err := z.zones.RemoveItem(ctx, itemID)
	if err != nil {
		return mapItemError(err, itemID)
	}
	if !ok {
		return notFound("content zone item", itemID.String())
	}
	return nil
}

// ReorderItems applies a partial reorder to the zone items.
func (z *Zones) ReorderItems(ctx context.Context, zoneID uuid.UUID, orderedIDs []uuid.UUID) error {
	if err := z.zones.ReorderItems(ctx, zoneID, orderedIDs); err != nil {
		return mapItemError(err, zoneID)
	}
	return nil
}

// ValidateItemConfiguration checks raw against the configuration model of
// component. Unparseable JSON is reported as a single issue.
func (z *Zones) ValidateItemConfiguration(component, raw string) ([]string, error) {
	issues, ok := z.components.ValidateConfiguration(component, raw)
	if !ok {
		return nil, unknownComponent(component)
	}
	return issues, nil
}

func (z *Zones) validate(ctx context.Context, zone *zones.Zone) error {
	zone.Name = strings.TrimSpace(zone.Name)
	if err := invalid(validation.ValidateStruct(zone,
		validation.Field(&zone.Name, validation.Required, validation.Length(1, 255)),
	), "zone is invalid"); err != nil {
		return err
	}
	var exclude *uuid.UUID
	if zone.MasterID != uuid.Nil {
		master := zone.MasterID
		exclude = &master
	}
	available, err := z.zones.IsNameAvailable(ctx, zone.Name, exclude)
	if err != nil {
		return mapStoreError(err, z.Resource(), zone.Name)
	}
	if !available {
		return zoneNameUnavailable(zone.Name)
	}
	return nil
}

func (z *Zones) validateItem(item *zones.Item) error {
	if item == nil {
		return goerrors.Wrap(zones.ErrItemRequired, goerrors.CategoryBadInput, "zone item is required")
	}
	item.ComponentName = strings.TrimSpace(item.ComponentName)
	if err := invalid(validation.ValidateStruct(item,
		validation.Field(&item.ComponentName, validation.Required),
		validation.Field(&item.Ordinal, validation.Min(0)),
	), "zone item is invalid"); err != nil {
		return err
	}
	entry, ok := z.components.Get(item.ComponentName)
	if !ok {
		return unknownComponent(item.ComponentName)
	}
	item.ComponentName = entry.Name
	if !entry.HasConfiguration() || strings.TrimSpace(item.ComponentPropertiesJSON) == "" {
		return nil
	}
	if issues, _ := z.components.ValidateConfiguration(entry.Name, item.ComponentPropertiesJSON); len(issues) > 0 {
		return fieldInvalid(nil, "component_properties_json", "zone item configuration is invalid", issues...)
	}
	return nil
}

func unknownComponent(name string) error {
	return fieldInvalid(ErrUnknownComponent, "component_name",
		fmt.Sprintf("component %q is not registered", name))
}

func mapItemError(err error, key uuid.UUID) error {
	if errors.Is(err, zones.ErrZoneNotFound) {
		return goerrors.Wrap(err, goerrors.CategoryNotFound, fmt.Sprintf("content zone %s not found", key)).
			WithTextCode(textCodeNotFound)
	}
	return mapStoreError(err, "content zone item", key.String())
}
