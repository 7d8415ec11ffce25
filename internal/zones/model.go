package zones

import (
	"time"

	"github.com/goliatone/go-cms-zones/internal/versioning"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Zone is a named, versioned region holding ordered items. Items point at
// the zone MasterID so they survive new zone versions.
type Zone struct {
	bun.BaseModel `bun:"table:content_zones,alias:cz"`
	versioning.ContentEntity

	Name        string `bun:"name,notnull" json:"name"`
	Description string `bun:"description" json:"description,omitempty"`

	Items []*Item `bun:"-" json:"items,omitempty"`
}

// Item is one component placement inside a zone.
type Item struct {
	bun.BaseModel `bun:"table:content_zone_items,alias:czi"`

	ID                      uuid.UUID `bun:"id,pk,type:uuid" json:"id"`
	ContentZoneID           uuid.UUID `bun:"content_zone_id,type:uuid,notnull" json:"content_zone_id"`
	Ordinal                 int       `bun:"ordinal,notnull" json:"ordinal"`
	ComponentName           string    `bun:"component_name,notnull" json:"component_name"`
	ComponentPropertiesJSON string    `bun:"component_properties_json" json:"component_properties_json,omitempty"`
	IsActive                bool      `bun:"is_active,notnull" json:"is_active"`
	CreatedAt               time.Time `bun:"created_at,notnull" json:"created_at"`
	ModifiedAt              time.Time `bun:"modified_at,notnull" json:"modified_at"`
}

// CloneZone deep copies z including its items.
func CloneZone(z *Zone) *Zone {
	if z == nil {
		return nil
	}
	c := *z
	c.ContentEntity = z.ContentEntity.Clone()
	c.Items = CloneItems(z.Items)
	return &c
}

// CloneItem copies item.
func CloneItem(item *Item) *Item {
	if item == nil {
		return nil
	}
	c := *item
	return &c
}

// CloneItems copies items.
func CloneItems(items []*Item) []*Item {
	if items == nil {
		return nil
	}
	out := make([]*Item, 0, len(items))
	for _, item := range items {
		out = append(out, CloneItem(item))
	}
	return out
}

// NewZone allocates an empty zone record.
func NewZone() *Zone {
	return &Zone{}
}
