package zonescmd

import (
	"context"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-cms-zones/internal/admin"
	"github.com/goliatone/go-cms-zones/internal/commands"
	"github.com/goliatone/go-cms-zones/internal/zones"
	"github.com/goliatone/go-cms-zones/pkg/interfaces"
	command "github.com/goliatone/go-command"
	"github.com/google/uuid"
)

const (
	addItemMessageType      = "cms.zones.item.add"
	reorderItemsMessageType = "cms.zones.items.reorder"
)

// AddZoneItemCommand appends Item to the zone ZoneID names. On success Item
// holds the stored row.
type AddZoneItemCommand struct {
	ZoneID uuid.UUID   `json:"zone_id"`
	Item   *zones.Item `json:"item"`
}

// Type implements command.Message.
func (AddZoneItemCommand) Type() string { return addItemMessageType }

// Validate implements command.Message.
func (m AddZoneItemCommand) Validate() error {
	errs := validation.Errors{}
	if m.ZoneID == uuid.Nil {
		errs["zone_id"] = validation.NewError("cms.zones.item.zone_required", "zone id is required")
	}
	if m.Item == nil {
		errs["item"] = validation.NewError("cms.zones.item.item_required", "item is required")
	} else if strings.TrimSpace(m.Item.ComponentName) == "" {
		errs["component_name"] = validation.NewError("cms.zones.item.component_required", "component name is required")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ReorderZoneItemsCommand renumbers the listed items of a zone 1..n.
type ReorderZoneItemsCommand struct {
	ZoneID  uuid.UUID   `json:"zone_id"`
	ItemIDs []uuid.UUID `json:"item_ids"`
}

// Type implements command.Message.
func (ReorderZoneItemsCommand) Type() string { return reorderItemsMessageType }

// Validate implements command.Message.
func (m ReorderZoneItemsCommand) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.ZoneID, validation.Required.Error("zone id is required")),
		validation.Field(&m.ItemIDs, validation.Required.Error("at least one item id is required")),
	)
}

// AddZoneItemHandler adds items through the zone façade.
type AddZoneItemHandler struct {
	inner *commands.Handler[AddZoneItemCommand]
}

// NewAddZoneItemHandler builds a handler over zonesAdmin.
func NewAddZoneItemHandler(zonesAdmin *admin.Zones, logger interfaces.Logger, opts ...commands.HandlerOption[AddZoneItemCommand]) *AddZoneItemHandler {
	exec := func(ctx context.Context, msg AddZoneItemCommand) error {
		added, err := zonesAdmin.AddItem(ctx, msg.ZoneID, msg.Item)
		if err != nil {
			return err
		}
		*msg.Item = *added
		return nil
	}
	base := []commands.HandlerOption[AddZoneItemCommand]{
		commands.WithLogger[AddZoneItemCommand](logger),
		commands.WithOperation[AddZoneItemCommand]("zones.item.add"),
		commands.WithMessageFields(func(msg AddZoneItemCommand) map[string]any {
			fields := map[string]any{"zone_id": msg.ZoneID}
			if msg.Item != nil {
				fields["component"] = msg.Item.ComponentName
			}
			return fields
		}),
	}
	return &AddZoneItemHandler{inner: commands.NewHandler(command.CommandFunc[AddZoneItemCommand](exec), append(base, opts...)...)}
}

// Execute satisfies command.Commander[AddZoneItemCommand].
func (h *AddZoneItemHandler) Execute(ctx context.Context, msg AddZoneItemCommand) error {
	return h.inner.Execute(ctx, msg)
}

// ReorderZoneItemsHandler reorders items through the zone façade.
type ReorderZoneItemsHandler struct {
	inner *commands.Handler[ReorderZoneItemsCommand]
}

// NewReorderZoneItemsHandler builds a handler over zonesAdmin.
func NewReorderZoneItemsHandler(zonesAdmin *admin.Zones, logger interfaces.Logger, opts ...commands.HandlerOption[ReorderZoneItemsCommand]) *ReorderZoneItemsHandler {
	exec := func(ctx context.Context, msg ReorderZoneItemsCommand) error {
		return zonesAdmin.ReorderItems(ctx, msg.ZoneID, msg.ItemIDs)
	}
	base := []commands.HandlerOption[ReorderZoneItemsCommand]{
		commands.WithLogger[ReorderZoneItemsCommand](logger),
		commands.WithOperation[ReorderZoneItemsCommand]("zones.items.reorder"),
		commands.WithMessageFields(func(msg ReorderZoneItemsCommand) map[string]any {
			return map[string]any{"zone_id": msg.ZoneID, "items": len(msg.ItemIDs)}
		}),
	}
	return &ReorderZoneItemsHandler{inner: commands.NewHandler(command.CommandFunc[ReorderZoneItemsCommand](exec), append(base, opts...)...)}
}

// Execute satisfies command.Commander[ReorderZoneItemsCommand].
func (h *ReorderZoneItemsHandler) Execute(ctx context.Context, msg ReorderZoneItemsCommand) error {
	return h.inner.Execute(ctx, msg)
}
