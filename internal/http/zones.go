package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/goliatone/go-cms-zones/internal/commands/zonescmd"
	"github.com/goliatone/go-cms-zones/internal/zones"
	"github.com/google/uuid"
)

type reorderPayload struct {
	ItemIDs []uuid.UUID `json:"item_ids"`
}

func (api *AdminAPI) registerZoneItemRoutes(r chi.Router) {
	r.Post("/{id}/items", api.handleZoneItemAdd)
	r.Post("/{id}/items/reorder", api.handleZoneItemsReorder)
	r.Put("/{id}/items/{itemID}", api.handleZoneItemUpdate)
	r.Delete("/{id}/items/{itemID}", api.handleZoneItemRemove)
}

func (api *AdminAPI) handleZoneItemAdd(w http.ResponseWriter, r *http.Request) {
	zoneID, err := parseUUID(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, "invalid zone id")
		return
	}
	item := &zones.Item{IsActive: true}
	if err := decodeJSON(r, item); err != nil {
		bodyError(w, err)
		return
	}
	item.ID = uuid.Nil
	if err := api.addItem.Execute(r.Context(), zonescmd.AddZoneItemCommand{ZoneID: zoneID, Item: item}); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (api *AdminAPI) handleZoneItemUpdate(w http.ResponseWriter, r *http.Request) {
	itemID, err := parseUUID(chi.URLParam(r, "itemID"))
	if err != nil {
		badRequest(w, "invalid item id")
		return
	}
	item := &zones.Item{}
	if err := decodeJSON(r, item); err != nil {
		bodyError(w, err)
		return
	}
	item.ID = itemID
	if err := api.zones.UpdateItem(r.Context(), item); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (api *AdminAPI) handleZoneItemRemove(w http.ResponseWriter, r *http.Request) {
	itemID, err := parseUUID(chi.URLParam(r, "itemID"))
	if err != nil {
		badRequest(w, "invalid item id")
		return
	}
	if err := api.zones.RemoveItem(r.Context(), itemID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (api *AdminAPI) handleZoneItemsReorder(w http.ResponseWriter, r *http.Request) {
	zoneID, err := parseUUID(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, "invalid zone id")
		return
	}
	var payload reorderPayload
	if err := decodeJSON(r, &payload); err != nil {
		bodyError(w, err)
		return
	}
	cmd := zonescmd.ReorderZoneItemsCommand{ZoneID: zoneID, ItemIDs: payload.ItemIDs}
	if err := api.reorderItems.Execute(r.Context(), cmd); err != nil {
		writeError(w, err)
		return
	}
	zone, err := api.zones.Get(r.Context(), zoneID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, zone)
}
