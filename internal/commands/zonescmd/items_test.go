package zonescmd_test

import (
	"context"
	"testing"

	"github.com/goliatone/go-cms-zones/internal/admin"
	"github.com/goliatone/go-cms-zones/internal/commands/contentcmd"
	"github.com/goliatone/go-cms-zones/internal/commands/zonescmd"
	"github.com/goliatone/go-cms-zones/internal/registry"
	"github.com/goliatone/go-cms-zones/internal/zones"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
)

type CardViewComponent struct{}

func newZones() *admin.Zones {
	components := registry.Build(registry.KindComponent, []registry.Module{{
		Name: "test",
		Register: func(b *registry.Builder) error {
			return b.Add(registry.Registration{Renderer: CardViewComponent{}})
		},
	}})
	svc := zones.NewService(zones.NewMemoryZoneRepository(), zones.NewMemoryItemRepository())
	return admin.NewZones(svc, components)
}

func TestZoneItemCommands(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	facade := newZones()

	z := &zones.Zone{Name: "sidebar"}
	z.Title = "Sidebar"
	z.IsPublished = true
	saved, err := facade.Save(ctx, z)
	if err != nil {
		t.Fatalf("save zone: %v", err)
	}

	add := zonescmd.NewAddZoneItemHandler(facade, nil)
	var ids []uuid.UUID
	for range 3 {
		item := &zones.Item{ComponentName: "card", IsActive: true}
		if err := add.Execute(ctx, zonescmd.AddZoneItemCommand{ZoneID: saved.ID, Item: item}); err != nil {
			t.Fatalf("add item: %v", err)
		}
		if item.ID == uuid.Nil {
			t.Fatalf("expected stored item id")
		}
		ids = append(ids, item.ID)
	}

	reorder := zonescmd.NewReorderZoneItemsHandler(facade, nil)
	order := []uuid.UUID{ids[2], ids[0], ids[1]}
	if err := reorder.Execute(ctx, zonescmd.ReorderZoneItemsCommand{ZoneID: saved.MasterID, ItemIDs: order}); err != nil {
		t.Fatalf("reorder: %v", err)
	}

	got, err := facade.Get(ctx, saved.MasterID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	var gotIDs []uuid.UUID
	for _, item := range got.Items {
		gotIDs = append(gotIDs, item.ID)
	}
	if diff := cmp.Diff(order, gotIDs); diff != "" {
		t.Fatalf("item order mismatch (-want +got):\n%s", diff)
	}

	del := contentcmd.NewDeleteContentHandler(map[string]contentcmd.Deleter{"zones": facade}, nil)
	if err := del.Execute(ctx, contentcmd.DeleteContentCommand{Resource: "Zones", ID: saved.ID, History: true}); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := facade.Get(ctx, saved.MasterID); !goerrors.IsCategory(err, goerrors.CategoryNotFound) {
		t.Fatalf("expected deleted zone, got %v", err)
	}
	err = del.Execute(ctx, contentcmd.DeleteContentCommand{Resource: "widgets", ID: saved.ID})
	if !goerrors.IsCategory(err, goerrors.CategoryBadInput) {
		t.Fatalf("expected unknown resource error, got %v", err)
	}
}

func TestZoneItemCommandValidation(t *testing.T) {
	t.Parallel()
	facade := newZones()
	add := zonescmd.NewAddZoneItemHandler(facade, nil)
	if err := add.Execute(context.Background(), zonescmd.AddZoneItemCommand{}); !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	reorder := zonescmd.NewReorderZoneItemsHandler(facade, nil)
	if err := reorder.Execute(context.Background(), zonescmd.ReorderZoneItemsCommand{ZoneID: uuid.New()}); !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	err := reorder.Execute(context.Background(), zonescmd.ReorderZoneItemsCommand{ZoneID: uuid.New(), ItemIDs: []uuid.UUID{uuid.New()}})
	if !goerrors.IsCategory(err, goerrors.CategoryNotFound) {
		t.Fatalf("expected missing zone, got %v", err)
	}
}
