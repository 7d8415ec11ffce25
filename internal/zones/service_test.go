package zones_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-cms-zones/internal/versioning"
	"github.com/goliatone/go-cms-zones/internal/zones"
	"github.com/goliatone/go-cms-zones/pkg/testsupport"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
)

func newService() *zones.Service {
	clock := testsupport.NewClock(time.Time{})
	return zones.NewService(
		zones.NewMemoryZoneRepository(),
		zones.NewMemoryItemRepository(),
		zones.WithClock(clock.Now),
	)
}

func createZone(t *testing.T, svc *zones.Service, name string, published bool) *zones.Zone {
	t.Helper()
	zone := &zones.Zone{Name: name}
	zone.Title = name
	zone.IsPublished = published
	created, err := svc.Store().Create(context.Background(), zone)
	if err != nil {
		t.Fatalf("create zone %s: %v", name, err)
	}
	return created
}

func addItem(t *testing.T, svc *zones.Service, zoneID uuid.UUID, component string, ordinal int, active bool) *zones.Item {
	t.Helper()
	item, err := svc.AddItem(context.Background(), zoneID, &zones.Item{ComponentName: component, Ordinal: ordinal, IsActive: active})
	if err != nil {
		t.Fatalf("add item: %v", err)
	}
	return item
}

func ordinals(items []*zones.Item) []int {
	out := make([]int, 0, len(items))
	for _, item := range items {
		out = append(out, item.Ordinal)
	}
	return out
}

func TestAddItemAssignsOrdinals(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newService()
	zone := createZone(t, svc, "sidebar", true)

	for i := 0; i < 3; i++ {
		addItem(t, svc, zone.ID, "Hero", 0, true)
	}
	got, err := svc.GetByID(ctx, zone.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if diff := cmp.Diff([]int{1, 2, 3}, ordinals(got.Items)); diff != "" {
		t.Fatalf("ordinal mismatch (-want +got):\n%s", diff)
	}
}

func TestAddItemAfterManualOrdinals(t *testing.T) {
	t.Parallel()
	svc := newService()
	zone := createZone(t, svc, "footer", true)

	addItem(t, svc, zone.ID, "Hero", 1, true)
	addItem(t, svc, zone.ID, "Hero", 5, true)
	addItem(t, svc, zone.ID, "Hero", 9, true)
	fourth := addItem(t, svc, zone.ID, "Hero", 0, true)
	if fourth.Ordinal != 10 {
		t.Fatalf("expected ordinal 10, got %d", fourth.Ordinal)
	}
	if fourth.ContentZoneID != zone.MasterID {
		t.Fatalf("expected item to reference zone master")
	}
}

func TestAddItemRequiresZone(t *testing.T) {
	t.Parallel()
	svc := newService()
	_, err := svc.AddItem(context.Background(), uuid.New(), &zones.Item{ComponentName: "Hero"})
	if !errors.Is(err, zones.ErrZoneNotFound) {
		t.Fatalf("expected ErrZoneNotFound, got %v", err)
	}
	if _, err := svc.AddItem(context.Background(), uuid.New(), nil); !errors.Is(err, zones.ErrItemRequired) {
		t.Fatalf("expected ErrItemRequired, got %v", err)
	}
	if _, err := svc.AddItem(context.Background(), uuid.New(), &zones.Item{}); !errors.Is(err, zones.ErrComponentRequired) {
		t.Fatalf("expected ErrComponentRequired, got %v", err)
	}
}

func TestReorderItemsIsPartial(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newService()
	zone := createZone(t, svc, "main", true)

	a := addItem(t, svc, zone.ID, "A", 0, true)
	b := addItem(t, svc, zone.ID, "B", 0, true)
	c := addItem(t, svc, zone.ID, "C", 0, true)

	if err := svc.ReorderItems(ctx, zone.ID, []uuid.UUID{c.ID, uuid.New(), a.ID}); err != nil {
		t.Fatalf("reorder: %v", err)
	}

	got, err := svc.GetByID(ctx, zone.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	byID := map[uuid.UUID]int{}
	for _, item := range got.Items {
		byID[item.ID] = item.Ordinal
	}
	if byID[c.ID] != 1 || byID[a.ID] != 3 || byID[b.ID] != 2 {
		t.Fatalf("unexpected ordinals C=%d A=%d B=%d", byID[c.ID], byID[a.ID], byID[b.ID])
	}

	if err := svc.ReorderItems(ctx, zone.ID, []uuid.UUID{c.ID, a.ID}); err != nil {
		t.Fatalf("reorder: %v", err)
	}
	got, _ = svc.GetByID(ctx, zone.ID)
	for _, item := range got.Items {
		byID[item.ID] = item.Ordinal
	}
	if byID[c.ID] != 1 || byID[a.ID] != 2 || byID[b.ID] != 2 {
		t.Fatalf("expected C=1 A=2 B=2, got C=%d A=%d B=%d", byID[c.ID], byID[a.ID], byID[b.ID])
	}

	if err := svc.ReorderItems(ctx, uuid.New(), nil); !errors.Is(err, zones.ErrZoneNotFound) {
		t.Fatalf("expected ErrZoneNotFound, got %v", err)
	}
}

func TestGetByNameFiltersInactiveAndUnpublished(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newService()

	live := createZone(t, svc, "Hero", true)
	addItem(t, svc, live.ID, "Banner", 0, true)
	addItem(t, svc, live.ID, "Draft", 0, false)

	got, err := svc.GetByName(ctx, "Hero")
	if err != nil {
		t.Fatalf("get by name: %v", err)
	}
	if len(got.Items) != 1 || got.Items[0].ComponentName != "Banner" {
		t.Fatalf("expected only the active item, got %+v", got.Items)
	}

	if _, err := svc.GetByName(ctx, "hero"); !versioning.IsNotFound(err) {
		t.Fatalf("expected case-sensitive miss, got %v", err)
	}

	createZone(t, svc, "Draft", false)
	if _, err := svc.GetByName(ctx, "Draft"); !versioning.IsNotFound(err) {
		t.Fatalf("expected unpublished zone to be hidden, got %v", err)
	}

	if _, err := svc.Store().Delete(ctx, live.ID, true, false); err != nil {
		t.Fatalf("soft delete: %v", err)
	}
	if _, err := svc.GetByName(ctx, "Hero"); !versioning.IsNotFound(err) {
		t.Fatalf("expected deleted zone to be hidden, got %v", err)
	}
}

func TestGetByIDReturnsAllItemsAcrossVersions(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newService()
	zone := createZone(t, svc, "aside", true)
	first := zone.ID
	addItem(t, svc, zone.ID, "Banner", 0, false)

	zone.Description = "updated"
	if _, err := svc.Store().Update(ctx, zone); err != nil {
		t.Fatalf("update: %v", err)
	}
	for _, id := range []uuid.UUID{first, zone.ID, zone.MasterID} {
		got, err := svc.GetByID(ctx, id)
		if err != nil {
			t.Fatalf("get %s: %v", id, err)
		}
		if len(got.Items) != 1 {
			t.Fatalf("expected inactive item to be listed, got %d", len(got.Items))
		}
	}
}

func TestUpdateAndRemoveItemReportMissing(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newService()
	zone := createZone(t, svc, "z", true)
	item := addItem(t, svc, zone.ID, "Banner", 0, true)

	item.ComponentPropertiesJSON = `{"heading":"hi"}`
	item.IsActive = false
	ok, err := svc.UpdateItem(ctx, item)
	if err != nil || !ok {
		t.Fatalf("update item: ok=%v err=%v", ok, err)
	}
	stored, _ := svc.Items().GetByID(ctx, item.ID)
	if stored.IsActive || stored.ComponentPropertiesJSON != `{"heading":"hi"}` {
		t.Fatalf("expected update to persist, got %+v", stored)
	}

	ok, err = svc.UpdateItem(ctx, &zones.Item{ID: uuid.New(), ComponentName: "Banner"})
	if err != nil || ok {
		t.Fatalf("expected false for missing item, got ok=%v err=%v", ok, err)
	}

	if ok, _ := svc.RemoveItem(ctx, item.ID); !ok {
		t.Fatalf("expected remove to report true")
	}
	if ok, _ := svc.RemoveItem(ctx, item.ID); ok {
		t.Fatalf("expected second remove to report false")
	}
}

func TestIsNameAvailable(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newService()
	zone := createZone(t, svc, "header", true)

	if ok, _ := svc.IsNameAvailable(ctx, "header", nil); ok {
		t.Fatalf("expected name to be taken")
	}
	if ok, _ := svc.IsNameAvailable(ctx, "header", &zone.MasterID); !ok {
		t.Fatalf("expected own name to be available")
	}
	if ok, _ := svc.IsNameAvailable(ctx, "Header", nil); !ok {
		t.Fatalf("expected names to compare case-sensitively")
	}
}
