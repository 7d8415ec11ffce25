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

func TestBunZoneService(t *testing.T) {
	ctx := context.Background()
	db := testsupport.NewBunDB(t, (*zones.Zone)(nil), (*zones.Item)(nil))
	clock := testsupport.NewClock(time.Time{})
	svc := zones.NewService(zones.NewBunZoneRepository(db), zones.NewBunItemRepository(db), zones.WithClock(clock.Now))

	zone := createZone(t, svc, "page:home/hero#1", true)
	a := addItem(t, svc, zone.ID, "Banner", 0, true)
	b := addItem(t, svc, zone.ID, "Banner", 0, false)
	c := addItem(t, svc, zone.ID, "Banner", 0, true)

	if err := svc.ReorderItems(ctx, zone.ID, []uuid.UUID{c.ID, a.ID}); err != nil {
		t.Fatalf("reorder: %v", err)
	}
	got, err := svc.GetByID(ctx, zone.MasterID)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	want := []uuid.UUID{c.ID, a.ID, b.ID}
	ids := make([]uuid.UUID, 0, len(got.Items))
	for _, item := range got.Items {
		ids = append(ids, item.ID)
	}
	if diff := cmp.Diff(want, ids); diff != "" {
		t.Fatalf("item order mismatch (-want +got):\n%s", diff)
	}

	public, err := svc.GetByName(ctx, "page:home/hero#1")
	if err != nil {
		t.Fatalf("get by name: %v", err)
	}
	if len(public.Items) != 2 {
		t.Fatalf("expected two active items, got %d", len(public.Items))
	}

	if ok, err := svc.RemoveItem(ctx, b.ID); err != nil || !ok {
		t.Fatalf("remove: ok=%v err=%v", ok, err)
	}
	if ok, err := svc.RemoveItem(ctx, b.ID); err != nil || ok {
		t.Fatalf("expected missing item, got ok=%v err=%v", ok, err)
	}
	removed, err := svc.DeleteItemsOf(ctx, zone.MasterID)
	if err != nil || removed != 2 {
		t.Fatalf("expected two removed items, got %d err=%v", removed, err)
	}
}

func TestBunItemRepositoryIdentity(t *testing.T) {
	ctx := context.Background()
	db := testsupport.NewBunDB(t, (*zones.Item)(nil))
	repo := zones.NewBunItemRepository(db)

	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	item := &zones.Item{
		ID:            uuid.MustParse("00000000-0000-0000-0000-0000000000c1"),
		ContentZoneID: uuid.MustParse("00000000-0000-0000-0000-0000000000c0"),
		ComponentName: "Banner",
		IsActive:      true,
		CreatedAt:     now,
		ModifiedAt:    now,
	}
	if _, err := repo.Create(ctx, item); err != nil {
		t.Fatalf("create: %v", err)
	}
	got, err := repo.GetByID(ctx, item.ID)
	if err != nil || got.ComponentName != "Banner" {
		t.Fatalf("get by id: %+v err=%v", got, err)
	}

	again := *item
	if _, err := repo.Create(ctx, &again); !errors.Is(err, versioning.ErrDuplicateID) {
		t.Fatalf("expected duplicate id, got %v", err)
	}
}
