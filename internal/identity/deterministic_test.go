package identity_test

import (
	"testing"

	"github.com/goliatone/go-cms-zones/internal/identity"
	"github.com/google/uuid"
)

func TestUUIDIsStable(t *testing.T) {
	t.Parallel()
	a := identity.ZoneUUID("page:1/sidebar#1")
	b := identity.ZoneUUID(" page:1/sidebar#1 ")
	if a == uuid.Nil || a != b {
		t.Fatalf("expected stable non-nil id, got %s and %s", a, b)
	}
	if identity.ZoneUUID("page:1/sidebar#2") == a {
		t.Fatalf("expected distinct paths to yield distinct ids")
	}
	if identity.PageUUID("/About") != identity.PageUUID("/about") {
		t.Fatalf("expected page ids to ignore case")
	}
	if identity.UUID("  ") != uuid.Nil {
		t.Fatalf("expected nil id for blank key")
	}
}

func TestZoneUUIDIsCaseSensitive(t *testing.T) {
	t.Parallel()
	if identity.ZoneUUID("page:1/Hero#1") == identity.ZoneUUID("page:1/hero#1") {
		t.Fatalf("expected zone ids to keep case")
	}
	if identity.ZoneUUID("") != uuid.Nil {
		t.Fatalf("expected nil id for blank path")
	}
}
