package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a stable UUID from key with go-hashid. Keys are namespaced by
// the helpers below so different entity kinds never collide.
func UUID(key string) uuid.UUID {
	return derive(key, true)
}

// ZoneUUID identifies the zone provisioned for a render path. Zone names are
// case-sensitive, so the path is hashed without normalization.
func ZoneUUID(path string) uuid.UUID {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return uuid.Nil
	}
	return derive("go-cms-zones:zone:"+trimmed, false)
}

// PageUUID identifies a seeded page by its normalized route.
func PageUUID(route string) uuid.UUID {
	return UUID("go-cms-zones:page:" + strings.ToLower(strings.TrimSpace(route)))
}

func derive(key string, normalize bool) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(normalize))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}
