package versioning

import (
	"net/url"
	"strings"

	"github.com/goliatone/go-slug"
)

// DeriveSlug builds a slug from title. Titles the normalizer rejects fall back
// to URL path escaping of the trimmed title.
func DeriveSlug(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return ""
	}
	if normalized, err := slug.Normalize(title); err == nil && normalized != "" {
		return normalized
	}
	return url.PathEscape(title)
}
