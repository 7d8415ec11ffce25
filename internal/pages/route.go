package pages

import "strings"

// RootRoute is the route of the catch-all root page.
const RootRoute = "/"

// NormalizeRoute lower-cases raw, trims surrounding whitespace, collapses
// repeated slashes, guarantees one leading slash and drops the trailing slash
// of anything but the root. Blank input yields the root.
func NormalizeRoute(raw string) string {
	trimmed := strings.ToLower(strings.TrimSpace(raw))
	segments := Segments(trimmed)
	if len(segments) == 0 {
		return RootRoute
	}
	return RootRoute + strings.Join(segments, "/")
}

// Segments splits route into its non-empty path segments.
func Segments(route string) []string {
	parts := strings.Split(route, "/")
	out := parts[:0]
	for _, part := range parts {
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
