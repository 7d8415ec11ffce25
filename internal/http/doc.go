// Package http exposes the CMS over chi routers.
//
// Admin routes mount under /admin/api by default:
//   - Content: /pages, /articles, /article-lists, /blocks, /zones with
//     /{id} and /{id}/versions
//   - Zone items: /zones/{id}/items, /zones/{id}/items/{itemID},
//     /zones/{id}/items/reorder
//   - Registries: /controllers and /components with /{name}, /{name}/schema,
//     /{name}/defaults and /{name}/validate
//
// The public handler resolves every other path through the dynamic route
// resolver and runs the matched controller.
package http
