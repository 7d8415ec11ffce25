package http

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/goliatone/go-cms-zones/internal/registry"
)

type catalogResponse struct {
	Kind       registry.Kind    `json:"kind"`
	Categories []string         `json:"categories"`
	Entries    []registry.Entry `json:"entries"`
}

type validateResponse struct {
	Valid  bool     `json:"valid"`
	Issues []string `json:"issues"`
}

func mountRegistry(router chi.Router, path string, reg *registry.Registry) {
	router.Route("/"+path, func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, catalogResponse{
				Kind:       reg.Kind(),
				Categories: reg.Categories(),
				Entries:    reg.All(),
			})
		})
		r.Get("/{name}", func(w http.ResponseWriter, r *http.Request) {
			entry, ok := lookupEntry(w, r, reg)
			if ok {
				writeJSON(w, http.StatusOK, entry)
			}
		})
		r.Get("/{name}/schema", func(w http.ResponseWriter, r *http.Request) {
			entry, ok := lookupEntry(w, r, reg)
			if !ok {
				return
			}
			schema, ok := reg.Schema(entry.Name)
			if !ok {
				writeJSON(w, http.StatusNotFound, errorResponse{Error: "not_found", Message: entry.Name + " has no configuration"})
				return
			}
			writeJSON(w, http.StatusOK, schema)
		})
		r.Get("/{name}/defaults", func(w http.ResponseWriter, r *http.Request) {
			entry, ok := lookupEntry(w, r, reg)
			if !ok {
				return
			}
			config, ok := reg.CreateDefaultConfiguration(entry.Name)
			if !ok {
				writeJSON(w, http.StatusNotFound, errorResponse{Error: "not_found", Message: entry.Name + " has no configuration"})
				return
			}
			writeJSON(w, http.StatusOK, config)
		})
		r.Post("/{name}/validate", func(w http.ResponseWriter, r *http.Request) {
			entry, ok := lookupEntry(w, r, reg)
			if !ok {
				return
			}
			body, err := io.ReadAll(r.Body)
			if err != nil {
				bodyError(w, err)
				return
			}
			issues, _ := reg.ValidateConfiguration(entry.Name, string(body))
			if issues == nil {
				issues = []string{}
			}
			writeJSON(w, http.StatusOK, validateResponse{Valid: len(issues) == 0, Issues: issues})
		})
	})
}

func lookupEntry(w http.ResponseWriter, r *http.Request, reg *registry.Registry) (registry.Entry, bool) {
	name := chi.URLParam(r, "name")
	entry, ok := reg.Get(name)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not_found", Message: string(reg.Kind()) + " " + name + " is not registered"})
		return registry.Entry{}, false
	}
	return entry, true
}
