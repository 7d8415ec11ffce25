package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/goliatone/go-cms-zones/internal/admin"
	"github.com/goliatone/go-cms-zones/internal/commands/contentcmd"
	"github.com/goliatone/go-cms-zones/internal/versioning"
	"github.com/google/uuid"
)

const defaultPageSize = 50

// resource describes the routes of one versioned content type. save and get
// default to the façade methods.
type resource[T versioning.Entity] struct {
	path      string
	service   *admin.Service[T]
	newEntity func() T
	save      func(context.Context, T) (T, error)
	get       func(context.Context, uuid.UUID) (T, error)
	delete    func(ctx context.Context, id uuid.UUID, soft, history bool) error
	extra     func(chi.Router)
}

type listResponse[T any] struct {
	Items  []T `json:"items"`
	Total  int `json:"total"`
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

func mountResource[T versioning.Entity](router chi.Router, res resource[T]) {
	if res.save == nil {
		res.save = res.service.Save
	}
	if res.get == nil {
		res.get = res.service.Get
	}
	if res.delete == nil {
		res.delete = res.service.Delete
	}

	router.Route("/"+res.path, func(r chi.Router) {
		r.Get("/", res.handleList)
		r.Post("/", res.handleSave)
		r.Get("/{id}", res.handleGet)
		r.Put("/{id}", res.handleSave)
		r.Delete("/{id}", res.handleDelete)
		r.Get("/{id}/versions", res.handleVersions)
		if res.extra != nil {
			res.extra(r)
		}
	})
}

func (res resource[T]) handleList(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	opts := admin.ListOptions{
		IncludeDeleted: parseBoolQuery(query.Get("include_deleted"), false),
		PublishedOnly:  parseBoolQuery(query.Get("published"), false),
		Offset:         parseIntQuery(query.Get("offset"), 0),
		Limit:          parseIntQuery(query.Get("limit"), defaultPageSize),
	}
	items, total, err := res.service.List(r.Context(), opts)
	if err != nil {
		writeError(w, err)
		return
	}
	if items == nil {
		items = []T{}
	}
	writeJSON(w, http.StatusOK, listResponse[T]{Items: items, Total: total, Offset: opts.Offset, Limit: opts.Limit})
}

func (res resource[T]) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUID(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, "invalid id")
		return
	}
	record, err := res.get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (res resource[T]) handleVersions(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUID(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, "invalid id")
		return
	}
	rows, err := res.service.Versions(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// handleSave creates or versions an entity. On PUT the path id names the
// row being versioned.
func (res resource[T]) handleSave(w http.ResponseWriter, r *http.Request) {
	entity := res.newEntity()
	if err := decodeJSON(r, entity); err != nil {
		bodyError(w, err)
		return
	}
	if raw := chi.URLParam(r, "id"); raw != "" {
		id, err := parseUUID(raw)
		if err != nil {
			badRequest(w, "invalid id")
			return
		}
		entity.Base().ID = id
	}
	created := entity.Base().ID == uuid.Nil

	saved, err := res.save(r.Context(), entity)
	if err != nil {
		writeError(w, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, saved)
}

func (res resource[T]) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUID(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, "invalid id")
		return
	}
	query := r.URL.Query()
	soft := parseBoolQuery(query.Get("soft"), false)
	history := parseBoolQuery(query.Get("history"), false)
	if err := res.delete(r.Context(), id, soft, history); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (api *AdminAPI) deleteCommand(resourceName string) func(context.Context, uuid.UUID, bool, bool) error {
	return func(ctx context.Context, id uuid.UUID, soft, history bool) error {
		return api.deleteContent.Execute(ctx, contentcmd.DeleteContentCommand{
			Resource: resourceName,
			ID:       id,
			Soft:     soft,
			History:  history,
		})
	}
}
