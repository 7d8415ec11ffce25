package http

import (
	"net/http"

	"github.com/goliatone/go-cms-zones/internal/logging"
	"github.com/goliatone/go-cms-zones/internal/routing"
	"github.com/goliatone/go-cms-zones/pkg/interfaces"
)

// PublicHandler serves every non-admin path through the dynamic route
// resolver.
type PublicHandler struct {
	dispatcher *routing.Dispatcher
	logger     interfaces.Logger
	adminMode  func(*http.Request) bool
}

// PublicOption configures a PublicHandler.
type PublicOption func(*PublicHandler)

// WithAdminMode decides per request whether zones render in admin mode.
// Admin mode provisions missing zones and includes inactive items.
func WithAdminMode(fn func(*http.Request) bool) PublicOption {
	return func(h *PublicHandler) {
		if fn != nil {
			h.adminMode = fn
		}
	}
}

// WithPublicLogger sets the handler logger.
func WithPublicLogger(logger interfaces.Logger) PublicOption {
	return func(h *PublicHandler) {
		h.logger = logging.OrNoOp(logger)
	}
}

// NewPublicHandler wraps dispatcher.
func NewPublicHandler(dispatcher *routing.Dispatcher, opts ...PublicOption) *PublicHandler {
	h := &PublicHandler{
		dispatcher: dispatcher,
		logger:     logging.NoOp(),
		adminMode:  func(*http.Request) bool { return false },
	}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	return h
}

type pageResponse struct {
	Path         string `json:"path"`
	MatchedRoute string `json:"matched_route"`
	SubRoute     string `json:"sub_route,omitempty"`
	Controller   string `json:"controller"`
	Action       string `json:"action"`
	Body         any    `json:"body,omitempty"`
}

func (h *PublicHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	resp, res, err := h.dispatcher.Dispatch(r.Context(), r.URL.Path, r.URL.Query(), h.adminMode(r))
	if err != nil {
		h.logger.WithContext(r.Context()).Error("http.public.dispatch_failed", "path", r.URL.Path, "error", err)
		writeError(w, err)
		return
	}
	if resp.RedirectURL != "" {
		http.Redirect(w, r, resp.RedirectURL, resp.Status)
		return
	}
	if res == nil || resp.Status == http.StatusNotFound {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not_found", Message: "no page serves " + r.URL.Path})
		return
	}
	status := resp.Status
	if status == 0 {
		status = http.StatusOK
	}
	writeJSON(w, status, pageResponse{
		Path:         res.Path,
		MatchedRoute: res.MatchedRoute,
		SubRoute:     res.SubRoute,
		Controller:   res.Controller.Name,
		Action:       res.Action,
		Body:         resp.Body,
	})
}
