package routing

import (
	"context"
	"net/http"
	"net/url"

	"github.com/goliatone/go-cms-zones/internal/zones"
)

// Controller renders a resolved page. The action to run is
// req.Resolution.Action.
type Controller interface {
	Handle(ctx context.Context, req *RequestContext) (*Response, error)
}

// IsController reports whether renderer can serve pages.
func IsController(renderer any) bool {
	_, ok := renderer.(Controller)
	return ok
}

// RequestContext is threaded through a dispatch in place of ambient request
// state.
type RequestContext struct {
	Resolution *Resolution
	Render     *zones.RenderContext
	Path       string
	Query      url.Values
	Admin      bool
}

// Response is the controller output. RedirectURL is set for redirects.
type Response struct {
	Status      int    `json:"-"`
	Body        any    `json:"body,omitempty"`
	RedirectURL string `json:"redirect_url,omitempty"`
}

// NotFound is the response controllers return for sub-routes they do not
// serve.
func NotFound() *Response {
	return &Response{Status: http.StatusNotFound}
}

// OK wraps body in a 200 response.
func OK(body any) *Response {
	return &Response{Status: http.StatusOK, Body: body}
}
