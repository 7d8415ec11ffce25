package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/goliatone/go-cms-zones/internal/logging"
	"github.com/goliatone/go-cms-zones/pkg/interfaces"
)

// NewRouter mounts api and public on a chi router with request ids, panic
// recovery and access logging. Either may be nil.
func NewRouter(api *AdminAPI, public http.Handler, logger interfaces.Logger) (chi.Router, error) {
	logger = logging.OrNoOp(logger)
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(accessLog(logger))
	router.Use(middleware.Recoverer)

	if api != nil {
		if err := api.Register(router); err != nil {
			return nil, err
		}
	}
	if public != nil {
		router.Handle("/*", public)
	}
	return router, nil
}

func accessLog(logger interfaces.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			started := time.Now()
			next.ServeHTTP(ww, r)
			logger.WithContext(r.Context()).Debug("http.request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(started).Milliseconds(),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
