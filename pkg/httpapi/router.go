package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func NewRouter(handler *Handler, verbose bool) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(recoverMiddleware)
	r.Use(loggingMiddleware(verbose))
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { writeSuccess(w, http.StatusOK, "ok", nil) })
	r.Get("/readyz", handler.readyz)
	r.Route("/v1/users/{userID}", func(r chi.Router) {
		r.Get("/report", handler.report)
		r.Get("/cycle", handler.cycle)
		r.Get("/risk", handler.risk)
		r.Get("/trends", handler.trends)
		r.Get("/insights", handler.insights)
	})
	return r
}
