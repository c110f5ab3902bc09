package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/veldtlabs/docvault/internal/api"
	"github.com/veldtlabs/docvault/internal/api/handlers"
	"github.com/veldtlabs/docvault/internal/api/middleware"
)

type RouterConfig struct {
	AdminToken      string
	DocumentHandler *handlers.DocumentHandler
	SearchHandler   *handlers.SearchHandler
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	const maxBodyBytes int64 = 10 * 1024 * 1024

	r.Use(middleware.RequestID)
	r.Use(middleware.SentryMiddleware)
	r.Use(middleware.AccessLog)
	r.Use(middleware.MaxBodyBytes(maxBodyBytes))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		api.Success(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.BearerAuth(cfg.AdminToken))

		r.Route("/documents", func(r chi.Router) {
			r.Post("/", cfg.DocumentHandler.Upload)
			r.Post("/import", cfg.DocumentHandler.Import)
			r.Get("/", cfg.DocumentHandler.List)
			r.Post("/{name}/share", cfg.DocumentHandler.Share)
			r.Delete("/{name}", cfg.DocumentHandler.Delete)
		})

		r.Post("/search", cfg.SearchHandler.Search)
	})

	return r
}
