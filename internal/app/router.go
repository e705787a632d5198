package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/belegwerk/belegwerk/internal/customers"
	"github.com/belegwerk/belegwerk/internal/documents"
	"github.com/belegwerk/belegwerk/internal/profiles"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger           *slog.Logger
	Config           *Config
	CustomersHandler *customers.Handler
	ProfilesHandler  *profiles.Handler
	DocumentsHandler *documents.Handler
}

// NewRouter constructs the chi.Router with application defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
	}) {
		r.Use(mw)
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {
		customers.MountRoutes(r, params.CustomersHandler)
		profiles.MountRoutes(r, params.ProfilesHandler)
		documents.MountRoutes(r, params.DocumentsHandler)
	})

	return r
}
