package customers

import "github.com/go-chi/chi/v5"

// MountRoutes attaches the customer endpoints to the router.
func MountRoutes(r chi.Router, h *Handler) {
	r.Route("/customers", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.Show)
		r.Put("/{id}", h.Update)
	})
}
