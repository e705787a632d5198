package documents

import (
	"github.com/go-chi/chi/v5"
)

// MountRoutes attaches the document endpoints to the router.
func MountRoutes(r chi.Router, h *Handler) {
	r.Post("/documents", h.Create)
	r.Get("/documents", h.List)
	r.Get("/documents/{id}", h.Show)
	r.Post("/documents/{id}/render", h.Render)
	r.Get("/documents/{id}/pdf", h.Download)
	r.Post("/offers/{id}/convert", h.ConvertOffer)
	r.Post("/confirmations/{id}/convert", h.ConvertConfirmation)
}
