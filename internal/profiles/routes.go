package profiles

import "github.com/go-chi/chi/v5"

// MountRoutes attaches the profile endpoints to the router.
func MountRoutes(r chi.Router, h *Handler) {
	r.Route("/profiles/{id}", func(r chi.Router) {
		r.Get("/", h.Show)
		r.Put("/", h.Update)
		r.Get("/settings", h.ShowSettings)
		r.Put("/settings", h.SaveSettings)
		r.Post("/logo", h.UploadBranding(SlotLogo))
		r.Delete("/logo", h.RemoveBranding(SlotLogo))
		r.Post("/letterhead", h.UploadBranding(SlotLetterhead))
		r.Delete("/letterhead", h.RemoveBranding(SlotLetterhead))
	})
}
