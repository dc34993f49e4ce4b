package offline

import "github.com/go-chi/chi/v5"

// MountRoutes attaches the offline queue endpoints to the router.
func MountRoutes(r chi.Router, h *Handler) {
	r.Post("/", h.Enqueue)
	r.Get("/pending", h.Pending)
	r.Get("/stats", h.Stats)
	r.Delete("/sent", h.PurgeSent)
}
