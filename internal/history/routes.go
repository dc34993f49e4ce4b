package history

import "github.com/go-chi/chi/v5"

// MountRoutes attaches the history endpoints to the router.
func MountRoutes(r chi.Router, h *Handler) {
	r.Get("/", h.List)
	r.Post("/batch", h.SaveBatch)
	r.Delete("/", h.Clear)
	r.Get("/stats", h.GetStats)
	r.Get("/dashboard", h.Dashboard)
	r.Get("/companies", h.Companies)
	r.Get("/customers", h.Customers)
	r.Patch("/pdf-path", h.UpdatePDFPath)
}
