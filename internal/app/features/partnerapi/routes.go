// internal/app/features/partnerapi/routes.go
package partnerapi

import "github.com/go-chi/chi/v5"

// Routes returns the partner API; mounted under /api/partners.
// Paths accept an optional trailing slash.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
	r.Get("/{id}/", h.Get)

	r.Group(func(ar chi.Router) {
		ar.Use(h.RequireAdmin)

		ar.Post("/", h.Create)
		ar.Put("/{id}", h.Update)
		ar.Put("/{id}/", h.Update)
		ar.Delete("/{id}", h.Delete)
		ar.Delete("/{id}/", h.Delete)
	})

	return r
}
