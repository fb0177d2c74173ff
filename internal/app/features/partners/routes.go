// internal/app/features/partners/routes.go
package partners

import "github.com/go-chi/chi/v5"

// Routes returns the dashboard routes; mounted under /partners.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	// No tab in the path: send the browser to the default tab.
	r.Get("/{id}/stats", h.ServeRedirect)
	r.Get("/{id}/stats/", h.ServeRedirect)

	r.Get("/{id}/stats/{tabname}", h.ServeStats)

	// HTMX swaps this into the page in place of the placeholder.
	r.Get("/{id}/stats/{tabname}/panel", h.ServePanel)

	return r
}
