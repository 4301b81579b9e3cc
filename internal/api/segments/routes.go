package segments

import (
	"github.com/go-chi/chi/v5"

	"github.com/Abdullah098765/CRM-Software/internal/store"
)

// RegisterRoutes adds all segment endpoints to the router.
func RegisterRoutes(r chi.Router, s *store.Store) {
	h := &Handler{store: s}

	r.Route("/api/segments", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.Get)
		r.Get("/{id}/leads", h.Leads)
		r.Get("/{id}/download", h.Download)
		r.Post("/{id}/refresh", h.Refresh)
	})
}
