package tasks

import (
	"github.com/go-chi/chi/v5"

	"github.com/Abdullah098765/CRM-Software/internal/store"
)

// RegisterRoutes adds all task endpoints to the router.
func RegisterRoutes(r chi.Router, s *store.Store) {
	h := &Handler{store: s}

	r.Route("/api/tasks", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Put("/update", h.UpdateByBody)
		r.Put("/{id}", h.Update)
	})
}
