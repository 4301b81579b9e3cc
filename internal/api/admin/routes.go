package admin

import (
	"github.com/go-chi/chi/v5"

	"github.com/Abdullah098765/CRM-Software/internal/store"
)

// RegisterRoutes registers the admin endpoints. They are only mounted when
// explicitly enabled and, like every other write, need an acting user.
func RegisterRoutes(r chi.Router, s *store.Store) {
	h := &Handler{store: s}

	r.Post("/api/admin/reset", h.Reset)
	r.Post("/api/admin/seed", h.SeedData)
}
