package dashboard

import (
	"github.com/go-chi/chi/v5"

	"github.com/Abdullah098765/CRM-Software/internal/store"
)

// RegisterRoutes adds the dashboard endpoint to the router.
func RegisterRoutes(r chi.Router, s *store.Store) {
	h := &Handler{store: s}
	r.Get("/api/dashboard/stats", h.Stats)
}
