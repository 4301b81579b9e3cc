package search

import (
	"github.com/go-chi/chi/v5"

	"github.com/Abdullah098765/CRM-Software/internal/store"
)

// RegisterRoutes adds the global search endpoint. limit applies when the
// request does not name one.
func RegisterRoutes(r chi.Router, s *store.Store, limit int) {
	h := &Handler{store: s, limit: limit}
	r.Get("/api/search", h.Search)
}
