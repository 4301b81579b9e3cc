package users

import (
	"github.com/go-chi/chi/v5"

	"github.com/Abdullah098765/CRM-Software/internal/store"
)

// RegisterRoutes adds the user endpoints to the router.
func RegisterRoutes(r chi.Router, s *store.Store) {
	h := &Handler{store: s}
	r.Get("/api/users", h.List)
	r.Post("/api/users", h.SignIn)
}
