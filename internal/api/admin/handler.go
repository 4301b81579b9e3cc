package admin

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/Abdullah098765/CRM-Software/internal/api"
	"github.com/Abdullah098765/CRM-Software/internal/auth"
	"github.com/Abdullah098765/CRM-Software/internal/database"
	"github.com/Abdullah098765/CRM-Software/internal/seed"
	"github.com/Abdullah098765/CRM-Software/internal/store"
)

// Handler serves the maintenance API at /api/admin/.
type Handler struct {
	store *store.Store
}

type status struct {
	Status string `json:"status"`
}

// Reset deletes all records and re-seeds the demo data.
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.Require(w, r, nil)
	if !ok {
		return
	}
	if err := ResetData(r.Context(), h.store); err != nil {
		h.fail(w, r, err)
		return
	}
	slog.Warn("database reset", "actor", actor.Email, "correlationId", api.CorrelationID(r.Context()))
	api.WriteJSON(w, http.StatusOK, status{Status: "ok"})
}

// SeedData seeds the demo data without clearing existing records. It is a
// no-op once leads exist.
func (h *Handler) SeedData(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.Require(w, r, nil); !ok {
		return
	}
	if err := seed.Seed(r.Context(), h.store); err != nil {
		h.fail(w, r, fmt.Errorf("seed: %w", err))
		return
	}
	api.WriteJSON(w, http.StatusOK, status{Status: "ok"})
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	api.WriteError(w, http.StatusInternalServerError, &api.Error{
		Message:       err.Error(),
		CorrelationID: api.CorrelationID(r.Context()),
		Category:      api.CategoryInternal,
	})
}

// ResetData clears every record and re-seeds.
func ResetData(ctx context.Context, s *store.Store) error {
	if err := database.Reset(ctx, s.DB); err != nil {
		return err
	}
	return seed.Seed(ctx, s)
}
