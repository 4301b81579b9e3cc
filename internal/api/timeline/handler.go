package timeline

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Abdullah098765/CRM-Software/internal/api"
	"github.com/Abdullah098765/CRM-Software/internal/store"
)

// Handler handles timeline HTTP requests.
type Handler struct {
	store *store.Store
}

// List handles GET /api/timeline?leadId=, newest event first. leadId may be
// the record id or the 7-digit lead id; events of deleted leads are still
// served by record id.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	leadID := strings.TrimSpace(r.URL.Query().Get("leadId"))
	if leadID == "" {
		api.BadRequest(w, r, "Lead ID is required")
		return
	}

	lead, err := h.store.Leads.Get(r.Context(), leadID)
	switch {
	case err == nil:
		leadID = lead.ID
	case !errors.Is(err, store.ErrNotFound):
		api.StoreError(w, r, err, "Lead not found")
		return
	}

	events, err := h.store.Timeline.List(r.Context(), leadID)
	if err != nil {
		api.StoreError(w, r, err, "Lead not found")
		return
	}
	api.WriteJSON(w, http.StatusOK, events)
}
