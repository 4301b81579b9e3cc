package dashboard

import (
	"net/http"
	"time"

	"github.com/Abdullah098765/CRM-Software/internal/api"
	"github.com/Abdullah098765/CRM-Software/internal/store"
)

// Handler handles dashboard HTTP requests.
type Handler struct {
	store *store.Store
}

// Stats handles GET /api/dashboard/stats.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.Stats.Dashboard(r.Context(), time.Now().UTC())
	if err != nil {
		api.StoreError(w, r, err, "Not found")
		return
	}
	api.WriteJSON(w, http.StatusOK, stats)
}
