package search

import (
	"net/http"
	"strings"

	"github.com/Abdullah098765/CRM-Software/internal/api"
	"github.com/Abdullah098765/CRM-Software/internal/store"
)

// Handler handles search HTTP requests.
type Handler struct {
	store *store.Store
	limit int
}

// Search handles GET /api/search?query=&page=&limit=&type=.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	page, err := api.QueryInt(r, "page", 1)
	if err != nil {
		api.BadRequest(w, r, err.Error())
		return
	}
	limit, err := api.QueryInt(r, "limit", h.limit)
	if err != nil {
		api.BadRequest(w, r, err.Error())
		return
	}
	q := r.URL.Query()

	res, err := h.store.Search.Search(r.Context(), store.SearchOpts{
		Query: strings.TrimSpace(q.Get("query")),
		Type:  q.Get("type"),
		Page:  page,
		Limit: limit,
	})
	if err != nil {
		api.StoreError(w, r, err, "Not found")
		return
	}
	api.WriteJSON(w, http.StatusOK, res)
}
