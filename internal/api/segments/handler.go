package segments

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Abdullah098765/CRM-Software/internal/api"
	"github.com/Abdullah098765/CRM-Software/internal/auth"
	"github.com/Abdullah098765/CRM-Software/internal/domain"
	"github.com/Abdullah098765/CRM-Software/internal/export"
	"github.com/Abdullah098765/CRM-Software/internal/store"
)

const notFound = "Segment not found"

// Handler handles segment HTTP requests.
type Handler struct {
	store *store.Store
}

// List handles GET /api/segments. Each leadCount is the snapshot taken at
// leadCountAt.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	segments, err := h.store.Segments.List(r.Context())
	if err != nil {
		api.StoreError(w, r, err, notFound)
		return
	}
	api.WriteJSON(w, http.StatusOK, segments)
}

// Create handles POST /api/segments.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.Require(w, r, nil)
	if !ok {
		return
	}
	if strings.TrimSpace(actor.Name) == "" {
		api.BadRequest(w, r, "Invalid user information")
		return
	}

	var in domain.SegmentInput
	if err := api.DecodeJSON(r, &in, true); err != nil {
		api.BadRequest(w, r, "Invalid request body")
		return
	}

	seg, err := h.store.Segments.Create(r.Context(), &in, actor)
	if err != nil {
		api.StoreError(w, r, err, notFound)
		return
	}
	api.WriteJSON(w, http.StatusCreated, seg)
}

// Get handles GET /api/segments/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	seg, err := h.store.Segments.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		api.StoreError(w, r, err, notFound)
		return
	}
	api.WriteJSON(w, http.StatusOK, seg)
}

// Leads handles GET /api/segments/{id}/leads by re-running the stored query
// against current lead data.
func (h *Handler) Leads(w http.ResponseWriter, r *http.Request) {
	leads, err := h.store.Segments.Leads(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		api.StoreError(w, r, err, notFound)
		return
	}
	api.WriteJSON(w, http.StatusOK, leads)
}

// Download handles GET /api/segments/{id}/download. format=xlsx returns a
// workbook instead of CSV.
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	seg, err := h.store.Segments.Get(ctx, id)
	if err != nil {
		api.StoreError(w, r, err, notFound)
		return
	}
	leads, err := h.store.Segments.Leads(ctx, seg.ID)
	if err != nil {
		api.StoreError(w, r, err, notFound)
		return
	}

	table := export.SegmentTable(leads)
	switch format := r.URL.Query().Get("format"); format {
	case "", "csv":
		body, err := table.CSV()
		if err != nil {
			api.StoreError(w, r, err, notFound)
			return
		}
		api.WriteAttachment(w, "text/csv", seg.Name+"-leads.csv", body)
	case "xlsx":
		body, err := table.XLSX("Leads")
		if err != nil {
			api.StoreError(w, r, err, notFound)
			return
		}
		api.WriteAttachment(w, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", seg.Name+"-leads.xlsx", body)
	default:
		api.BadRequest(w, r, "format must be csv or xlsx")
	}
}

// Refresh handles POST /api/segments/{id}/refresh, recounting the leads the
// segment currently matches.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.Require(w, r, nil); !ok {
		return
	}
	seg, err := h.store.Segments.Refresh(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		api.StoreError(w, r, err, notFound)
		return
	}
	api.WriteJSON(w, http.StatusOK, seg)
}
