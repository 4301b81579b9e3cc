package leads

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Abdullah098765/CRM-Software/internal/api"
	"github.com/Abdullah098765/CRM-Software/internal/auth"
	"github.com/Abdullah098765/CRM-Software/internal/domain"
	"github.com/Abdullah098765/CRM-Software/internal/export"
	"github.com/Abdullah098765/CRM-Software/internal/importer"
	"github.com/Abdullah098765/CRM-Software/internal/store"
)

const notFound = "Lead not found"

// Handler handles lead HTTP requests.
type Handler struct {
	store     *store.Store
	importer  *importer.Importer
	maxUpload int64
}

// List handles GET /api/leads. archived=true|false narrows the listing.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	var opts store.LeadListOpts
	switch v := r.URL.Query().Get("archived"); v {
	case "":
	case "true", "false":
		archived := v == "true"
		opts.Archived = &archived
	default:
		api.BadRequest(w, r, "archived must be true or false")
		return
	}

	leads, err := h.store.Leads.List(r.Context(), opts)
	if err != nil {
		api.StoreError(w, r, err, notFound)
		return
	}
	api.WriteJSON(w, http.StatusOK, leads)
}

// Create handles POST /api/leads.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in domain.LeadInput
	if err := api.DecodeJSON(r, &in, false); err != nil {
		api.BadRequest(w, r, "Invalid request body")
		return
	}
	actor, ok := auth.Require(w, r, in.User)
	if !ok {
		return
	}

	lead, err := h.store.Leads.Create(r.Context(), in.Lead(domain.SourceManual), actor)
	if err != nil {
		api.StoreError(w, r, err, notFound)
		return
	}
	api.WriteJSON(w, http.StatusCreated, lead)
}

// Get handles GET /api/leads/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	lead, err := h.store.Leads.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		api.StoreError(w, r, err, notFound)
		return
	}
	api.WriteJSON(w, http.StatusOK, lead)
}

// Update handles PUT /api/leads/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.Require(w, r, nil)
	if !ok {
		return
	}
	var patch domain.LeadPatch
	if err := api.DecodeJSON(r, &patch, true); err != nil {
		api.BadRequest(w, r, "Invalid request body")
		return
	}

	lead, err := h.store.Leads.Update(r.Context(), chi.URLParam(r, "id"), &patch, actor)
	if err != nil {
		api.StoreError(w, r, err, notFound)
		return
	}
	api.WriteJSON(w, http.StatusOK, lead)
}

// Delete handles DELETE /api/leads/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.Require(w, r, nil); !ok {
		return
	}
	if err := h.store.Leads.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		api.StoreError(w, r, err, notFound)
		return
	}
	api.WriteJSON(w, http.StatusOK, api.Message{Message: "Lead deleted successfully"})
}

// Archive handles POST /api/leads/{id}/archive.
func (h *Handler) Archive(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.Require(w, r, nil)
	if !ok {
		return
	}
	lead, err := h.store.Leads.Archive(r.Context(), chi.URLParam(r, "id"), actor)
	if err != nil {
		api.StoreError(w, r, err, notFound)
		return
	}
	api.WriteJSON(w, http.StatusOK, lead)
}

// decodeLeadIDs reads a non-empty leadIds array of non-blank strings.
func decodeLeadIDs(raw json.RawMessage) ([]string, bool) {
	var ids []string
	if len(raw) == 0 || json.Unmarshal(raw, &ids) != nil || len(ids) == 0 {
		return nil, false
	}
	for _, id := range ids {
		if strings.TrimSpace(id) == "" {
			return nil, false
		}
	}
	return ids, true
}

// ArchiveMany handles POST /api/leads/archive.
func (h *Handler) ArchiveMany(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.Require(w, r, nil)
	if !ok {
		return
	}
	var body struct {
		LeadIDs json.RawMessage `json:"leadIds"`
	}
	if err := api.DecodeJSON(r, &body, true); err != nil {
		api.BadRequest(w, r, "Invalid request body")
		return
	}
	ids, ok := decodeLeadIDs(body.LeadIDs)
	if !ok {
		api.BadRequest(w, r, "Invalid lead IDs")
		return
	}

	n, err := h.store.Leads.ArchiveMany(r.Context(), ids, actor)
	if err != nil {
		api.StoreError(w, r, err, notFound)
		return
	}
	if n == 0 {
		api.NotFound(w, r, "No leads were updated")
		return
	}
	api.WriteJSON(w, http.StatusOK, api.ModifiedResponse{
		Message:       fmt.Sprintf("Successfully archived %d leads", n),
		ModifiedCount: int64(n),
	})
}

// BulkUpdate handles POST /api/leads/update.
func (h *Handler) BulkUpdate(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.Require(w, r, nil)
	if !ok {
		return
	}
	var body struct {
		LeadIDs json.RawMessage            `json:"leadIds"`
		Updates map[string]json.RawMessage `json:"updates"`
	}
	if err := api.DecodeJSON(r, &body, true); err != nil {
		api.BadRequest(w, r, "Invalid request body")
		return
	}
	ids, ok := decodeLeadIDs(body.LeadIDs)
	if !ok {
		api.BadRequest(w, r, "Invalid lead IDs")
		return
	}
	if len(body.Updates) == 0 {
		api.BadRequest(w, r, "No updates provided")
		return
	}
	var invalid []string
	for field := range body.Updates {
		if !slices.Contains(domain.BulkUpdateFields, field) {
			invalid = append(invalid, field)
		}
	}
	if len(invalid) > 0 {
		sort.Strings(invalid)
		api.BadRequest(w, r, "Invalid fields: "+strings.Join(invalid, ", "))
		return
	}
	raw, err := json.Marshal(body.Updates)
	if err != nil {
		api.StoreError(w, r, err, notFound)
		return
	}
	var upd domain.LeadBulkUpdate
	if err := json.Unmarshal(raw, &upd); err != nil {
		api.BadRequest(w, r, "Invalid update values")
		return
	}

	n, err := h.store.Leads.BulkUpdate(r.Context(), ids, &upd, actor)
	if err != nil {
		api.StoreError(w, r, err, notFound)
		return
	}
	if n == 0 {
		api.NotFound(w, r, "No leads were updated")
		return
	}
	api.WriteJSON(w, http.StatusOK, api.ModifiedResponse{
		Message:       fmt.Sprintf("Successfully updated %d leads", n),
		ModifiedCount: int64(n),
	})
}

// SearchCount handles GET /api/leads/search-count.
func (h *Handler) SearchCount(w http.ResponseWriter, r *http.Request) {
	n, err := h.store.Leads.CountSearch(r.Context(), strings.TrimSpace(r.URL.Query().Get("query")))
	if err != nil {
		api.StoreError(w, r, err, notFound)
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]int{"leadsCount": n})
}

// Export handles GET /api/leads/export.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	archived := false
	leads, err := h.store.Leads.List(r.Context(), store.LeadListOpts{Archived: &archived})
	if err != nil {
		api.StoreError(w, r, err, notFound)
		return
	}
	if len(leads) == 0 {
		api.NotFound(w, r, "No leads found")
		return
	}
	body, err := export.LeadsTable(leads).CSV()
	if err != nil {
		api.StoreError(w, r, err, notFound)
		return
	}
	api.WriteAttachment(w, "text/csv", "leads.csv", body)
}

// Import handles POST /api/leads/import.
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			api.WriteError(w, http.StatusRequestEntityTooLarge, api.NewValidationError("File too large", api.CorrelationID(r.Context()), nil))
			return
		}
		api.BadRequest(w, r, "No file provided")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		api.BadRequest(w, r, "No file provided")
		return
	}
	defer func() { _ = file.Close() }()

	userData, err := auth.ParseUser(r.FormValue("userData"))
	if err != nil {
		api.BadRequest(w, r, "Invalid user data")
		return
	}
	actor, ok := auth.Require(w, r, userData)
	if !ok {
		return
	}

	report, err := h.importer.Import(r.Context(), file, header.Filename, actor)
	switch {
	case errors.Is(err, importer.ErrUnsupportedFormat):
		api.BadRequest(w, r, err.Error())
		return
	case errors.Is(err, importer.ErrNoValidRows):
		api.WriteJSON(w, http.StatusBadRequest, importResponse{
			Error:   "No valid leads found in the file",
			Details: report,
		})
		return
	case err != nil:
		api.StoreError(w, r, err, notFound)
		return
	}

	api.WriteJSON(w, http.StatusOK, importResponse{
		Message: "Leads imported successfully",
		Count:   report.SuccessfullyImported,
		Details: report,
	})
}

type importResponse struct {
	Message string           `json:"message,omitempty"`
	Error   string           `json:"error,omitempty"`
	Count   int              `json:"count"`
	Details *importer.Report `json:"details"`
}
