package tasks

import (
	"encoding/json"
	"net/http"
	"slices"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Abdullah098765/CRM-Software/internal/api"
	"github.com/Abdullah098765/CRM-Software/internal/auth"
	"github.com/Abdullah098765/CRM-Software/internal/domain"
	"github.com/Abdullah098765/CRM-Software/internal/store"
)

const notFound = "Task not found"

// Handler handles task HTTP requests.
type Handler struct {
	store *store.Store
}

// List handles GET /api/tasks, optionally narrowed with leadId.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.store.Tasks.List(r.Context(), strings.TrimSpace(r.URL.Query().Get("leadId")))
	if err != nil {
		api.StoreError(w, r, err, notFound)
		return
	}
	api.WriteJSON(w, http.StatusOK, tasks)
}

// Create handles POST /api/tasks. The task is assigned to the caller unless
// the body names an assignee.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.Require(w, r, nil)
	if !ok {
		return
	}
	var in domain.TaskInput
	if err := api.DecodeJSON(r, &in, true); err != nil {
		api.BadRequest(w, r, "Invalid request body")
		return
	}

	task, err := h.store.Tasks.Create(r.Context(), in.Task(), actor)
	if err != nil {
		api.StoreError(w, r, err, "Lead not found")
		return
	}
	api.WriteJSON(w, http.StatusCreated, task)
}

// Update handles PUT /api/tasks/{id} with the patch as the body.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.Require(w, r, nil)
	if !ok {
		return
	}
	var patch domain.TaskPatch
	if err := api.DecodeJSON(r, &patch, true); err != nil {
		api.BadRequest(w, r, "Invalid request body")
		return
	}
	h.apply(w, r, chi.URLParam(r, "id"), &patch, actor)
}

// UpdateByBody handles PUT /api/tasks/update with {taskId, updates}.
func (h *Handler) UpdateByBody(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.Require(w, r, nil)
	if !ok {
		return
	}
	var body struct {
		TaskID  string                     `json:"taskId"`
		Updates map[string]json.RawMessage `json:"updates"`
	}
	if err := api.DecodeJSON(r, &body, true); err != nil {
		api.BadRequest(w, r, "Invalid request body")
		return
	}
	if strings.TrimSpace(body.TaskID) == "" {
		api.BadRequest(w, r, "Task ID is required")
		return
	}
	if len(body.Updates) == 0 {
		api.BadRequest(w, r, "No updates provided")
		return
	}
	var invalid []string
	for field := range body.Updates {
		if !slices.Contains(domain.TaskPatchFields, field) {
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
	var patch domain.TaskPatch
	if err := json.Unmarshal(raw, &patch); err != nil {
		api.BadRequest(w, r, "Invalid update values")
		return
	}
	h.apply(w, r, body.TaskID, &patch, actor)
}

func (h *Handler) apply(w http.ResponseWriter, r *http.Request, id string, patch *domain.TaskPatch, actor *domain.Actor) {
	if patch.Empty() {
		api.BadRequest(w, r, "No updates provided")
		return
	}
	task, err := h.store.Tasks.Update(r.Context(), id, patch, actor)
	if err != nil {
		api.StoreError(w, r, err, notFound)
		return
	}
	api.WriteJSON(w, http.StatusOK, task)
}
