package users

import (
	"net/http"
	"strings"

	"github.com/Abdullah098765/CRM-Software/internal/api"
	"github.com/Abdullah098765/CRM-Software/internal/domain"
	"github.com/Abdullah098765/CRM-Software/internal/store"
)

// Handler handles user HTTP requests.
type Handler struct {
	store *store.Store
}

// summary is the directory view of a user.
type summary struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// List handles GET /api/users, sorted by name.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.store.Users.List(r.Context())
	if err != nil {
		api.StoreError(w, r, err, "User not found")
		return
	}
	out := make([]summary, len(users))
	for i, u := range users {
		out[i] = summary{Email: u.Email, Name: u.Name}
	}
	api.WriteJSON(w, http.StatusOK, out)
}

// SignIn handles POST /api/users: the first sign-in creates the user, later
// ones refresh lastLogin.
func (h *Handler) SignIn(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ID       string `json:"id"`
		Email    string `json:"email"`
		Name     string `json:"name"`
		PhotoURL string `json:"photoURL"`
	}
	if err := api.DecodeJSON(r, &body, false); err != nil {
		api.BadRequest(w, r, "Invalid request body")
		return
	}
	u := &domain.User{
		UID:      strings.TrimSpace(body.ID),
		Email:    strings.TrimSpace(body.Email),
		Name:     strings.TrimSpace(body.Name),
		PhotoURL: strings.TrimSpace(body.PhotoURL),
	}
	if u.UID == "" || u.Email == "" || u.Name == "" {
		api.BadRequest(w, r, "Missing required fields")
		return
	}

	saved, err := h.store.Users.Upsert(r.Context(), u)
	if err != nil {
		api.StoreError(w, r, err, "User not found")
		return
	}
	api.WriteJSON(w, http.StatusOK, saved)
}
