package users_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Abdullah098765/CRM-Software/internal/api"
	"github.com/Abdullah098765/CRM-Software/internal/api/users"
	"github.com/Abdullah098765/CRM-Software/internal/domain"
	"github.com/Abdullah098765/CRM-Software/internal/store"
	"github.com/Abdullah098765/CRM-Software/internal/testhelpers"
)

func setupServer(t *testing.T) *httptest.Server {
	t.Helper()
	s := store.New(testhelpers.NewMigratedDB(t))
	r := chi.NewRouter()
	users.RegisterRoutes(r, s)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, srv *httptest.Server, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(srv.URL+"/api/users", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestSignInCreatesThenRefreshes(t *testing.T) {
	srv := setupServer(t)

	resp := post(t, srv, `{"id":"u1","email":"Zoe@Example.com","name":"Zoe","photoURL":"https://img.test/z.png"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var first domain.User
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&first))
	assert.Equal(t, "zoe@example.com", first.Email)
	assert.Equal(t, "u1", first.UID)

	resp = post(t, srv, `{"id":"u1","email":"zoe@example.com","name":"Zoe Again"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var second domain.User
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&second))
	assert.Equal(t, "Zoe", second.Name)
	assert.False(t, second.LastLogin.Before(first.LastLogin))
}

func TestSignInValidation(t *testing.T) {
	srv := setupServer(t)

	tests := []struct {
		name   string
		body   string
		status int
		msg    string
	}{
		{"missing name", `{"id":"u1","email":"a@b.test"}`, http.StatusBadRequest, "Missing required fields"},
		{"missing id", `{"email":"a@b.test","name":"A"}`, http.StatusBadRequest, "Missing required fields"},
		{"blank email", `{"id":"u1","email":"  ","name":"A"}`, http.StatusBadRequest, "Missing required fields"},
		{"bad json", `{"id":`, http.StatusBadRequest, "Invalid request body"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, srv, tt.body)
			assert.Equal(t, tt.status, resp.StatusCode)
			var apiErr api.Error
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&apiErr))
			assert.Equal(t, tt.msg, apiErr.Message)
		})
	}
}

func TestSignInEmailConflict(t *testing.T) {
	srv := setupServer(t)
	require.Equal(t, http.StatusOK, post(t, srv, `{"id":"u1","email":"a@b.test","name":"A"}`).StatusCode)

	resp := post(t, srv, `{"id":"u2","email":"A@b.test","name":"B"}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestListUsers(t *testing.T) {
	srv := setupServer(t)
	post(t, srv, `{"id":"u1","email":"zoe@example.com","name":"Zoe"}`)
	post(t, srv, `{"id":"u2","email":"adam@example.com","name":"Adam"}`)

	resp, err := http.Get(srv.URL + "/api/users")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	require.Len(t, got, 2)
	assert.Equal(t, map[string]any{"email": "adam@example.com", "name": "Adam"}, got[0])
	assert.Equal(t, "Zoe", got[1]["name"])
}
