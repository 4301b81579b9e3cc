package search_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Abdullah098765/CRM-Software/internal/api"
	"github.com/Abdullah098765/CRM-Software/internal/api/search"
	"github.com/Abdullah098765/CRM-Software/internal/domain"
	"github.com/Abdullah098765/CRM-Software/internal/store"
	"github.com/Abdullah098765/CRM-Software/internal/testhelpers"
)

func setupServer(t *testing.T, limit int) (*httptest.Server, *store.Store) {
	t.Helper()
	s := store.New(testhelpers.NewMigratedDB(t))
	r := chi.NewRouter()
	r.Use(api.RequestID())
	search.RegisterRoutes(r, s, limit)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, s
}

func seed(t *testing.T, s *store.Store, n int) {
	t.Helper()
	actor := &domain.Actor{Name: "Ops", Email: "ops@example.com"}
	for i := range n {
		in := domain.LeadInput{
			BusinessName: fmt.Sprintf("Harbor Bakery %d", i), BusinessCategory: "Food",
			Email: fmt.Sprintf("b%d@harbor.test", i), Country: "Canada", State: "Ontario", City: "Toronto",
		}
		lead, err := s.Leads.Create(context.Background(), in.Lead(domain.SourceManual), actor)
		require.NoError(t, err)
		if i == 0 {
			task := domain.TaskInput{LeadID: lead.ID, Title: "Visit harbor"}
			_, err = s.Tasks.Create(context.Background(), task.Task(), actor)
			require.NoError(t, err)
		}
	}
}

func get(t *testing.T, url string) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestSearchDefaultsToAllCategories(t *testing.T) {
	srv, s := setupServer(t, 2)
	seed(t, s, 3)

	resp := get(t, srv.URL+"/api/search?query=harbor")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var res domain.SearchResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	assert.Len(t, res.Leads, 2)
	assert.Len(t, res.Tasks, 1)
	assert.Empty(t, res.Segments)
	assert.Equal(t, domain.SearchPagination{HasMore: true, Page: 1, Total: 3}, res.Pagination)
}

func TestSearchPageAndType(t *testing.T) {
	srv, s := setupServer(t, 2)
	seed(t, s, 3)

	resp := get(t, srv.URL+"/api/search?query=HARBOR&type=leads&page=2")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var res domain.SearchResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	assert.Len(t, res.Leads, 1)
	assert.Empty(t, res.Tasks)
	assert.False(t, res.Pagination.HasMore)
	assert.Equal(t, 2, res.Pagination.Page)
}

func TestSearchEmptyQuery(t *testing.T) {
	srv, s := setupServer(t, 5)
	seed(t, s, 1)

	resp := get(t, srv.URL+"/api/search")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var res domain.SearchResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	assert.Empty(t, res.Leads)
	assert.Empty(t, res.Tasks)
	assert.Empty(t, res.Segments)
}

func TestSearchBadParams(t *testing.T) {
	srv, _ := setupServer(t, 5)

	for _, q := range []string{"page=0", "limit=abc", "type=people"} {
		t.Run(q, func(t *testing.T) {
			resp := get(t, srv.URL+"/api/search?query=x&"+q)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}
