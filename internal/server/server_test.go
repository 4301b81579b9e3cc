package server_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Abdullah098765/CRM-Software/internal/api"
	"github.com/Abdullah098765/CRM-Software/internal/auth"
	"github.com/Abdullah098765/CRM-Software/internal/config"
	"github.com/Abdullah098765/CRM-Software/internal/domain"
	"github.com/Abdullah098765/CRM-Software/internal/server"
	"github.com/Abdullah098765/CRM-Software/internal/store"
	"github.com/Abdullah098765/CRM-Software/internal/testhelpers"
)

const leadBody = `{"businessName":"Acme","businessCategory":"Retail","email":"hi@acme.test","country":"Canada","state":"Ontario","city":"Toronto"}`

func testConfig() config.Config {
	return config.Config{
		AllowedOrigins: []string{"*"},
		JWTIssuer:      "crm",
		MaxUploadBytes: 1 << 20,
		SearchLimit:    5,
	}
}

func start(t *testing.T, cfg config.Config) *httptest.Server {
	t.Helper()
	s := store.New(testhelpers.NewMigratedDB(t))
	srv := httptest.NewServer(server.New(cfg, s))
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, method, url, body string, header map[string]string) *http.Response {
	t.Helper()
	var rd io.Reader = http.NoBody
	if body != "" {
		rd = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, rd)
	require.NoError(t, err)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestLeadLifecycleThroughServer(t *testing.T) {
	srv := start(t, testConfig())
	user := map[string]string{auth.UserHeader: `{"name":"Ops","email":"ops@example.com"}`}

	resp := do(t, http.MethodPost, srv.URL+"/api/leads", leadBody, user)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Correlation-Id"))
	var lead domain.Lead
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&lead))
	assert.Equal(t, "0000001", lead.LeadID)

	resp = do(t, http.MethodGet, srv.URL+"/api/timeline?leadId="+lead.ID, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var events []domain.TimelineEvent
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&events))
	require.Len(t, events, 1)
	assert.Equal(t, domain.EventLeadCreated, events[0].Type)

	resp = do(t, http.MethodGet, srv.URL+"/api/dashboard/stats", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var stats domain.DashboardStats
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&stats))
	assert.Equal(t, 1, stats.TotalLeads)
}

func TestUnknownRoute(t *testing.T) {
	srv := start(t, testConfig())

	resp := do(t, http.MethodGet, srv.URL+"/api/nothing", "", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	var apiErr api.Error
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&apiErr))
	assert.Equal(t, "No route found for GET /api/nothing", apiErr.Message)
	assert.Equal(t, api.CategoryObjectNotFound, apiErr.Category)

	resp = do(t, http.MethodPatch, srv.URL+"/api/leads", "", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestMalformedUserHeader(t *testing.T) {
	srv := start(t, testConfig())

	resp := do(t, http.MethodGet, srv.URL+"/api/leads", "", map[string]string{auth.UserHeader: "{not json"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var apiErr api.Error
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&apiErr))
	assert.Equal(t, "Invalid user header", apiErr.Message)
}

func TestTokenMode(t *testing.T) {
	cfg := testConfig()
	cfg.JWTSecret = "test-secret"
	srv := start(t, cfg)

	token, err := auth.NewVerifier(cfg.JWTSecret, cfg.JWTIssuer).
		Issue(domain.Actor{Name: "Ops", Email: "ops@example.com"}, time.Hour)
	require.NoError(t, err)

	// The user header is not trusted once tokens are enforced.
	resp := do(t, http.MethodPost, srv.URL+"/api/leads", leadBody,
		map[string]string{auth.UserHeader: `{"name":"Ops","email":"ops@example.com"}`})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = do(t, http.MethodPost, srv.URL+"/api/leads", leadBody,
		map[string]string{"Authorization": "Bearer nope"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = do(t, http.MethodPost, srv.URL+"/api/leads", leadBody,
		map[string]string{"Authorization": "Bearer " + token})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var lead domain.Lead
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&lead))
	require.NotNil(t, lead.CreatedBy)
	assert.Equal(t, "ops@example.com", lead.CreatedBy.Email)

	resp = do(t, http.MethodGet, srv.URL+"/api/leads", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAdminRoutesOptIn(t *testing.T) {
	srv := start(t, testConfig())
	resp := do(t, http.MethodPost, srv.URL+"/api/admin/seed", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	cfg := testConfig()
	cfg.EnableAdmin = true
	srv = start(t, cfg)
	resp = do(t, http.MethodPost, srv.URL+"/api/admin/seed", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, http.MethodPost, srv.URL+"/api/admin/seed", "",
		map[string]string{auth.UserHeader: `{"name":"Ops","email":"ops@example.com"}`})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHealthAndMetrics(t *testing.T) {
	srv := start(t, testConfig())

	resp := do(t, http.MethodGet, srv.URL+"/healthz", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var health map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	assert.Equal(t, "ok", health["status"])

	do(t, http.MethodGet, srv.URL+"/api/countries", "", nil)

	resp = do(t, http.MethodGet, srv.URL+"/metrics", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `crm_http_requests_total{method="GET",route="/api/countries",status="200"} 1`)
}

func TestCORSPreflight(t *testing.T) {
	srv := start(t, testConfig())

	resp := do(t, http.MethodOptions, srv.URL+"/api/leads", "", map[string]string{
		"Origin":                         "https://app.example.com",
		"Access-Control-Request-Method":  http.MethodPost,
		"Access-Control-Request-Headers": "content-type,user",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}
