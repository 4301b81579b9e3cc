package tasks_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Abdullah098765/CRM-Software/internal/api"
	"github.com/Abdullah098765/CRM-Software/internal/api/tasks"
	"github.com/Abdullah098765/CRM-Software/internal/auth"
	"github.com/Abdullah098765/CRM-Software/internal/domain"
	"github.com/Abdullah098765/CRM-Software/internal/store"
	"github.com/Abdullah098765/CRM-Software/internal/testhelpers"
)

const userHeader = `{"name":"Ops","email":"ops@example.com"}`

var actor = &domain.Actor{Name: "Ops", Email: "ops@example.com"}

func setupServer(t *testing.T) (*httptest.Server, *store.Store) {
	t.Helper()
	s := store.New(testhelpers.NewMigratedDB(t))

	r := chi.NewRouter()
	r.Use(api.RequestID(), auth.Middleware(nil))
	tasks.RegisterRoutes(r, s)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, s
}

func seedLead(t *testing.T, s *store.Store, name string) *domain.Lead {
	t.Helper()
	in := domain.LeadInput{
		BusinessName: name, BusinessCategory: "Retail", Email: "hi@" + name + ".test",
		Country: "Canada", State: "Ontario", City: "Toronto",
	}
	l, err := s.Leads.Create(context.Background(), in.Lead(domain.SourceManual), actor)
	require.NoError(t, err)
	return l
}

func seedTask(t *testing.T, s *store.Store, leadID, title string) *domain.Task {
	t.Helper()
	in := domain.TaskInput{LeadID: leadID, Title: title}
	task, err := s.Tasks.Create(context.Background(), in.Task(), actor)
	require.NoError(t, err)
	return task
}

func do(t *testing.T, srv *httptest.Server, method, path, body, user string) *http.Response {
	t.Helper()
	var rd io.Reader = http.NoBody
	if body != "" {
		rd = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, srv.URL+path, rd)
	require.NoError(t, err)
	if user != "" {
		req.Header.Set(auth.UserHeader, user)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestCreateTask(t *testing.T) {
	srv, s := setupServer(t)
	lead := seedLead(t, s, "acme")

	resp := do(t, srv, http.MethodPost, "/api/tasks",
		`{"leadId":"`+lead.LeadID+`","title":"Call back","priority":"high","dueDate":"2030-01-02T00:00:00Z"}`, userHeader)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	task := decode[domain.Task](t, resp)
	assert.Equal(t, lead.ID, task.LeadID)
	assert.Equal(t, domain.TaskPending, task.Status)
	assert.Equal(t, domain.PriorityHigh, task.Priority)
	require.NotNil(t, task.AssignedTo)
	assert.Equal(t, "ops@example.com", task.AssignedTo.Email)
	require.NotNil(t, task.DueDate)
	assert.Equal(t, 2030, task.DueDate.Year())
}

func TestCreateTaskErrors(t *testing.T) {
	srv, s := setupServer(t)
	lead := seedLead(t, s, "acme")

	tests := []struct {
		name   string
		body   string
		user   string
		status int
		msg    string
	}{
		{"no user", `{"leadId":"` + lead.ID + `","title":"x"}`, "", http.StatusBadRequest, domain.MsgUserRequired},
		{"bad json", `{"leadId":`, userHeader, http.StatusBadRequest, "Invalid request body"},
		{"unknown field", `{"leadId":"` + lead.ID + `","title":"x","owner":"me"}`, userHeader, http.StatusBadRequest, "Invalid request body"},
		{"missing title", `{"leadId":"` + lead.ID + `"}`, userHeader, http.StatusBadRequest, ""},
		{"bad status", `{"leadId":"` + lead.ID + `","title":"x","status":"later"}`, userHeader, http.StatusBadRequest, ""},
		{"unknown lead", `{"leadId":"0000000","title":"x"}`, userHeader, http.StatusNotFound, "Lead not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, srv, http.MethodPost, "/api/tasks", tt.body, tt.user)
			assert.Equal(t, tt.status, resp.StatusCode)
			apiErr := decode[api.Error](t, resp)
			if tt.msg != "" {
				assert.Equal(t, tt.msg, apiErr.Message)
			}
		})
	}
}

func TestListTasks(t *testing.T) {
	srv, s := setupServer(t)
	a := seedLead(t, s, "alpha")
	b := seedLead(t, s, "beta")
	seedTask(t, s, a.ID, "first")
	seedTask(t, s, b.ID, "second")

	resp := do(t, srv, http.MethodGet, "/api/tasks", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]domain.Task](t, resp), 2)

	resp = do(t, srv, http.MethodGet, "/api/tasks?leadId="+b.ID, "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decode[[]domain.Task](t, resp)
	require.Len(t, got, 1)
	assert.Equal(t, "second", got[0].Title)
}

func TestUpdateTask(t *testing.T) {
	srv, s := setupServer(t)
	lead := seedLead(t, s, "acme")
	task := seedTask(t, s, lead.ID, "Call back")

	resp := do(t, srv, http.MethodPut, "/api/tasks/"+task.ID, `{"status":"completed"}`, userHeader)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, domain.TaskCompleted, decode[domain.Task](t, resp).Status)

	events, err := s.Timeline.List(context.Background(), lead.ID)
	require.NoError(t, err)
	var updated int
	for _, ev := range events {
		if ev.Type == domain.EventTaskUpdated {
			updated++
		}
	}
	assert.Equal(t, 1, updated)
}

func TestUpdateTaskErrors(t *testing.T) {
	srv, s := setupServer(t)
	lead := seedLead(t, s, "acme")
	task := seedTask(t, s, lead.ID, "Call back")

	tests := []struct {
		name   string
		path   string
		body   string
		user   string
		status int
		msg    string
	}{
		{"no user", "/api/tasks/" + task.ID, `{"status":"completed"}`, "", http.StatusBadRequest, domain.MsgUserRequired},
		{"empty patch", "/api/tasks/" + task.ID, `{}`, userHeader, http.StatusBadRequest, "No updates provided"},
		{"unknown field", "/api/tasks/" + task.ID, `{"owner":"x"}`, userHeader, http.StatusBadRequest, "Invalid request body"},
		{"missing task", "/api/tasks/nope", `{"title":"x"}`, userHeader, http.StatusNotFound, "Task not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, srv, http.MethodPut, tt.path, tt.body, tt.user)
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Equal(t, tt.msg, decode[api.Error](t, resp).Message)
		})
	}
}

func TestUpdateTaskByBody(t *testing.T) {
	srv, s := setupServer(t)
	lead := seedLead(t, s, "acme")
	task := seedTask(t, s, lead.ID, "Call back")

	resp := do(t, srv, http.MethodPut, "/api/tasks/update",
		`{"taskId":"`+task.ID+`","updates":{"title":"Email instead","priority":"low"}}`, userHeader)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decode[domain.Task](t, resp)
	assert.Equal(t, "Email instead", got.Title)
	assert.Equal(t, domain.PriorityLow, got.Priority)

	tests := []struct {
		name   string
		body   string
		status int
		msg    string
	}{
		{"no task id", `{"updates":{"title":"x"}}`, http.StatusBadRequest, "Task ID is required"},
		{"no updates", `{"taskId":"` + task.ID + `","updates":{}}`, http.StatusBadRequest, "No updates provided"},
		{"invalid fields", `{"taskId":"` + task.ID + `","updates":{"zeta":1,"alpha":2}}`, http.StatusBadRequest, "Invalid fields: alpha, zeta"},
		{"bad value", `{"taskId":"` + task.ID + `","updates":{"title":7}}`, http.StatusBadRequest, "Invalid update values"},
		{"missing task", `{"taskId":"nope","updates":{"title":"x"}}`, http.StatusNotFound, "Task not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, srv, http.MethodPut, "/api/tasks/update", tt.body, userHeader)
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Equal(t, tt.msg, decode[api.Error](t, resp).Message)
		})
	}
}
