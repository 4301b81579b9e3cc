package countries_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apicountries "github.com/Abdullah098765/CRM-Software/internal/api/countries"
	"github.com/Abdullah098765/CRM-Software/internal/countries"
)

func TestListCountries(t *testing.T) {
	r := chi.NewRouter()
	apicountries.RegisterRoutes(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/countries", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var got []countries.Country
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, countries.All(), got)
}
