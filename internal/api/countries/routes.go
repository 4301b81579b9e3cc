package countries

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Abdullah098765/CRM-Software/internal/api"
	"github.com/Abdullah098765/CRM-Software/internal/countries"
)

// RegisterRoutes adds the countries reference endpoint to the router.
func RegisterRoutes(r chi.Router) {
	r.Get("/api/countries", func(w http.ResponseWriter, _ *http.Request) {
		api.WriteJSON(w, http.StatusOK, countries.All())
	})
}
