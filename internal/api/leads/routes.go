package leads

import (
	"github.com/go-chi/chi/v5"

	"github.com/Abdullah098765/CRM-Software/internal/importer"
	"github.com/Abdullah098765/CRM-Software/internal/store"
)

// RegisterRoutes adds all lead endpoints to the router. Uploads larger than
// maxUpload bytes are rejected.
func RegisterRoutes(r chi.Router, s *store.Store, maxUpload int64) {
	h := &Handler{store: s, importer: importer.New(s.Leads), maxUpload: maxUpload}

	r.Route("/api/leads", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/export", h.Export)
		r.Get("/search-count", h.SearchCount)
		r.Post("/import", h.Import)
		r.Post("/archive", h.ArchiveMany)
		r.Post("/update", h.BulkUpdate)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
		r.Post("/{id}/archive", h.Archive)
	})
}
