// Package server assembles the HTTP handler: middleware, resource routes,
// metrics and health endpoints.
package server

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Abdullah098765/CRM-Software/internal/api"
	"github.com/Abdullah098765/CRM-Software/internal/api/admin"
	"github.com/Abdullah098765/CRM-Software/internal/api/countries"
	"github.com/Abdullah098765/CRM-Software/internal/api/dashboard"
	"github.com/Abdullah098765/CRM-Software/internal/api/leads"
	"github.com/Abdullah098765/CRM-Software/internal/api/search"
	"github.com/Abdullah098765/CRM-Software/internal/api/segments"
	"github.com/Abdullah098765/CRM-Software/internal/api/tasks"
	"github.com/Abdullah098765/CRM-Software/internal/api/timeline"
	"github.com/Abdullah098765/CRM-Software/internal/api/users"
	"github.com/Abdullah098765/CRM-Software/internal/auth"
	"github.com/Abdullah098765/CRM-Software/internal/config"
	"github.com/Abdullah098765/CRM-Software/internal/database"
	"github.com/Abdullah098765/CRM-Software/internal/store"
)

// New returns the application handler. Recovery, request ids and request
// logging wrap the router; CORS, metrics and identity run inside it.
func New(cfg config.Config, s *store.Store) http.Handler {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := api.NewMetrics(reg)

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", auth.UserHeader, "X-Correlation-Id"},
		ExposedHeaders: []string{"X-Correlation-Id", "Content-Disposition"},
		MaxAge:         300,
	}))
	r.Use(metrics.Middleware)

	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	r.Get("/healthz", health(s))

	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(auth.NewVerifier(cfg.JWTSecret, cfg.JWTIssuer)))

		dashboard.RegisterRoutes(r, s)
		leads.RegisterRoutes(r, s, cfg.MaxUploadBytes)
		segments.RegisterRoutes(r, s)
		tasks.RegisterRoutes(r, s)
		timeline.RegisterRoutes(r, s)
		users.RegisterRoutes(r, s)
		search.RegisterRoutes(r, s, cfg.SearchLimit)
		countries.RegisterRoutes(r)

		if cfg.EnableAdmin {
			admin.RegisterRoutes(r, s)
		}
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		api.NotFound(w, r, fmt.Sprintf("No route found for %s %s", r.Method, r.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		api.WriteError(w, http.StatusMethodNotAllowed, &api.Error{
			Message:       fmt.Sprintf("Method %s not allowed on %s", r.Method, r.URL.Path),
			CorrelationID: api.CorrelationID(r.Context()),
			Category:      api.CategoryValidationError,
		})
	})

	return api.Chain(r,
		api.Recovery(),
		api.RequestID(),
		api.Logging(),
	)
}

type healthResponse struct {
	Status        string `json:"status"`
	SchemaVersion int    `json:"schemaVersion"`
}

func health(s *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.DB.PingContext(r.Context()); err != nil {
			api.StoreError(w, r, fmt.Errorf("ping database: %w", err), "")
			return
		}
		v, err := database.Version(r.Context(), s.DB)
		if err != nil {
			api.StoreError(w, r, err, "")
			return
		}
		status := "ok"
		if v < database.Latest() {
			status = "migrations pending"
		}
		api.WriteJSON(w, http.StatusOK, healthResponse{Status: status, SchemaVersion: v})
	}
}
