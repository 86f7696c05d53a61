// Package server exposes the dashboard over HTTP: an HTML page, a JSON
// API, and per-section CSV downloads.
package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/chrisdamba/deliverydash/internal/models"
	"github.com/chrisdamba/deliverydash/internal/reports"
)

type Server struct {
	svc      *reports.Service
	defaults models.DateRange
}

func New(svc *reports.Service, defaults models.DateRange) *Server {
	return &Server{svc: svc, defaults: defaults}
}

// Router mounts every dashboard route.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/", s.handleDashboard)
	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/orders", s.handleOrdersJSON)
		r.Get("/orders/kpi", s.handleOrdersKPIJSON)
		r.Get("/revenue", s.handleRevenueJSON)
		r.Get("/revenue/kpi", s.handleRevenueKPIJSON)
		r.Get("/drivers", s.handleDriversJSON)
	})

	r.Route("/export", func(r chi.Router) {
		r.Get("/orders.csv", s.handleOrdersCSV)
		r.Get("/revenue.csv", s.handleRevenueCSV)
		r.Get("/drivers.csv", s.handleDriversCSV)
	})

	return r
}

// rangeFromRequest reads ?start=YYYY-MM-DD&end=YYYY-MM-DD, falling back to
// the configured defaults for whichever bound is absent.
func (s *Server) rangeFromRequest(r *http.Request) (models.DateRange, error) {
	start := r.URL.Query().Get("start")
	if start == "" {
		start = s.defaults.StartString()
	}
	end := r.URL.Query().Get("end")
	if end == "" {
		end = s.defaults.EndString()
	}
	return models.NewDateRange(start, end)
}
