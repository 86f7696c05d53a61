package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/chrisdamba/deliverydash/internal/export"
	"github.com/chrisdamba/deliverydash/internal/models"
)

type apiError struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Ping(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, apiError{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleOrdersJSON(w http.ResponseWriter, r *http.Request) {
	dr, err := s.rangeFromRequest(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: err.Error()})
		return
	}
	rows, err := s.svc.OrdersByHub(r.Context(), dr)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, apiError{Error: err.Error()})
		return
	}
	if rows == nil {
		rows = []models.OrdersByHubRow{}
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleOrdersKPIJSON(w http.ResponseWriter, r *http.Request) {
	dr, err := s.rangeFromRequest(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: err.Error()})
		return
	}
	kpi, err := s.svc.OrdersKPI(r.Context(), dr)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, apiError{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, kpi)
}

func (s *Server) handleRevenueJSON(w http.ResponseWriter, r *http.Request) {
	dr, err := s.rangeFromRequest(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: err.Error()})
		return
	}
	rows, err := s.svc.RevenueByHub(r.Context(), dr)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, apiError{Error: err.Error()})
		return
	}
	if rows == nil {
		rows = []models.RevenueByHubRow{}
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleRevenueKPIJSON(w http.ResponseWriter, r *http.Request) {
	dr, err := s.rangeFromRequest(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: err.Error()})
		return
	}
	kpi, err := s.svc.RevenueKPI(r.Context(), dr)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, apiError{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, kpi)
}

func (s *Server) handleDriversJSON(w http.ResponseWriter, r *http.Request) {
	dr, err := s.rangeFromRequest(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: err.Error()})
		return
	}
	rows, err := s.svc.DriverPerformance(r.Context(), dr)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, apiError{Error: err.Error()})
		return
	}
	if rows == nil {
		rows = []models.DriverMetricsRow{}
	}
	writeJSON(w, http.StatusOK, rows)
}

func csvHeaders(w http.ResponseWriter, filename string) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
}

func (s *Server) handleOrdersCSV(w http.ResponseWriter, r *http.Request) {
	dr, err := s.rangeFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	rows, err := s.svc.OrdersByHub(r.Context(), dr)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	csvHeaders(w, export.OrdersFile)
	export.WriteOrdersCSV(w, rows)
}

func (s *Server) handleRevenueCSV(w http.ResponseWriter, r *http.Request) {
	dr, err := s.rangeFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	rows, err := s.svc.RevenueByHub(r.Context(), dr)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	csvHeaders(w, export.RevenueFile)
	export.WriteRevenueCSV(w, rows)
}

func (s *Server) handleDriversCSV(w http.ResponseWriter, r *http.Request) {
	dr, err := s.rangeFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	rows, err := s.svc.DriverPerformance(r.Context(), dr)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	csvHeaders(w, export.DriverFile)
	export.WriteDriverCSV(w, rows)
}

// handleDashboard renders the full HTML page. Each section queries
// independently; a failing section carries its error into the page while
// the others render normally.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	dr, err := s.rangeFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	view := dashboardView{
		Range:   dr,
		Orders:  models.SectionOf(s.svc.OrdersByHub(ctx, dr)),
		Revenue: models.SectionOf(s.svc.RevenueByHub(ctx, dr)),
		Drivers: models.SectionOf(s.svc.DriverPerformance(ctx, dr)),
	}
	view.OrdersKPI, view.OrdersKPIErr = s.svc.OrdersKPI(ctx, dr)
	view.RevenueKPI, view.RevenueKPIErr = s.svc.RevenueKPI(ctx, dr)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	dashboardPage(view).Render(w)
}
