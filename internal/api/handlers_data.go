package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/openaudit/spendscan/internal/budget"
	"github.com/openaudit/spendscan/internal/report"
)

func (s *Server) handleAllocations(w http.ResponseWriter, r *http.Request) {
	fiscalYear := r.URL.Query().Get("fiscal_year")
	if fiscalYear != "" && !budget.ValidFiscalYear(fiscalYear) {
		jsonError(w, "fiscal_year must look like 2024-25", http.StatusBadRequest)
		return
	}

	allocations, err := s.store.QueryAllocations(r.Context(), fiscalYear)
	if err != nil {
		s.log.Error("query allocations", "error", err)
		jsonError(w, "query failed", http.StatusInternalServerError)
		return
	}
	if allocations == nil {
		allocations = []budget.Allocation{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"fiscal_year": fiscalYear,
		"count":       len(allocations),
		"allocations": allocations,
	})
}

func (s *Server) handleStatistics(w http.ResponseWriter, r *http.Request) {
	source := r.URL.Query().Get("source")

	limit := 100
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			jsonError(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = n
	}

	statistics, err := s.store.QueryStatistics(r.Context(), source, limit)
	if err != nil {
		s.log.Error("query statistics", "error", err)
		jsonError(w, "query failed", http.StatusInternalServerError)
		return
	}
	if statistics == nil {
		statistics = []budget.Statistic{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"count":      len(statistics),
		"statistics": statistics,
	})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	fiscalYear := chi.URLParam(r, "fiscalYear")
	if !budget.ValidFiscalYear(fiscalYear) {
		jsonError(w, "fiscal year must look like 2024-25", http.StatusBadRequest)
		return
	}

	summary, err := report.Summarize(r.Context(), s.store, fiscalYear, s.fallback())
	if err != nil {
		s.log.Error("summarize", "fiscal_year", fiscalYear, "error", err)
		jsonError(w, "summary failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(summary)
}
