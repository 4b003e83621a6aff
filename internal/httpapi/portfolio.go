package httpapi

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/alexanderramin/dealflow/internal/domain"
)

func (s *Server) portfolioStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.svc.Portfolio.Stats(r.Context())
	if err != nil {
		respondError(w, s.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

func (s *Server) recentDeals(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			respondError(w, s.logger, &domain.ValidationError{Field: "limit", Message: "must be an integer"})
			return
		}
		limit = n
	}
	deals, err := s.svc.Portfolio.Recent(r.Context(), limit)
	if err != nil {
		respondError(w, s.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, deals)
}

func (s *Server) exportPortfolio(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := s.svc.Portfolio.Export(r.Context(), &buf); err != nil {
		respondError(w, s.logger, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="portfolio.json"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
