package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/alexanderramin/dealflow/internal/intelligence"
	"github.com/alexanderramin/dealflow/internal/service"
)

// Services is the set of use cases the API exposes. Analysis may be nil
// when no text-generation provider is configured.
type Services struct {
	Deals       service.DealService
	Checklists  service.ChecklistService
	ActionPlans service.ActionPlanService
	Portfolio   service.PortfolioService
	Documents   service.DocumentService
	Analysis    intelligence.AnalysisService
}

// Server serves the deal pipeline over JSON.
type Server struct {
	svc    Services
	logger *slog.Logger
}

func NewServer(svc Services, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{svc: svc, logger: logger.With("component", "httpapi")}
}

// Routes returns the router with every endpoint mounted.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.healthz)

	r.Route("/deals", func(r chi.Router) {
		r.Get("/", s.listDeals)
		r.Post("/", s.createDeal)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.getDeal)
			r.Patch("/", s.updateDeal)
			r.Delete("/", s.deleteDeal)

			r.Post("/advance", s.advanceDeal)
			r.Post("/reject", s.rejectDeal)
			r.Post("/exit", s.exitDeal)
			r.Post("/status", s.setStatus)
			r.Post("/decision", s.decide)
			r.Post("/comments", s.addComment)
			r.Post("/conditions", s.addCondition)

			r.Get("/checklist", s.getChecklist)
			r.Post("/checklist/{item}", s.markChecklistItem)

			r.Get("/actions", s.getActionPlan)
			r.Post("/actions", s.addActionItem)
			r.Patch("/actions/{item}", s.updateActionItem)
			r.Delete("/actions/{item}", s.removeActionItem)

			r.Get("/kpis", s.kpiHistory)
			r.Post("/kpis", s.recordKPIs)

			r.Post("/documents", s.uploadDocuments)
			r.Post("/analysis", s.draftAnalysis)
		})
	})

	r.Route("/portfolio", func(r chi.Router) {
		r.Get("/stats", s.portfolioStats)
		r.Get("/recent", s.recentDeals)
		r.Get("/export", s.exportPortfolio)
	})
	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
