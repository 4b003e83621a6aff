package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/alexanderramin/dealflow/internal/domain"
)

type markRequest struct {
	Mark domain.ChecklistMark `json:"mark"`
}

type actionItemRequest struct {
	Category    domain.ActionCategory `json:"category"`
	Action      string                `json:"action"`
	Responsible string                `json:"responsible"`
	Deadline    *time.Time            `json:"deadline,omitempty"`
	Priority    domain.Priority       `json:"priority"`
	KPI         string                `json:"kpi"`
}

type actionStatusRequest struct {
	Status domain.ActionStatus `json:"status"`
	Note   string              `json:"note"`
}

type kpiRequest struct {
	Data map[string]float64 `json:"data"`
}

func (s *Server) getChecklist(w http.ResponseWriter, r *http.Request) {
	cl, err := s.svc.Checklists.ForDeal(r.Context(), dealID(r))
	if err != nil {
		respondError(w, s.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, cl)
}

func (s *Server) markChecklistItem(w http.ResponseWriter, r *http.Request) {
	var req markRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, s.logger, err)
		return
	}
	cl, err := s.svc.Checklists.Mark(r.Context(), dealID(r), chi.URLParam(r, "item"), req.Mark)
	if err != nil {
		respondError(w, s.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, cl)
}

func (s *Server) getActionPlan(w http.ResponseWriter, r *http.Request) {
	plan, err := s.svc.ActionPlans.Plan(r.Context(), dealID(r))
	if err != nil {
		respondError(w, s.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, plan)
}

func (s *Server) addActionItem(w http.ResponseWriter, r *http.Request) {
	var req actionItemRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, s.logger, err)
		return
	}
	item, err := s.svc.ActionPlans.AddItem(r.Context(), dealID(r), domain.ActionItem{
		Category:    req.Category,
		Action:      req.Action,
		Responsible: req.Responsible,
		Deadline:    req.Deadline,
		Priority:    req.Priority,
		KPI:         req.KPI,
	})
	if err != nil {
		respondError(w, s.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, item)
}

func (s *Server) updateActionItem(w http.ResponseWriter, r *http.Request) {
	var req actionStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, s.logger, err)
		return
	}
	ctx := r.Context()
	if err := s.svc.ActionPlans.UpdateStatus(ctx, dealID(r), chi.URLParam(r, "item"), req.Status, req.Note); err != nil {
		respondError(w, s.logger, err)
		return
	}
	plan, err := s.svc.ActionPlans.Plan(ctx, dealID(r))
	if err != nil {
		respondError(w, s.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, plan)
}

func (s *Server) removeActionItem(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.ActionPlans.RemoveItem(r.Context(), dealID(r), chi.URLParam(r, "item")); err != nil {
		respondError(w, s.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) kpiHistory(w http.ResponseWriter, r *http.Request) {
	report, err := s.svc.ActionPlans.KPIHistory(r.Context(), dealID(r))
	if err != nil {
		respondError(w, s.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, report)
}

func (s *Server) recordKPIs(w http.ResponseWriter, r *http.Request) {
	var req kpiRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, s.logger, err)
		return
	}
	deal, err := s.svc.ActionPlans.RecordKPIs(r.Context(), dealID(r), req.Data)
	if err != nil {
		respondError(w, s.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, deal)
}
