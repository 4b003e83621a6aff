package httpapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/alexanderramin/dealflow/internal/domain"
	"github.com/alexanderramin/dealflow/internal/service"
)

type advanceRequest struct {
	// Target defaults to the stage after the current one.
	Target  domain.Stage `json:"target"`
	Analyst string       `json:"analyst"`
}

type rationaleRequest struct {
	Rationale string `json:"rationale"`
}

type statusRequest struct {
	Status domain.StageStatus `json:"status"`
}

type decisionRequest struct {
	Decision  domain.Decision `json:"decision"`
	Rationale string          `json:"rationale"`
}

type commentRequest struct {
	Text   string `json:"text"`
	Author string `json:"author"`
}

type conditionRequest struct {
	Condition string `json:"condition"`
}

func dealID(r *http.Request) string { return chi.URLParam(r, "id") }

func (s *Server) listDeals(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if query := q.Get("q"); query != "" {
		deals, err := s.svc.Deals.Search(r.Context(), query)
		if err != nil {
			respondError(w, s.logger, err)
			return
		}
		respondJSON(w, http.StatusOK, deals)
		return
	}

	var filter service.DealFilter
	if v := q.Get("stage"); v != "" {
		stage, err := domain.ParseStage(v)
		if err != nil {
			respondError(w, s.logger, err)
			return
		}
		filter.Stage = stage
	}
	if v := q.Get("status"); v != "" {
		status, err := domain.ParseStageStatus(v)
		if err != nil {
			respondError(w, s.logger, err)
			return
		}
		filter.Status = status
	}
	if v := q.Get("active"); v != "" {
		active, err := strconv.ParseBool(v)
		if err != nil {
			respondError(w, s.logger, &domain.ValidationError{Field: "active", Message: "must be a boolean"})
			return
		}
		filter.ActiveOnly = active
	}

	deals, err := s.svc.Deals.List(r.Context(), filter)
	if err != nil {
		respondError(w, s.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, deals)
}

func (s *Server) createDeal(w http.ResponseWriter, r *http.Request) {
	var in service.CreateDealInput
	if err := decodeJSON(r, &in); err != nil {
		respondError(w, s.logger, err)
		return
	}
	deal, err := s.svc.Deals.Create(r.Context(), in)
	if err != nil {
		respondError(w, s.logger, err)
		return
	}
	w.Header().Set("Location", "/deals/"+deal.ID)
	respondJSON(w, http.StatusCreated, deal)
}

func (s *Server) getDeal(w http.ResponseWriter, r *http.Request) {
	deal, err := s.svc.Deals.Get(r.Context(), dealID(r))
	if err != nil {
		respondError(w, s.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, deal)
}

func (s *Server) updateDeal(w http.ResponseWriter, r *http.Request) {
	var upd service.ProfileUpdate
	if err := decodeJSON(r, &upd); err != nil {
		respondError(w, s.logger, err)
		return
	}
	s.respondDeal(w, func() (*domain.Deal, error) {
		return s.svc.Deals.UpdateProfile(r.Context(), dealID(r), upd)
	})
}

func (s *Server) deleteDeal(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Deals.Delete(r.Context(), dealID(r)); err != nil {
		respondError(w, s.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) advanceDeal(w http.ResponseWriter, r *http.Request) {
	var req advanceRequest
	if err := decodeOptionalJSON(r, &req); err != nil {
		respondError(w, s.logger, err)
		return
	}
	s.respondDeal(w, func() (*domain.Deal, error) {
		target := req.Target
		if target == "" {
			d, err := s.svc.Deals.Get(r.Context(), dealID(r))
			if err != nil {
				return nil, err
			}
			// Monitoring and terminal deals have no next stage; the transition
			// check reports why.
			target, _ = d.CurrentStage.Next()
		}
		return s.svc.Deals.Advance(r.Context(), dealID(r), target, req.Analyst)
	})
}

func (s *Server) rejectDeal(w http.ResponseWriter, r *http.Request) {
	var req rationaleRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, s.logger, err)
		return
	}
	s.respondDeal(w, func() (*domain.Deal, error) {
		return s.svc.Deals.Reject(r.Context(), dealID(r), req.Rationale)
	})
}

func (s *Server) exitDeal(w http.ResponseWriter, r *http.Request) {
	var req rationaleRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, s.logger, err)
		return
	}
	s.respondDeal(w, func() (*domain.Deal, error) {
		return s.svc.Deals.Exit(r.Context(), dealID(r), req.Rationale)
	})
}

func (s *Server) setStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, s.logger, err)
		return
	}
	s.respondDeal(w, func() (*domain.Deal, error) {
		return s.svc.Deals.SetStatus(r.Context(), dealID(r), req.Status)
	})
}

func (s *Server) decide(w http.ResponseWriter, r *http.Request) {
	var req decisionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, s.logger, err)
		return
	}
	s.respondDeal(w, func() (*domain.Deal, error) {
		return s.svc.Deals.Decide(r.Context(), dealID(r), req.Decision, req.Rationale)
	})
}

func (s *Server) addComment(w http.ResponseWriter, r *http.Request) {
	var req commentRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, s.logger, err)
		return
	}
	s.respondDeal(w, func() (*domain.Deal, error) {
		return s.svc.Deals.Comment(r.Context(), dealID(r), req.Text, req.Author)
	})
}

func (s *Server) addCondition(w http.ResponseWriter, r *http.Request) {
	var req conditionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, s.logger, err)
		return
	}
	s.respondDeal(w, func() (*domain.Deal, error) {
		return s.svc.Deals.AddCondition(r.Context(), dealID(r), req.Condition)
	})
}

func (s *Server) respondDeal(w http.ResponseWriter, fn func() (*domain.Deal, error)) {
	deal, err := fn()
	if err != nil {
		respondError(w, s.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, deal)
}
