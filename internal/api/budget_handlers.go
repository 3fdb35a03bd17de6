package api

import (
	"net/http"
	"time"

	"github.com/kittyfund/kittyfund/internal/middleware"
	"github.com/kittyfund/kittyfund/internal/service"
)

type createBudgetRequest struct {
	Name          string   `json:"name"`
	TotalAmount   float64  `json:"totalAmount"`
	Cadence       string   `json:"cadence"`
	Duration      int      `json:"duration"`
	StartDate     string   `json:"startDate"`
	CategoryID    string   `json:"categoryId"`
	InvitedEmails []string `json:"invitedEmails"`
}

type updateBudgetRequest struct {
	Name        *string  `json:"name"`
	CategoryID  *string  `json:"categoryId"`
	TotalAmount *float64 `json:"totalAmount"`
	Cadence     *string  `json:"cadence"`
	Duration    *int     `json:"duration"`
	StartDate   *string  `json:"startDate"`
}

func (s *Server) handleCreateBudget(w http.ResponseWriter, r *http.Request) {
	var req createBudgetRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	var startDate time.Time
	if req.StartDate != "" {
		var err error
		if startDate, err = parseDate(req.StartDate); err != nil {
			s.respondError(w, http.StatusBadRequest, "invalid startDate: "+err.Error())
			return
		}
	}

	budget, err := s.budgets.Create(r.Context(), middleware.GetUserID(r.Context()), service.CreateBudgetInput{
		Name:          req.Name,
		TotalAmount:   req.TotalAmount,
		Cadence:       req.Cadence,
		Duration:      req.Duration,
		StartDate:     startDate,
		CategoryID:    req.CategoryID,
		InvitedEmails: req.InvitedEmails,
	})
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, budget)
}

func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	budgets, err := s.budgets.List(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, budgets)
}

func (s *Server) handleGetBudget(w http.ResponseWriter, r *http.Request) {
	view, err := s.budgets.Get(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id"))
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, view)
}

func (s *Server) handleUpdateBudget(w http.ResponseWriter, r *http.Request) {
	var req updateBudgetRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	in := service.UpdateBudgetInput{
		Name:        req.Name,
		CategoryID:  req.CategoryID,
		TotalAmount: req.TotalAmount,
		Cadence:     req.Cadence,
		Duration:    req.Duration,
	}
	if req.StartDate != nil {
		startDate, err := parseDate(*req.StartDate)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, "invalid startDate: "+err.Error())
			return
		}
		in.StartDate = &startDate
	}

	budget, err := s.budgets.Update(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id"), in)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, budget)
}

func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request) {
	if err := s.budgets.Delete(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id")); err != nil {
		s.respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeactivateBudget(w http.ResponseWriter, r *http.Request) {
	if err := s.budgets.Deactivate(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id")); err != nil {
		s.respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListPeriods(w http.ResponseWriter, r *http.Request) {
	views, err := s.budgets.Periods(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id"))
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, views)
}
