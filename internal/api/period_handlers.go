package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/kittyfund/kittyfund/internal/middleware"
	"github.com/kittyfund/kittyfund/internal/service"
)

type addTransactionRequest struct {
	Amount      float64 `json:"amount"`
	Kind        string  `json:"kind"`
	Description string  `json:"description"`
	OccurredOn  string  `json:"occurredOn"`
}

func (s *Server) handleGetPeriod(w http.ResponseWriter, r *http.Request) {
	view, err := s.budgets.Period(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id"))
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, view)
}

func (s *Server) handleAddTransaction(w http.ResponseWriter, r *http.Request) {
	var req addTransactionRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	var occurredOn time.Time
	if req.OccurredOn != "" {
		var err error
		if occurredOn, err = parseDate(req.OccurredOn); err != nil {
			s.respondError(w, http.StatusBadRequest, "invalid occurredOn: "+err.Error())
			return
		}
	}

	result, err := s.ledger.Add(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id"), service.AddTransactionInput{
		Amount:      req.Amount,
		Kind:        req.Kind,
		Description: req.Description,
		OccurredOn:  occurredOn,
	})
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, result)
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 0)
	offset := queryInt(r, "offset", 0)

	txs, err := s.ledger.List(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id"), limit, offset)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, txs)
}

func (s *Server) handleConfirm(w http.ResponseWriter, r *http.Request) {
	result, err := s.confirmations.Confirm(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id"))
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleListConfirmations(w http.ResponseWriter, r *http.Request) {
	roster, err := s.confirmations.List(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id"))
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, roster)
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
