// Package api exposes the period engine as a JSON HTTP API.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kittyfund/kittyfund/internal/auth"
	"github.com/kittyfund/kittyfund/internal/middleware"
	"github.com/kittyfund/kittyfund/internal/service"
)

// Server registers all routes and holds the service dependencies.
type Server struct {
	budgets       *service.BudgetService
	ledger        *service.LedgerService
	confirmations *service.ConfirmationService
	memberships   *service.MembershipService
	authenticator auth.Authenticator
	jwt           *auth.JWTManager
	mux           *http.ServeMux
}

// NewServer creates a Server with all routes registered.
func NewServer(
	budgets *service.BudgetService,
	ledger *service.LedgerService,
	confirmations *service.ConfirmationService,
	memberships *service.MembershipService,
	authenticator auth.Authenticator,
	jwt *auth.JWTManager,
) *Server {
	s := &Server{
		budgets:       budgets,
		ledger:        ledger,
		confirmations: confirmations,
		memberships:   memberships,
		authenticator: authenticator,
		jwt:           jwt,
		mux:           http.NewServeMux(),
	}
	s.routes()
	return s
}

// Handler returns the http.Handler to mount on the HTTP server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) routes() {
	// Public.
	s.mux.HandleFunc("POST /api/auth/register", s.handleRegister)
	s.mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	s.mux.Handle("GET /metrics", promhttp.Handler())

	// Everything below requires a valid session token.
	s.mux.Handle("POST /api/budgets", s.authed(s.handleCreateBudget))
	s.mux.Handle("GET /api/budgets", s.authed(s.handleListBudgets))
	s.mux.Handle("GET /api/budgets/{id}", s.authed(s.handleGetBudget))
	s.mux.Handle("PATCH /api/budgets/{id}", s.authed(s.handleUpdateBudget))
	s.mux.Handle("DELETE /api/budgets/{id}", s.authed(s.handleDeleteBudget))
	s.mux.Handle("POST /api/budgets/{id}/deactivate", s.authed(s.handleDeactivateBudget))
	s.mux.Handle("GET /api/budgets/{id}/periods", s.authed(s.handleListPeriods))
	s.mux.Handle("POST /api/budgets/{id}/invitations", s.authed(s.handleInvite))

	s.mux.Handle("GET /api/periods/{id}", s.authed(s.handleGetPeriod))
	s.mux.Handle("POST /api/periods/{id}/transactions", s.authed(s.handleAddTransaction))
	s.mux.Handle("GET /api/periods/{id}/transactions", s.authed(s.handleListTransactions))
	s.mux.Handle("POST /api/periods/{id}/confirm", s.authed(s.handleConfirm))
	s.mux.Handle("GET /api/periods/{id}/confirmations", s.authed(s.handleListConfirmations))

	s.mux.Handle("GET /api/invitations", s.authed(s.handleListInvitations))
	s.mux.Handle("POST /api/invitations/{id}/accept", s.authed(s.handleAcceptInvitation))
	s.mux.Handle("POST /api/invitations/{id}/decline", s.authed(s.handleDeclineInvitation))
}

// authed wraps a handler with bearer-token authentication.
func (s *Server) authed(h http.HandlerFunc) http.Handler {
	return middleware.RequireAuth(s.jwt)(h)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ---------------------------------------------------------------------------
// JSON helpers
// ---------------------------------------------------------------------------

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode JSON response", "error", err)
		}
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps the service error taxonomy onto HTTP status codes.
func (s *Server) respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		s.respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrUnauthorized):
		s.respondError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrNotFound):
		s.respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrConflict):
		s.respondError(w, http.StatusConflict, err.Error())
	default:
		slog.Error("internal error", "error", err)
		s.respondError(w, http.StatusInternalServerError, "internal error")
	}
}

// decodeJSON reads the request body into dst.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON: %v", err))
		return false
	}
	return true
}

// parseDate accepts either a bare date (2006-01-02) or full RFC3339.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
