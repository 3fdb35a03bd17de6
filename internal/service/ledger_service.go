package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/kittyfund/kittyfund/internal/models"
	"github.com/kittyfund/kittyfund/internal/storage"
)

// LedgerService is the append-only transaction ledger. Entries are
// immutable once written; lateness never blocks a write, it only annotates
// the response.
type LedgerService struct {
	store storage.Store
	now   func() time.Time
}

// NewLedgerService creates a LedgerService with the given storage backend.
func NewLedgerService(store storage.Store) *LedgerService {
	return &LedgerService{store: store, now: time.Now}
}

// AddTransactionInput carries a new ledger entry.
type AddTransactionInput struct {
	Amount      float64
	Kind        string
	Description string
	OccurredOn  time.Time
}

// TransactionResult is a successful write, possibly annotated as late.
type TransactionResult struct {
	Transaction models.Transaction `json:"transaction"`
	IsLate      bool               `json:"isLate"`
	Warning     string             `json:"warning,omitempty"`
}

// Add validates the actor's membership on the owning budget, persists the
// transaction, and recomputes the period's spent amount in the same
// storage transaction. An entry landing after the period's end date is
// flagged late, never rejected.
func (s *LedgerService) Add(ctx context.Context, actorID, periodID string, in AddTransactionInput) (*TransactionResult, error) {
	if in.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrValidation)
	}
	kind, err := models.ParseTransactionKind(in.Kind)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	period, err := s.store.GetPeriod(ctx, periodID)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	if _, err := requireMembership(ctx, s.store, period.BudgetID, actorID); err != nil {
		return nil, err
	}

	now := s.now()
	occurredOn := in.OccurredOn
	if occurredOn.IsZero() {
		occurredOn = now
	}

	tx := &models.Transaction{
		PeriodID:    periodID,
		BudgetID:    period.BudgetID,
		Amount:      in.Amount,
		Kind:        kind,
		Description: in.Description,
		OccurredOn:  occurredOn,
		CreatedBy:   actorID,
		CreatedAt:   now,
	}
	if err := s.store.CreateTransaction(ctx, tx); err != nil {
		return nil, mapStoreErr(err)
	}

	result := &TransactionResult{Transaction: *tx}
	if now.After(period.EndDate) {
		result.IsLate = true
		result.Warning = lateWarning("transaction", period.EndDate, now)
	}

	slog.Info("transaction added",
		"transaction_id", tx.ID,
		"period_id", periodID,
		"kind", tx.Kind,
		"amount", tx.Amount,
		"late", result.IsLate,
	)
	return result, nil
}

// List returns the period's entries most-recent-first. limit <= 0 returns
// everything.
func (s *LedgerService) List(ctx context.Context, actorID, periodID string, limit, offset int) ([]models.Transaction, error) {
	period, err := s.store.GetPeriod(ctx, periodID)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	if _, err := requireMembership(ctx, s.store, period.BudgetID, actorID); err != nil {
		return nil, err
	}

	txs, err := s.store.ListTransactions(ctx, periodID, limit, offset)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return txs, nil
}
