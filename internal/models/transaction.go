package models

import (
	"fmt"
	"time"
)

// TransactionKind distinguishes money flowing into the pot from spend
// against the target.
type TransactionKind string

const (
	TransactionIncome  TransactionKind = "income"
	TransactionExpense TransactionKind = "expense"
)

// ParseTransactionKind validates and normalizes a transaction kind string.
func ParseTransactionKind(s string) (TransactionKind, error) {
	switch TransactionKind(s) {
	case TransactionIncome, TransactionExpense:
		return TransactionKind(s), nil
	}
	return "", fmt.Errorf("unknown transaction kind %q", s)
}

// Transaction is one append-only ledger entry on a period. Transactions are
// immutable once created. An entry recorded after the period's end date is
// allowed and flagged as late, never rejected.
type Transaction struct {
	ID          string          `json:"id"`
	PeriodID    string          `json:"periodId"`
	BudgetID    string          `json:"budgetId"`
	Amount      float64         `json:"amount"` // always > 0
	Kind        TransactionKind `json:"kind"`
	Description string          `json:"description,omitempty"`
	OccurredOn  time.Time       `json:"occurredOn"`
	CreatedBy   string          `json:"createdBy"`
	CreatedAt   time.Time       `json:"createdAt"`
}
