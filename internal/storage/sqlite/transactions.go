package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/kittyfund/kittyfund/internal/models"
)

// CreateTransaction inserts the ledger entry and recomputes the owning
// period's cached spent amount in the same transaction, so the aggregate
// can never go stale relative to the ledger.
//
// Spend accumulates expenses only; income entries are recorded but do not
// net against the spent amount.
func (s *Store) CreateTransaction(ctx context.Context, t *models.Transaction) error {
	if t.ID == "" {
		t.ID = newID()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO transactions (id, period_id, budget_id, amount, kind, description, occurred_on, created_by, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			t.ID, t.PeriodID, t.BudgetID, t.Amount, string(t.Kind), t.Description,
			fmtTime(t.OccurredOn), t.CreatedBy, fmtTime(t.CreatedAt),
		)
		if err != nil {
			return fmt.Errorf("failed to insert transaction: %w", err)
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE periods
			SET spent_amount = (
				SELECT COALESCE(SUM(amount), 0) FROM transactions
				WHERE period_id = ? AND kind = ?
			)
			WHERE id = ?`,
			t.PeriodID, string(models.TransactionExpense), t.PeriodID,
		)
		if err != nil {
			return fmt.Errorf("failed to recompute spent amount: %w", err)
		}
		return nil
	})
}

// ListTransactions returns a period's entries most-recent-first.
// limit <= 0 disables pagination.
func (s *Store) ListTransactions(ctx context.Context, periodID string, limit, offset int) ([]models.Transaction, error) {
	query := `
		SELECT id, period_id, budget_id, amount, kind, description, occurred_on, created_by, created_at
		FROM transactions WHERE period_id = ?
		ORDER BY occurred_on DESC, created_at DESC`
	args := []any{periodID}
	if limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, limit, offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var txs []models.Transaction
	for rows.Next() {
		var (
			t                           models.Transaction
			kind, occurredOn, createdAt string
		)
		if err := rows.Scan(&t.ID, &t.PeriodID, &t.BudgetID, &t.Amount, &kind, &t.Description,
			&occurredOn, &t.CreatedBy, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		t.Kind = models.TransactionKind(kind)
		if t.OccurredOn, err = parseTime(occurredOn); err != nil {
			return nil, err
		}
		if t.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		txs = append(txs, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}
	return txs, nil
}
