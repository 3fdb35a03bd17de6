package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/kittyfund/kittyfund/internal/models"
	"github.com/kittyfund/kittyfund/internal/storage"
)

// CreateBudget persists the budget, its full period sequence, the creator's
// owner membership, and any initial invitations in one transaction.
func (s *Store) CreateBudget(ctx context.Context, budget *models.GroupBudget, periods []models.Period, invitations []models.Invitation) error {
	if budget.ID == "" {
		budget.ID = newID()
	}
	if budget.CreatedAt.IsZero() {
		budget.CreatedAt = time.Now().UTC()
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO group_budgets
				(id, name, total_amount, cadence, duration, start_date, end_date, category_id, creator_id, is_active, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			budget.ID, budget.Name, budget.TotalAmount, string(budget.Cadence), budget.Duration,
			fmtTime(budget.StartDate), fmtTime(budget.EndDate), budget.CategoryID,
			budget.CreatorID, budget.IsActive, fmtTime(budget.CreatedAt),
		)
		if err != nil {
			return fmt.Errorf("failed to insert budget: %w", err)
		}

		if err := insertPeriods(ctx, tx, budget.ID, periods); err != nil {
			return err
		}

		// The creator's owner membership exists from the instant the budget does.
		_, err = tx.ExecContext(ctx, `
			INSERT INTO memberships (id, budget_id, user_id, role, joined_at)
			VALUES (?, ?, ?, ?, ?)`,
			newID(), budget.ID, budget.CreatorID, string(models.RoleOwner), fmtTime(budget.CreatedAt),
		)
		if err != nil {
			return fmt.Errorf("failed to insert owner membership: %w", err)
		}

		for i := range invitations {
			inv := &invitations[i]
			if inv.ID == "" {
				inv.ID = newID()
			}
			inv.BudgetID = budget.ID
			_, err = tx.ExecContext(ctx, `
				INSERT INTO invitations (id, budget_id, email, inviter_id, status, invited_at, responded_at)
				VALUES (?, ?, ?, ?, ?, ?, ?)`,
				inv.ID, inv.BudgetID, inv.Email, inv.InviterID, string(inv.Status),
				fmtTime(inv.InvitedAt), fmtNullableTime(inv.RespondedAt),
			)
			if err != nil {
				return fmt.Errorf("failed to insert invitation: %w", err)
			}
		}
		return nil
	})
}

// GetBudget retrieves a budget by ID.
func (s *Store) GetBudget(ctx context.Context, id string) (*models.GroupBudget, error) {
	budget, err := scanBudget(s.db.QueryRowContext(ctx, `
		SELECT id, name, total_amount, cadence, duration, start_date, end_date, category_id, creator_id, is_active, created_at
		FROM group_budgets WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("budget %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get budget: %w", err)
	}
	return budget, nil
}

// ListBudgetsByUser returns every budget the user holds a membership on,
// newest first.
func (s *Store) ListBudgetsByUser(ctx context.Context, userID string) ([]models.GroupBudget, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT b.id, b.name, b.total_amount, b.cadence, b.duration, b.start_date, b.end_date, b.category_id, b.creator_id, b.is_active, b.created_at
		FROM group_budgets b
		JOIN memberships m ON m.budget_id = b.id
		WHERE m.user_id = ?
		ORDER BY b.created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	defer rows.Close()

	var budgets []models.GroupBudget
	for rows.Next() {
		budget, err := scanBudget(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan budget: %w", err)
		}
		budgets = append(budgets, *budget)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating budgets: %w", err)
	}
	return budgets, nil
}

// UpdateBudget updates the budget row and, when regenerated is non-nil,
// replaces the whole period sequence. Replacement fails with ErrConflict if
// any existing period already holds transactions or confirmations, so data
// is never silently orphaned.
func (s *Store) UpdateBudget(ctx context.Context, budget *models.GroupBudget, regenerated []models.Period) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE group_budgets
			SET name = ?, total_amount = ?, cadence = ?, duration = ?, start_date = ?, end_date = ?, category_id = ?, is_active = ?
			WHERE id = ?`,
			budget.Name, budget.TotalAmount, string(budget.Cadence), budget.Duration,
			fmtTime(budget.StartDate), fmtTime(budget.EndDate), budget.CategoryID,
			budget.IsActive, budget.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to update budget: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("budget %s: %w", budget.ID, storage.ErrNotFound)
		}

		if regenerated == nil {
			return nil
		}

		var held int
		err = tx.QueryRowContext(ctx, `
			SELECT (SELECT COUNT(*) FROM transactions WHERE budget_id = ?)
			     + (SELECT COUNT(*) FROM confirmations c JOIN periods p ON c.period_id = p.id WHERE p.budget_id = ?)`,
			budget.ID, budget.ID,
		).Scan(&held)
		if err != nil {
			return fmt.Errorf("failed to count period activity: %w", err)
		}
		if held > 0 {
			return fmt.Errorf("budget %s has %d transactions or confirmations on existing periods: %w",
				budget.ID, held, storage.ErrConflict)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM periods WHERE budget_id = ?`, budget.ID); err != nil {
			return fmt.Errorf("failed to delete old periods: %w", err)
		}
		return insertPeriods(ctx, tx, budget.ID, regenerated)
	})
}

// DeleteBudget removes the budget and all child entities in one explicit
// cascade: confirmations, transactions, periods, invitations, memberships,
// then the budget itself.
func (s *Store) DeleteBudget(ctx context.Context, id string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		steps := []struct {
			desc  string
			query string
		}{
			{"confirmations", `DELETE FROM confirmations WHERE period_id IN (SELECT id FROM periods WHERE budget_id = ?)`},
			{"transactions", `DELETE FROM transactions WHERE budget_id = ?`},
			{"periods", `DELETE FROM periods WHERE budget_id = ?`},
			{"invitations", `DELETE FROM invitations WHERE budget_id = ?`},
			{"memberships", `DELETE FROM memberships WHERE budget_id = ?`},
		}
		for _, step := range steps {
			if _, err := tx.ExecContext(ctx, step.query, id); err != nil {
				return fmt.Errorf("failed to delete %s: %w", step.desc, err)
			}
		}

		res, err := tx.ExecContext(ctx, `DELETE FROM group_budgets WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("failed to delete budget: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("budget %s: %w", id, storage.ErrNotFound)
		}
		return nil
	})
}

func insertPeriods(ctx context.Context, tx *sql.Tx, budgetID string, periods []models.Period) error {
	for i := range periods {
		p := &periods[i]
		if p.ID == "" {
			p.ID = newID()
		}
		p.BudgetID = budgetID
		_, err := tx.ExecContext(ctx, `
			INSERT INTO periods (id, budget_id, number, start_date, end_date, target_amount, spent_amount)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			p.ID, p.BudgetID, p.Number, fmtTime(p.StartDate), fmtTime(p.EndDate), p.TargetAmount, p.SpentAmount,
		)
		if err != nil {
			return fmt.Errorf("failed to insert period %d: %w", p.Number, err)
		}
	}
	return nil
}

func scanBudget(row rowScanner) (*models.GroupBudget, error) {
	var (
		b                             models.GroupBudget
		cadence                       string
		startDate, endDate, createdAt string
	)
	if err := row.Scan(&b.ID, &b.Name, &b.TotalAmount, &cadence, &b.Duration,
		&startDate, &endDate, &b.CategoryID, &b.CreatorID, &b.IsActive, &createdAt); err != nil {
		return nil, err
	}
	b.Cadence = models.Cadence(cadence)
	var err error
	if b.StartDate, err = parseTime(startDate); err != nil {
		return nil, err
	}
	if b.EndDate, err = parseTime(endDate); err != nil {
		return nil, err
	}
	if b.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &b, nil
}
