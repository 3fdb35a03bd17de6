package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/kittyfund/kittyfund/internal/models"
	"github.com/kittyfund/kittyfund/internal/storage"
)

// GetPeriod retrieves a period by ID.
func (s *Store) GetPeriod(ctx context.Context, id string) (*models.Period, error) {
	period, err := scanPeriod(s.db.QueryRowContext(ctx, `
		SELECT id, budget_id, number, start_date, end_date, target_amount, spent_amount
		FROM periods WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("period %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get period: %w", err)
	}
	return period, nil
}

// ListPeriods returns a budget's periods in sequence order.
func (s *Store) ListPeriods(ctx context.Context, budgetID string) ([]models.Period, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, budget_id, number, start_date, end_date, target_amount, spent_amount
		FROM periods WHERE budget_id = ? ORDER BY number`, budgetID)
	if err != nil {
		return nil, fmt.Errorf("failed to list periods: %w", err)
	}
	defer rows.Close()

	var periods []models.Period
	for rows.Next() {
		p, err := scanPeriod(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan period: %w", err)
		}
		periods = append(periods, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating periods: %w", err)
	}
	return periods, nil
}

func scanPeriod(row rowScanner) (*models.Period, error) {
	var (
		p                  models.Period
		startDate, endDate string
	)
	if err := row.Scan(&p.ID, &p.BudgetID, &p.Number, &startDate, &endDate, &p.TargetAmount, &p.SpentAmount); err != nil {
		return nil, err
	}
	var err error
	if p.StartDate, err = parseTime(startDate); err != nil {
		return nil, err
	}
	if p.EndDate, err = parseTime(endDate); err != nil {
		return nil, err
	}
	return &p, nil
}
