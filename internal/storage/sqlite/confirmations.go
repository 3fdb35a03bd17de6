package sqlite

import (
	"context"
	"fmt"

	"github.com/kittyfund/kittyfund/internal/models"
)

// UpsertConfirmation records a member's confirmation for a period as a
// single-row atomic upsert. The first write per (period, user) sets the
// timestamp; repeats leave the stored row untouched. The row as stored is
// returned, so the caller sees the original timestamp on a repeat confirm.
func (s *Store) UpsertConfirmation(ctx context.Context, c *models.Confirmation) (*models.Confirmation, error) {
	if c.ID == "" {
		c.ID = newID()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO confirmations (id, period_id, user_id, confirmed_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (period_id, user_id) DO NOTHING`,
		c.ID, c.PeriodID, c.UserID, fmtTime(c.ConfirmedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert confirmation: %w", err)
	}

	var (
		stored      models.Confirmation
		confirmedAt string
	)
	err = s.db.QueryRowContext(ctx, `
		SELECT id, period_id, user_id, confirmed_at
		FROM confirmations WHERE period_id = ? AND user_id = ?`,
		c.PeriodID, c.UserID,
	).Scan(&stored.ID, &stored.PeriodID, &stored.UserID, &confirmedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to read back confirmation: %w", err)
	}
	if stored.ConfirmedAt, err = parseTime(confirmedAt); err != nil {
		return nil, err
	}
	return &stored, nil
}

// ListConfirmations returns the confirmation rows that exist for a period.
// Members who never confirmed have no row here; the service layer joins
// against the membership roster.
func (s *Store) ListConfirmations(ctx context.Context, periodID string) ([]models.Confirmation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, period_id, user_id, confirmed_at
		FROM confirmations WHERE period_id = ? ORDER BY confirmed_at`, periodID)
	if err != nil {
		return nil, fmt.Errorf("failed to list confirmations: %w", err)
	}
	defer rows.Close()

	var confirmations []models.Confirmation
	for rows.Next() {
		var (
			c           models.Confirmation
			confirmedAt string
		)
		if err := rows.Scan(&c.ID, &c.PeriodID, &c.UserID, &confirmedAt); err != nil {
			return nil, fmt.Errorf("failed to scan confirmation: %w", err)
		}
		if c.ConfirmedAt, err = parseTime(confirmedAt); err != nil {
			return nil, err
		}
		confirmations = append(confirmations, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating confirmations: %w", err)
	}
	return confirmations, nil
}

// CountConfirmations is the aggregate confirmation count across all of a
// budget's periods, used for the budget-level confirmation rate.
func (s *Store) CountConfirmations(ctx context.Context, budgetID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM confirmations c
		JOIN periods p ON c.period_id = p.id
		WHERE p.budget_id = ?`, budgetID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count confirmations: %w", err)
	}
	return count, nil
}
