package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/kittyfund/kittyfund/internal/models"
	"github.com/kittyfund/kittyfund/internal/storage"
)

// GetMembership retrieves a user's membership on a budget.
func (s *Store) GetMembership(ctx context.Context, budgetID, userID string) (*models.Membership, error) {
	m, err := scanMembership(s.db.QueryRowContext(ctx, `
		SELECT id, budget_id, user_id, role, joined_at
		FROM memberships WHERE budget_id = ? AND user_id = ?`, budgetID, userID))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("membership of %s on budget %s: %w", userID, budgetID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}
	return m, nil
}

// ListMemberships returns a budget's full member roster, oldest first.
func (s *Store) ListMemberships(ctx context.Context, budgetID string) ([]models.Membership, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, budget_id, user_id, role, joined_at
		FROM memberships WHERE budget_id = ? ORDER BY joined_at, id`, budgetID)
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}
	defer rows.Close()

	var members []models.Membership
	for rows.Next() {
		m, err := scanMembership(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan membership: %w", err)
		}
		members = append(members, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating memberships: %w", err)
	}
	return members, nil
}

func scanMembership(row rowScanner) (*models.Membership, error) {
	var (
		m              models.Membership
		role, joinedAt string
	)
	if err := row.Scan(&m.ID, &m.BudgetID, &m.UserID, &role, &joinedAt); err != nil {
		return nil, err
	}
	m.Role = models.Role(role)
	var err error
	if m.JoinedAt, err = parseTime(joinedAt); err != nil {
		return nil, err
	}
	return &m, nil
}
