package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/kittyfund/kittyfund/internal/models"
	"github.com/kittyfund/kittyfund/internal/storage"
)

// CreateInvitation inserts a pending invitation. A partial unique index on
// (budget_id, email) WHERE status = 'pending' turns duplicate pending
// invitations into ErrConflict.
func (s *Store) CreateInvitation(ctx context.Context, inv *models.Invitation) error {
	if inv.ID == "" {
		inv.ID = newID()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO invitations (id, budget_id, email, inviter_id, status, invited_at, responded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		inv.ID, inv.BudgetID, inv.Email, inv.InviterID, string(inv.Status),
		fmtTime(inv.InvitedAt), fmtNullableTime(inv.RespondedAt),
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("pending invitation for %s on budget %s already exists: %w",
			inv.Email, inv.BudgetID, storage.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("failed to create invitation: %w", err)
	}
	return nil
}

// GetInvitation retrieves an invitation by ID.
func (s *Store) GetInvitation(ctx context.Context, id string) (*models.Invitation, error) {
	inv, err := scanInvitation(s.db.QueryRowContext(ctx, `
		SELECT id, budget_id, email, inviter_id, status, invited_at, responded_at
		FROM invitations WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("invitation %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get invitation: %w", err)
	}
	return inv, nil
}

// ListPendingInvitationsByEmail returns the open invitations addressed to
// an email, newest first.
func (s *Store) ListPendingInvitationsByEmail(ctx context.Context, email string) ([]models.Invitation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, budget_id, email, inviter_id, status, invited_at, responded_at
		FROM invitations WHERE email = ? AND status = ?
		ORDER BY invited_at DESC`, email, string(models.InvitationPending))
	if err != nil {
		return nil, fmt.Errorf("failed to list invitations: %w", err)
	}
	defer rows.Close()

	var invs []models.Invitation
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invitation: %w", err)
		}
		invs = append(invs, *inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating invitations: %w", err)
	}
	return invs, nil
}

// AcceptInvitation flips a pending invitation to accepted and creates the
// membership in one transaction. Terminal invitations cannot be
// resurrected: the conditional update matches zero rows and the whole
// operation fails with ErrConflict, so no duplicate membership is ever
// created.
func (s *Store) AcceptInvitation(ctx context.Context, invitationID string, respondedAt time.Time, membership *models.Membership) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := respondToInvitation(ctx, tx, invitationID, models.InvitationAccepted, respondedAt); err != nil {
			return err
		}

		if membership.ID == "" {
			membership.ID = newID()
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO memberships (id, budget_id, user_id, role, joined_at)
			VALUES (?, ?, ?, ?, ?)`,
			membership.ID, membership.BudgetID, membership.UserID,
			string(membership.Role), fmtTime(membership.JoinedAt),
		)
		if isUniqueViolation(err) {
			return fmt.Errorf("user %s is already a member of budget %s: %w",
				membership.UserID, membership.BudgetID, storage.ErrConflict)
		}
		if err != nil {
			return fmt.Errorf("failed to create membership: %w", err)
		}
		return nil
	})
}

// DeclineInvitation flips a pending invitation to declined. No membership
// is created.
func (s *Store) DeclineInvitation(ctx context.Context, invitationID string, respondedAt time.Time) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		return respondToInvitation(ctx, tx, invitationID, models.InvitationDeclined, respondedAt)
	})
}

func respondToInvitation(ctx context.Context, tx *sql.Tx, invitationID string, status models.InvitationStatus, respondedAt time.Time) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE invitations SET status = ?, responded_at = ?
		WHERE id = ? AND status = ?`,
		string(status), fmtTime(respondedAt), invitationID, string(models.InvitationPending),
	)
	if err != nil {
		return fmt.Errorf("failed to update invitation: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("invitation %s is not pending: %w", invitationID, storage.ErrConflict)
	}
	return nil
}

func scanInvitation(row rowScanner) (*models.Invitation, error) {
	var (
		inv               models.Invitation
		status, invitedAt string
		respondedAt       sql.NullString
	)
	if err := row.Scan(&inv.ID, &inv.BudgetID, &inv.Email, &inv.InviterID, &status, &invitedAt, &respondedAt); err != nil {
		return nil, err
	}
	inv.Status = models.InvitationStatus(status)
	var err error
	if inv.InvitedAt, err = parseTime(invitedAt); err != nil {
		return nil, err
	}
	if inv.RespondedAt, err = parseNullableTime(respondedAt); err != nil {
		return nil, err
	}
	return &inv, nil
}
