package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kittyfund/kittyfund/internal/models"
	"github.com/kittyfund/kittyfund/internal/storage"
)

// MembershipService runs the invitation workflow that grows a budget's
// roster. Any current member may invite; acceptance materializes the
// membership that gates all further calls.
type MembershipService struct {
	store storage.Store
	now   func() time.Time
}

// NewMembershipService creates a MembershipService with the given storage
// backend.
func NewMembershipService(store storage.Store) *MembershipService {
	return &MembershipService{store: store, now: time.Now}
}

// Invite creates a pending invitation for the email on the budget. A
// pending invitation for the same (budget, email) already existing is a
// conflict.
func (s *MembershipService) Invite(ctx context.Context, actorID, budgetID, email string) (*models.Invitation, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: a valid email is required", ErrValidation)
	}

	if _, err := s.store.GetBudget(ctx, budgetID); err != nil {
		return nil, mapStoreErr(err)
	}
	if _, err := requireMembership(ctx, s.store, budgetID, actorID); err != nil {
		return nil, err
	}

	inv := &models.Invitation{
		BudgetID:  budgetID,
		Email:     email,
		InviterID: actorID,
		Status:    models.InvitationPending,
		InvitedAt: s.now(),
	}
	if err := s.store.CreateInvitation(ctx, inv); err != nil {
		return nil, mapStoreErr(err)
	}

	slog.Info("invitation created", "invitation_id", inv.ID, "budget_id", budgetID, "inviter_id", actorID)
	return inv, nil
}

// Accept transitions a pending invitation to accepted and creates the
// member-role membership atomically. The responder's email must match the
// invitation; terminal invitations conflict and never produce a duplicate
// membership.
func (s *MembershipService) Accept(ctx context.Context, actorID, invitationID string) (*models.Membership, error) {
	inv, err := s.store.GetInvitation(ctx, invitationID)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	if inv.Status != models.InvitationPending {
		return nil, fmt.Errorf("%w: invitation %s is already %s", ErrConflict, invitationID, inv.Status)
	}

	user, err := s.store.GetUserByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user %s", ErrNotFound, actorID)
	}
	if !strings.EqualFold(user.Email, inv.Email) {
		return nil, fmt.Errorf("%w: invitation is addressed to a different email", ErrUnauthorized)
	}

	now := s.now()
	membership := &models.Membership{
		BudgetID: inv.BudgetID,
		UserID:   actorID,
		Role:     models.RoleMember,
		JoinedAt: now,
	}
	if err := s.store.AcceptInvitation(ctx, invitationID, now, membership); err != nil {
		return nil, mapStoreErr(err)
	}

	slog.Info("invitation accepted", "invitation_id", invitationID, "budget_id", inv.BudgetID, "user_id", actorID)
	return membership, nil
}

// Decline transitions a pending invitation to declined. No membership is
// created; terminal invitations conflict.
func (s *MembershipService) Decline(ctx context.Context, actorID, invitationID string) error {
	inv, err := s.store.GetInvitation(ctx, invitationID)
	if err != nil {
		return mapStoreErr(err)
	}
	if inv.Status != models.InvitationPending {
		return fmt.Errorf("%w: invitation %s is already %s", ErrConflict, invitationID, inv.Status)
	}

	user, err := s.store.GetUserByID(ctx, actorID)
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("%w: user %s", ErrNotFound, actorID)
	}
	if !strings.EqualFold(user.Email, inv.Email) {
		return fmt.Errorf("%w: invitation is addressed to a different email", ErrUnauthorized)
	}

	if err := s.store.DeclineInvitation(ctx, invitationID, s.now()); err != nil {
		return mapStoreErr(err)
	}

	slog.Info("invitation declined", "invitation_id", invitationID, "budget_id", inv.BudgetID, "user_id", actorID)
	return nil
}

// Pending returns the open invitations addressed to the actor's email.
func (s *MembershipService) Pending(ctx context.Context, actorID string) ([]models.Invitation, error) {
	user, err := s.store.GetUserByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user %s", ErrNotFound, actorID)
	}

	invs, err := s.store.ListPendingInvitationsByEmail(ctx, strings.ToLower(user.Email))
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return invs, nil
}
