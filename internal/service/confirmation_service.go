package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/kittyfund/kittyfund/internal/models"
	"github.com/kittyfund/kittyfund/internal/storage"
)

// ConfirmationService tracks per-member acknowledgement of each period's
// contribution. Confirming is one-way and idempotent; lateness is flagged,
// never rejected.
type ConfirmationService struct {
	store storage.Store
	now   func() time.Time
}

// NewConfirmationService creates a ConfirmationService with the given
// storage backend.
func NewConfirmationService(store storage.Store) *ConfirmationService {
	return &ConfirmationService{store: store, now: time.Now}
}

// ConfirmResult is a successful confirmation, possibly annotated as late.
// Repeated confirms return the originally stored row unchanged.
type ConfirmResult struct {
	Confirmation models.Confirmation `json:"confirmation"`
	IsLate       bool                `json:"isLate"`
	Warning      string              `json:"warning,omitempty"`
}

// MemberConfirmation is one roster row: a current member together with
// their confirmation state for the period. Members who never confirmed
// appear with a nil ConfirmedAt.
type MemberConfirmation struct {
	UserID      string      `json:"userId"`
	DisplayName string      `json:"displayName"`
	Email       string      `json:"email"`
	Role        models.Role `json:"role"`
	ConfirmedAt *time.Time  `json:"confirmedAt"`
	IsLate      bool        `json:"isLate"`
}

// Confirm records the actor's acknowledgement for the period. The write is
// a single-row atomic upsert: the first call sets the timestamp, repeats
// are no-ops that leave it untouched.
func (s *ConfirmationService) Confirm(ctx context.Context, actorID, periodID string) (*ConfirmResult, error) {
	period, err := s.store.GetPeriod(ctx, periodID)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	if _, err := requireMembership(ctx, s.store, period.BudgetID, actorID); err != nil {
		return nil, err
	}

	now := s.now()
	stored, err := s.store.UpsertConfirmation(ctx, &models.Confirmation{
		PeriodID:    periodID,
		UserID:      actorID,
		ConfirmedAt: now,
	})
	if err != nil {
		return nil, mapStoreErr(err)
	}

	result := &ConfirmResult{Confirmation: *stored}
	if stored.LateFor(period) {
		result.IsLate = true
		result.Warning = lateWarning("confirmation", period.EndDate, stored.ConfirmedAt)
	}

	slog.Info("period confirmed",
		"period_id", periodID,
		"user_id", actorID,
		"late", result.IsLate,
		"repeat", !stored.ConfirmedAt.Equal(now),
	)
	return result, nil
}

// List returns exactly one roster row per current member of the owning
// budget, including members who never confirmed.
func (s *ConfirmationService) List(ctx context.Context, actorID, periodID string) ([]MemberConfirmation, error) {
	period, err := s.store.GetPeriod(ctx, periodID)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	if _, err := requireMembership(ctx, s.store, period.BudgetID, actorID); err != nil {
		return nil, err
	}

	members, err := s.store.ListMemberships(ctx, period.BudgetID)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	confirmations, err := s.store.ListConfirmations(ctx, periodID)
	if err != nil {
		return nil, mapStoreErr(err)
	}

	confirmedBy := make(map[string]*models.Confirmation, len(confirmations))
	for i := range confirmations {
		confirmedBy[confirmations[i].UserID] = &confirmations[i]
	}

	userIDs := make([]string, len(members))
	for i, m := range members {
		userIDs[i] = m.UserID
	}
	users, err := s.store.GetUsersByIDs(ctx, userIDs)
	if err != nil {
		return nil, mapStoreErr(err)
	}

	roster := make([]MemberConfirmation, len(members))
	for i, m := range members {
		row := MemberConfirmation{
			UserID: m.UserID,
			Role:   m.Role,
		}
		if u := users[m.UserID]; u != nil {
			row.DisplayName = u.DisplayName
			row.Email = u.Email
		}
		if c := confirmedBy[m.UserID]; c != nil {
			t := c.ConfirmedAt
			row.ConfirmedAt = &t
			row.IsLate = c.LateFor(period)
		}
		roster[i] = row
	}
	return roster, nil
}
