package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kittyfund/kittyfund/internal/models"
	"github.com/kittyfund/kittyfund/internal/periodgen"
	"github.com/kittyfund/kittyfund/internal/progress"
	"github.com/kittyfund/kittyfund/internal/storage"
)

// BudgetService owns the GroupBudget aggregate: creation with synchronous
// period generation, derived views, regeneration on schedule changes, and
// the explicit delete cascade.
type BudgetService struct {
	store storage.Store
	now   func() time.Time
}

// NewBudgetService creates a BudgetService with the given storage backend.
func NewBudgetService(store storage.Store) *BudgetService {
	return &BudgetService{store: store, now: time.Now}
}

// CreateBudgetInput carries everything needed to set up a shared budget.
type CreateBudgetInput struct {
	Name          string
	TotalAmount   float64
	Cadence       string
	Duration      int
	StartDate     time.Time
	CategoryID    string
	InvitedEmails []string
}

// UpdateBudgetInput updates a budget. Nil fields are left unchanged. A
// change to TotalAmount, Cadence, Duration or StartDate regenerates the
// whole period sequence.
type UpdateBudgetInput struct {
	Name        *string
	CategoryID  *string
	TotalAmount *float64
	Cadence     *string
	Duration    *int
	StartDate   *time.Time
}

// BudgetView is a budget with its derived aggregate state attached.
type BudgetView struct {
	Budget           models.GroupBudget `json:"budget"`
	Progress         progress.Report    `json:"progress"`
	Alerts           []progress.Alert   `json:"alerts"`
	MemberCount      int                `json:"memberCount"`
	PeriodCount      int                `json:"periodCount"`
	ConfirmationRate float64            `json:"confirmationRate"`
}

// PeriodView is a period with its derived state attached.
type PeriodView struct {
	Period           models.Period    `json:"period"`
	IsActive         bool             `json:"isActive"`
	Progress         progress.Report  `json:"progress"`
	Alerts           []progress.Alert `json:"alerts"`
	ConfirmedCount   int              `json:"confirmedCount"`
	MemberCount      int              `json:"memberCount"`
	ConfirmationRate float64          `json:"confirmationRate"`
}

// Create validates the input, generates the full period sequence, and
// persists the budget together with the creator's owner membership and any
// initial invitations in one storage transaction.
func (s *BudgetService) Create(ctx context.Context, actorID string, in CreateBudgetInput) (*models.GroupBudget, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if in.TotalAmount <= 0 {
		return nil, fmt.Errorf("%w: total amount must be positive", ErrValidation)
	}
	cadence, err := models.ParseCadence(in.Cadence)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if in.Duration < 1 {
		return nil, fmt.Errorf("%w: duration must be at least 1", ErrValidation)
	}
	if in.StartDate.IsZero() {
		return nil, fmt.Errorf("%w: start date is required", ErrValidation)
	}

	periods, err := periodgen.Generate(in.TotalAmount, cadence, in.Duration, in.StartDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	now := s.now()
	budget := &models.GroupBudget{
		Name:        strings.TrimSpace(in.Name),
		TotalAmount: in.TotalAmount,
		Cadence:     cadence,
		Duration:    in.Duration,
		StartDate:   in.StartDate,
		EndDate:     periodgen.EndDate(cadence, in.Duration, in.StartDate),
		CategoryID:  in.CategoryID,
		CreatorID:   actorID,
		IsActive:    true,
		CreatedAt:   now,
	}

	invitations := buildInvitations(in.InvitedEmails, actorID, now)
	if err := s.store.CreateBudget(ctx, budget, periods, invitations); err != nil {
		return nil, mapStoreErr(err)
	}

	slog.Info("budget created",
		"budget_id", budget.ID,
		"creator_id", actorID,
		"cadence", budget.Cadence,
		"duration", budget.Duration,
		"invited", len(invitations),
	)
	return budget, nil
}

// List returns every budget the actor is a member of.
func (s *BudgetService) List(ctx context.Context, actorID string) ([]models.GroupBudget, error) {
	budgets, err := s.store.ListBudgetsByUser(ctx, actorID)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return budgets, nil
}

// Get returns the budget with its aggregate progress, alerts and
// confirmation rate, evaluated lazily against the injected clock.
func (s *BudgetService) Get(ctx context.Context, actorID, budgetID string) (*BudgetView, error) {
	budget, err := s.store.GetBudget(ctx, budgetID)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	if _, err := requireMembership(ctx, s.store, budgetID, actorID); err != nil {
		return nil, err
	}

	periods, err := s.store.ListPeriods(ctx, budgetID)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	members, err := s.store.ListMemberships(ctx, budgetID)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	confirmed, err := s.store.CountConfirmations(ctx, budgetID)
	if err != nil {
		return nil, mapStoreErr(err)
	}

	var spent float64
	for _, p := range periods {
		spent += p.SpentAmount
	}

	now := s.now()
	view := &BudgetView{
		Budget:      *budget,
		Progress:    progress.Evaluate(budget.TotalAmount, spent),
		MemberCount: len(members),
		PeriodCount: len(periods),
	}
	if budget.IsActive {
		view.Alerts = progress.Alerts(budget.TotalAmount, spent, budget.StartDate, budget.EndDate, now)
	}
	if total := len(members) * len(periods); total > 0 {
		view.ConfirmationRate = float64(confirmed) / float64(total) * 100
	}
	return view, nil
}

// Update applies the changes and regenerates the period sequence when the
// schedule or target changed. Regeneration fails with ErrConflict if any
// existing period already holds transactions or confirmations.
func (s *BudgetService) Update(ctx context.Context, actorID, budgetID string, in UpdateBudgetInput) (*models.GroupBudget, error) {
	budget, err := s.store.GetBudget(ctx, budgetID)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	m, err := requireMembership(ctx, s.store, budgetID, actorID)
	if err != nil {
		return nil, err
	}
	if m.Role != models.RoleOwner && m.Role != models.RoleAdmin {
		return nil, fmt.Errorf("%w: only owners and admins may update a budget", ErrUnauthorized)
	}

	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, fmt.Errorf("%w: name is required", ErrValidation)
		}
		budget.Name = strings.TrimSpace(*in.Name)
	}
	if in.CategoryID != nil {
		budget.CategoryID = *in.CategoryID
	}

	regen := false
	if in.TotalAmount != nil && *in.TotalAmount != budget.TotalAmount {
		if *in.TotalAmount <= 0 {
			return nil, fmt.Errorf("%w: total amount must be positive", ErrValidation)
		}
		budget.TotalAmount = *in.TotalAmount
		regen = true
	}
	if in.Cadence != nil && models.Cadence(*in.Cadence) != budget.Cadence {
		cadence, err := models.ParseCadence(*in.Cadence)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		budget.Cadence = cadence
		regen = true
	}
	if in.Duration != nil && *in.Duration != budget.Duration {
		if *in.Duration < 1 {
			return nil, fmt.Errorf("%w: duration must be at least 1", ErrValidation)
		}
		budget.Duration = *in.Duration
		regen = true
	}
	if in.StartDate != nil && !in.StartDate.Equal(budget.StartDate) {
		if in.StartDate.IsZero() {
			return nil, fmt.Errorf("%w: start date is required", ErrValidation)
		}
		budget.StartDate = *in.StartDate
		regen = true
	}

	// EndDate is never edited independently: it moves together with the
	// regenerated period sequence or not at all.
	var regenerated []models.Period
	if regen {
		regenerated, err = periodgen.Generate(budget.TotalAmount, budget.Cadence, budget.Duration, budget.StartDate)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		budget.EndDate = periodgen.EndDate(budget.Cadence, budget.Duration, budget.StartDate)
	}

	if err := s.store.UpdateBudget(ctx, budget, regenerated); err != nil {
		return nil, mapStoreErr(err)
	}

	slog.Info("budget updated", "budget_id", budgetID, "actor_id", actorID, "regenerated", regen)
	return budget, nil
}

// Deactivate flips the budget inactive. Alerts stop being derived; the
// recorded history stays intact.
func (s *BudgetService) Deactivate(ctx context.Context, actorID, budgetID string) error {
	budget, err := s.store.GetBudget(ctx, budgetID)
	if err != nil {
		return mapStoreErr(err)
	}
	m, err := requireMembership(ctx, s.store, budgetID, actorID)
	if err != nil {
		return err
	}
	if m.Role != models.RoleOwner && m.Role != models.RoleAdmin {
		return fmt.Errorf("%w: only owners and admins may deactivate a budget", ErrUnauthorized)
	}

	budget.IsActive = false
	if err := s.store.UpdateBudget(ctx, budget, nil); err != nil {
		return mapStoreErr(err)
	}
	slog.Info("budget deactivated", "budget_id", budgetID, "actor_id", actorID)
	return nil
}

// Delete removes the budget and every child entity (periods, transactions,
// confirmations, invitations, memberships) in one orchestrated cascade.
// Owner only.
func (s *BudgetService) Delete(ctx context.Context, actorID, budgetID string) error {
	m, err := requireMembership(ctx, s.store, budgetID, actorID)
	if err != nil {
		return err
	}
	if m.Role != models.RoleOwner {
		return fmt.Errorf("%w: only the owner may delete a budget", ErrUnauthorized)
	}

	if err := s.store.DeleteBudget(ctx, budgetID); err != nil {
		return mapStoreErr(err)
	}
	slog.Info("budget deleted", "budget_id", budgetID, "actor_id", actorID)
	return nil
}

// Periods returns every period of the budget with its derived state.
func (s *BudgetService) Periods(ctx context.Context, actorID, budgetID string) ([]PeriodView, error) {
	budget, err := s.store.GetBudget(ctx, budgetID)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	if _, err := requireMembership(ctx, s.store, budgetID, actorID); err != nil {
		return nil, err
	}

	periods, err := s.store.ListPeriods(ctx, budgetID)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	members, err := s.store.ListMemberships(ctx, budgetID)
	if err != nil {
		return nil, mapStoreErr(err)
	}

	views := make([]PeriodView, len(periods))
	for i := range periods {
		confirmations, err := s.store.ListConfirmations(ctx, periods[i].ID)
		if err != nil {
			return nil, mapStoreErr(err)
		}
		views[i] = buildPeriodView(budget, &periods[i], len(members), len(confirmations), s.now())
	}
	return views, nil
}

// Period returns a single period with its derived state.
func (s *BudgetService) Period(ctx context.Context, actorID, periodID string) (*PeriodView, error) {
	period, err := s.store.GetPeriod(ctx, periodID)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	budget, err := s.store.GetBudget(ctx, period.BudgetID)
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

	view := buildPeriodView(budget, period, len(members), len(confirmations), s.now())
	return &view, nil
}

func buildPeriodView(budget *models.GroupBudget, p *models.Period, memberCount, confirmedCount int, now time.Time) PeriodView {
	view := PeriodView{
		Period:         *p,
		IsActive:       p.ActiveAt(now),
		Progress:       progress.Evaluate(p.TargetAmount, p.SpentAmount),
		ConfirmedCount: confirmedCount,
		MemberCount:    memberCount,
	}
	if budget.IsActive {
		view.Alerts = progress.Alerts(p.TargetAmount, p.SpentAmount, p.StartDate, p.EndDate, now)
	}
	if memberCount > 0 {
		view.ConfirmationRate = float64(confirmedCount) / float64(memberCount) * 100
	}
	return view
}

// buildInvitations turns the invited email list into pending invitation
// rows, dropping blanks and duplicates.
func buildInvitations(emails []string, inviterID string, now time.Time) []models.Invitation {
	seen := make(map[string]bool, len(emails))
	var invitations []models.Invitation
	for _, email := range emails {
		email = strings.ToLower(strings.TrimSpace(email))
		if email == "" || seen[email] {
			continue
		}
		seen[email] = true
		invitations = append(invitations, models.Invitation{
			Email:     email,
			InviterID: inviterID,
			Status:    models.InvitationPending,
			InvitedAt: now,
		})
	}
	return invitations
}
