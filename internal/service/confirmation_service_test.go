package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kittyfund/kittyfund/internal/models"
)

func TestConfirmLateness(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	owner := createTestUser(t, store, "alice@example.com", "Alice")
	friend := createTestUser(t, store, "bob@example.com", "Bob")
	budget, periods := seedBudget(t, store, owner.ID)
	addMember(t, store, budget.ID, owner.ID, friend, date(2024, time.January, 3))
	period1 := periods[0] // ends Feb 1

	svc := NewConfirmationService(store)

	svc.now = fixedClock(date(2024, time.January, 20))
	res, err := svc.Confirm(ctx, owner.ID, period1.ID)
	if err != nil {
		t.Fatalf("Confirm failed: %v", err)
	}
	if res.IsLate {
		t.Error("confirmation within the period flagged late")
	}

	svc.now = fixedClock(date(2024, time.February, 5))
	res, err = svc.Confirm(ctx, friend.ID, period1.ID)
	if err != nil {
		t.Fatalf("late Confirm failed: %v", err)
	}
	if !res.IsLate {
		t.Error("confirmation after the period end not flagged late")
	}
	if res.Warning == "" {
		t.Error("late confirmation carries no warning")
	}

	roster, err := svc.List(ctx, owner.ID, period1.ID)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(roster) != 2 {
		t.Fatalf("roster has %d rows, want 2", len(roster))
	}
	byID := make(map[string]MemberConfirmation, len(roster))
	for _, row := range roster {
		byID[row.UserID] = row
	}
	if row := byID[owner.ID]; row.ConfirmedAt == nil || row.IsLate {
		t.Errorf("owner row = %+v, want on-time confirmation", row)
	}
	if row := byID[friend.ID]; row.ConfirmedAt == nil || !row.IsLate {
		t.Errorf("friend row = %+v, want late confirmation", row)
	}

	// Aggregate view: everyone confirmed, one of them late.
	budgets := NewBudgetService(store)
	budgets.now = fixedClock(date(2024, time.February, 10))
	view, err := budgets.Period(ctx, owner.ID, period1.ID)
	if err != nil {
		t.Fatalf("Period failed: %v", err)
	}
	if view.ConfirmedCount != 2 || view.MemberCount != 2 {
		t.Errorf("counts = %d/%d, want 2/2", view.ConfirmedCount, view.MemberCount)
	}
	if view.ConfirmationRate != 100 {
		t.Errorf("confirmation rate = %v, want 100", view.ConfirmationRate)
	}
}

func TestConfirmIsIdempotent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	owner := createTestUser(t, store, "alice@example.com", "Alice")
	_, periods := seedBudget(t, store, owner.ID)

	svc := NewConfirmationService(store)

	first := date(2024, time.January, 20)
	svc.now = fixedClock(first)
	res, err := svc.Confirm(ctx, owner.ID, periods[0].ID)
	if err != nil {
		t.Fatalf("Confirm failed: %v", err)
	}
	if !res.Confirmation.ConfirmedAt.Equal(first) {
		t.Errorf("ConfirmedAt = %v, want %v", res.Confirmation.ConfirmedAt, first)
	}

	// The repeat is a no-op: the original timestamp survives, even when the
	// second call would have been late.
	svc.now = fixedClock(date(2024, time.February, 9))
	res, err = svc.Confirm(ctx, owner.ID, periods[0].ID)
	if err != nil {
		t.Fatalf("repeat Confirm failed: %v", err)
	}
	if !res.Confirmation.ConfirmedAt.Equal(first) {
		t.Errorf("repeat ConfirmedAt = %v, want original %v", res.Confirmation.ConfirmedAt, first)
	}
	if res.IsLate {
		t.Error("repeat re-evaluated lateness against the new clock")
	}

	confs, _ := store.ListConfirmations(ctx, periods[0].ID)
	if len(confs) != 1 {
		t.Errorf("got %d stored confirmations, want 1", len(confs))
	}
}

func TestRosterIncludesNonConfirmers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	owner := createTestUser(t, store, "alice@example.com", "Alice")
	friend := createTestUser(t, store, "bob@example.com", "Bob")
	budget, periods := seedBudget(t, store, owner.ID)
	addMember(t, store, budget.ID, owner.ID, friend, date(2024, time.January, 3))

	svc := NewConfirmationService(store)
	svc.now = fixedClock(date(2024, time.January, 20))
	if _, err := svc.Confirm(ctx, owner.ID, periods[0].ID); err != nil {
		t.Fatalf("Confirm failed: %v", err)
	}

	roster, err := svc.List(ctx, owner.ID, periods[0].ID)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(roster) != 2 {
		t.Fatalf("roster has %d rows, want 2", len(roster))
	}
	var friendRow *MemberConfirmation
	for i := range roster {
		if roster[i].UserID == friend.ID {
			friendRow = &roster[i]
		}
	}
	if friendRow == nil {
		t.Fatal("non-confirming member missing from roster")
	}
	if friendRow.ConfirmedAt != nil {
		t.Errorf("non-confirmer has ConfirmedAt = %v, want nil", friendRow.ConfirmedAt)
	}
	if friendRow.Email != "bob@example.com" || friendRow.Role != models.RoleMember {
		t.Errorf("friend row = %+v, want populated member details", friendRow)
	}
}

func TestConfirmRequiresMembership(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	owner := createTestUser(t, store, "alice@example.com", "Alice")
	stranger := createTestUser(t, store, "mallory@example.com", "Mallory")
	_, periods := seedBudget(t, store, owner.ID)

	svc := NewConfirmationService(store)
	if _, err := svc.Confirm(ctx, stranger.ID, periods[0].ID); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("Confirm error = %v, want ErrUnauthorized", err)
	}
	if _, err := svc.List(ctx, stranger.ID, periods[0].ID); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("List error = %v, want ErrUnauthorized", err)
	}
}

func TestBudgetConfirmationRate(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	owner := createTestUser(t, store, "alice@example.com", "Alice")
	friend := createTestUser(t, store, "bob@example.com", "Bob")
	budget, periods := seedBudget(t, store, owner.ID) // 3 periods
	addMember(t, store, budget.ID, owner.ID, friend, date(2024, time.January, 3))

	svc := NewConfirmationService(store)
	svc.now = fixedClock(date(2024, time.January, 20))
	for _, actorID := range []string{owner.ID, friend.ID} {
		if _, err := svc.Confirm(ctx, actorID, periods[0].ID); err != nil {
			t.Fatalf("Confirm failed: %v", err)
		}
	}
	svc.now = fixedClock(date(2024, time.February, 20))
	if _, err := svc.Confirm(ctx, owner.ID, periods[1].ID); err != nil {
		t.Fatalf("Confirm failed: %v", err)
	}

	budgets := NewBudgetService(store)
	budgets.now = fixedClock(date(2024, time.February, 25))
	view, err := budgets.Get(ctx, owner.ID, budget.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	// 3 of 6 member-period slots confirmed.
	if view.ConfirmationRate != 50 {
		t.Errorf("confirmation rate = %v, want 50", view.ConfirmationRate)
	}
}
