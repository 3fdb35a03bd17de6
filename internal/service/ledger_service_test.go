package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kittyfund/kittyfund/internal/models"
	"github.com/kittyfund/kittyfund/internal/storage/sqlite"
)

// seedBudget creates a monthly budget starting Jan 1 2024 and returns it
// with its ordered periods.
func seedBudget(t *testing.T, store *sqlite.Store, ownerID string) (*models.GroupBudget, []models.Period) {
	t.Helper()
	svc := NewBudgetService(store)
	budget, err := svc.Create(context.Background(), ownerID, CreateBudgetInput{
		Name:        "Shared Pot",
		TotalAmount: 300000,
		Cadence:     "monthly",
		Duration:    3,
		StartDate:   date(2024, time.January, 1),
	})
	if err != nil {
		t.Fatalf("failed to seed budget: %v", err)
	}
	periods, err := store.ListPeriods(context.Background(), budget.ID)
	if err != nil {
		t.Fatalf("failed to list periods: %v", err)
	}
	return budget, periods
}

func TestAddTransactionLateness(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	owner := createTestUser(t, store, "owner@example.com", "Owner")
	_, periods := seedBudget(t, store, owner.ID)
	period1 := periods[0] // ends Feb 1

	svc := NewLedgerService(store)

	svc.now = fixedClock(date(2024, time.January, 20))
	onTime, err := svc.Add(ctx, owner.ID, period1.ID, AddTransactionInput{
		Amount: 500, Kind: "expense", Description: "groceries",
	})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if onTime.IsLate {
		t.Error("entry within the period flagged late")
	}
	if onTime.Warning != "" {
		t.Errorf("unexpected warning: %q", onTime.Warning)
	}

	svc.now = fixedClock(date(2024, time.February, 5))
	late, err := svc.Add(ctx, owner.ID, period1.ID, AddTransactionInput{
		Amount: 300, Kind: "expense", Description: "forgot this one",
	})
	if err != nil {
		t.Fatalf("late Add failed: %v", err)
	}
	if !late.IsLate {
		t.Error("entry after the period end not flagged late")
	}
	if late.Warning == "" {
		t.Error("late entry carries no warning")
	}

	// Both entries were written; lateness never blocks.
	txs, err := svc.List(ctx, owner.ID, period1.ID, 0, 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(txs) != 2 {
		t.Errorf("got %d transactions, want 2", len(txs))
	}
}

func TestAddTransactionUpdatesSpentAmount(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	owner := createTestUser(t, store, "owner@example.com", "Owner")
	_, periods := seedBudget(t, store, owner.ID)

	svc := NewLedgerService(store)
	svc.now = fixedClock(date(2024, time.January, 10))

	// Income is recorded but never counts toward spend.
	if _, err := svc.Add(ctx, owner.ID, periods[0].ID, AddTransactionInput{
		Amount: 40000, Kind: "income", Description: "refund",
	}); err != nil {
		t.Fatalf("Add income failed: %v", err)
	}
	p, _ := store.GetPeriod(ctx, periods[0].ID)
	if p.SpentAmount != 0 {
		t.Errorf("spent = %v after income only, want 0", p.SpentAmount)
	}

	if _, err := svc.Add(ctx, owner.ID, periods[0].ID, AddTransactionInput{
		Amount: 10000, Kind: "expense",
	}); err != nil {
		t.Fatalf("Add expense failed: %v", err)
	}
	p, _ = store.GetPeriod(ctx, periods[0].ID)
	if p.SpentAmount != 10000 {
		t.Errorf("spent = %v, want 10000", p.SpentAmount)
	}

	// Entries land on their own period only.
	p2, _ := store.GetPeriod(ctx, periods[1].ID)
	if p2.SpentAmount != 0 {
		t.Errorf("period 2 spent = %v, want 0", p2.SpentAmount)
	}
}

func TestAddTransactionValidation(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	owner := createTestUser(t, store, "owner@example.com", "Owner")
	_, periods := seedBudget(t, store, owner.ID)

	svc := NewLedgerService(store)

	tests := []struct {
		name string
		in   AddTransactionInput
	}{
		{"zero amount", AddTransactionInput{Amount: 0, Kind: "expense"}},
		{"negative amount", AddTransactionInput{Amount: -10, Kind: "expense"}},
		{"unknown kind", AddTransactionInput{Amount: 10, Kind: "transfer"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Add(ctx, owner.ID, periods[0].ID, tt.in)
			if !errors.Is(err, ErrValidation) {
				t.Errorf("Add error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestAddTransactionRequiresMembership(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	owner := createTestUser(t, store, "owner@example.com", "Owner")
	stranger := createTestUser(t, store, "stranger@example.com", "Stranger")
	_, periods := seedBudget(t, store, owner.ID)

	svc := NewLedgerService(store)
	_, err := svc.Add(ctx, stranger.ID, periods[0].ID, AddTransactionInput{Amount: 10, Kind: "expense"})
	if !errors.Is(err, ErrUnauthorized) {
		t.Errorf("Add error = %v, want ErrUnauthorized", err)
	}
	if _, err := svc.List(ctx, stranger.ID, periods[0].ID, 0, 0); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("List error = %v, want ErrUnauthorized", err)
	}
}

func TestAddTransactionUnknownPeriod(t *testing.T) {
	store := newTestStore(t)
	owner := createTestUser(t, store, "owner@example.com", "Owner")

	svc := NewLedgerService(store)
	_, err := svc.Add(context.Background(), owner.ID, "no-such-period", AddTransactionInput{Amount: 10, Kind: "expense"})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Add error = %v, want ErrNotFound", err)
	}
}

func TestListTransactionsOrderingAndPagination(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	owner := createTestUser(t, store, "owner@example.com", "Owner")
	_, periods := seedBudget(t, store, owner.ID)

	svc := NewLedgerService(store)
	svc.now = fixedClock(date(2024, time.January, 20))

	days := []int{5, 15, 10}
	for _, d := range days {
		if _, err := svc.Add(ctx, owner.ID, periods[0].ID, AddTransactionInput{
			Amount: float64(d), Kind: "expense", OccurredOn: date(2024, time.January, d),
		}); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}

	txs, err := svc.List(ctx, owner.ID, periods[0].ID, 0, 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(txs) != 3 {
		t.Fatalf("got %d transactions, want 3", len(txs))
	}
	for i, want := range []int{15, 10, 5} {
		if !txs[i].OccurredOn.Equal(date(2024, time.January, want)) {
			t.Errorf("txs[%d].OccurredOn = %v, want Jan %d", i, txs[i].OccurredOn, want)
		}
	}

	page, err := svc.List(ctx, owner.ID, periods[0].ID, 2, 1)
	if err != nil {
		t.Fatalf("paged List failed: %v", err)
	}
	if len(page) != 2 {
		t.Fatalf("got %d transactions on page, want 2", len(page))
	}
	if !page[0].OccurredOn.Equal(date(2024, time.January, 10)) {
		t.Errorf("page[0].OccurredOn = %v, want Jan 10", page[0].OccurredOn)
	}
}
