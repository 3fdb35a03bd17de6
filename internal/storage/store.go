// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/kittyfund/kittyfund/internal/models"
)

var (
	// ErrNotFound is returned when the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a write would violate a uniqueness or
	// lifecycle rule: a duplicate pending invitation, responding to a
	// terminal invitation, or regenerating periods that already hold
	// transactions or confirmations.
	ErrConflict = errors.New("conflict")
)

// Store defines the durable storage interface for all Kittyfund entities.
// Every mutating method is atomic: it either fully succeeds or has no
// effect, including the multi-entity operations (budget creation with
// periods and invitations, invitation acceptance with membership creation,
// transaction insert with spent-amount recompute, cascading deletes).
//
// The abstraction allows swapping storage backends (SQLite, PostgreSQL,
// etc.) without changing the service layer.
type Store interface {
	// Users.
	CreateUser(ctx context.Context, user *models.User) error
	// GetUserByEmail returns (nil, nil) when no user has that email.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	// GetUsersByIDs returns the users keyed by ID; missing IDs are omitted.
	GetUsersByIDs(ctx context.Context, ids []string) (map[string]*models.User, error)

	// Budgets and periods. CreateBudget persists the budget, its full
	// period sequence, the creator's owner membership and any initial
	// invitations in one transaction. UpdateBudget replaces the period
	// sequence when regenerated is non-nil, failing with ErrConflict if
	// any existing period already holds transactions or confirmations.
	// DeleteBudget is an explicit orchestrated cascade over confirmations,
	// transactions, periods, invitations and memberships.
	CreateBudget(ctx context.Context, budget *models.GroupBudget, periods []models.Period, invitations []models.Invitation) error
	GetBudget(ctx context.Context, id string) (*models.GroupBudget, error)
	ListBudgetsByUser(ctx context.Context, userID string) ([]models.GroupBudget, error)
	UpdateBudget(ctx context.Context, budget *models.GroupBudget, regenerated []models.Period) error
	DeleteBudget(ctx context.Context, id string) error
	GetPeriod(ctx context.Context, id string) (*models.Period, error)
	ListPeriods(ctx context.Context, budgetID string) ([]models.Period, error)

	// Transactions. CreateTransaction inserts the row and recomputes the
	// owning period's cached spent amount in the same transaction.
	// ListTransactions orders entries most-recent-first; limit <= 0 means
	// no limit.
	CreateTransaction(ctx context.Context, tx *models.Transaction) error
	ListTransactions(ctx context.Context, periodID string, limit, offset int) ([]models.Transaction, error)

	// Memberships and invitations. CreateInvitation fails with ErrConflict
	// when a pending invitation for the same (budget, email) exists.
	// AcceptInvitation flips a pending invitation to accepted and creates
	// the membership atomically; it fails with ErrConflict when the
	// invitation is already terminal. DeclineInvitation is symmetric and
	// creates nothing.
	GetMembership(ctx context.Context, budgetID, userID string) (*models.Membership, error)
	ListMemberships(ctx context.Context, budgetID string) ([]models.Membership, error)
	CreateInvitation(ctx context.Context, inv *models.Invitation) error
	GetInvitation(ctx context.Context, id string) (*models.Invitation, error)
	ListPendingInvitationsByEmail(ctx context.Context, email string) ([]models.Invitation, error)
	AcceptInvitation(ctx context.Context, invitationID string, respondedAt time.Time, membership *models.Membership) error
	DeclineInvitation(ctx context.Context, invitationID string, respondedAt time.Time) error

	// Confirmations. UpsertConfirmation is a single-row atomic upsert:
	// the first write per (period, user) sets the timestamp, repeats leave
	// the stored row untouched. The stored row is returned either way.
	UpsertConfirmation(ctx context.Context, c *models.Confirmation) (*models.Confirmation, error)
	ListConfirmations(ctx context.Context, periodID string) ([]models.Confirmation, error)
	// CountConfirmations is the aggregate count across all of a budget's periods.
	CountConfirmations(ctx context.Context, budgetID string) (int, error)

	// Close releases any resources held by the store.
	Close() error
}
