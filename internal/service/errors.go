// Package service implements the period engine: budget lifecycle with
// deterministic period generation, the per-period transaction ledger,
// member confirmations with lateness detection, derived progress and
// alerts, and the membership/invitation workflow that gates every
// mutating call.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kittyfund/kittyfund/internal/models"
	"github.com/kittyfund/kittyfund/internal/storage"
)

// The error taxonomy for every service operation. Callers match with
// errors.Is; the API layer maps these onto HTTP status codes.
//
// Lateness is deliberately absent: a late transaction or confirmation is a
// successful write annotated with a warning flag, because recording
// reality beats blocking legitimate late settlement.
var (
	// ErrValidation marks bad input, rejected before anything is persisted.
	ErrValidation = errors.New("validation failed")

	// ErrUnauthorized marks a caller without an active membership on the
	// target budget.
	ErrUnauthorized = errors.New("requires an active membership")

	// ErrConflict marks writes that would violate a lifecycle rule:
	// duplicate pending invitations, responses to terminal invitations,
	// or regenerating periods that already hold data.
	ErrConflict = errors.New("conflict")

	// ErrNotFound marks an unknown entity ID.
	ErrNotFound = errors.New("not found")
)

// mapStoreErr lifts storage sentinel errors into the service taxonomy
// while preserving the wrapped detail.
func mapStoreErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, storage.ErrNotFound):
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	case errors.Is(err, storage.ErrConflict):
		return fmt.Errorf("%w: %v", ErrConflict, err)
	}
	return err
}

// requireMembership is the sole authorization gate: the actor must hold a
// membership on the budget.
func requireMembership(ctx context.Context, store storage.Store, budgetID, userID string) (*models.Membership, error) {
	m, err := store.GetMembership(ctx, budgetID, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: user %s has no membership on budget %s", ErrUnauthorized, userID, budgetID)
		}
		return nil, err
	}
	return m, nil
}

// lateWarning builds the human-readable warning attached to late writes.
func lateWarning(what string, endDate, now time.Time) string {
	return fmt.Sprintf("%s recorded %s after the period ended", what, now.Sub(endDate).Round(time.Minute))
}
