package models

import "time"

// InvitationStatus is the lifecycle state of an invitation. Accepted and
// declined are terminal.
type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
	InvitationDeclined InvitationStatus = "declined"
)

// Invitation asks a user, identified by email, to join a budget. At most
// one pending invitation exists per (budget, email). Accepting atomically
// creates a member-role Membership; declining creates nothing.
type Invitation struct {
	ID          string           `json:"id"`
	BudgetID    string           `json:"budgetId"`
	Email       string           `json:"email"`
	InviterID   string           `json:"inviterId"`
	Status      InvitationStatus `json:"status"`
	InvitedAt   time.Time        `json:"invitedAt"`
	RespondedAt *time.Time       `json:"respondedAt"` // nil while pending
}
