package models

import "time"

// Role is a member's level of control over a budget.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// Membership is a user's authorized, role-bearing participation in a
// budget. A membership lookup is the sole authorization gate for every
// mutating call on the budget.
type Membership struct {
	ID       string    `json:"id"`
	BudgetID string    `json:"budgetId"`
	UserID   string    `json:"userId"`
	Role     Role      `json:"role"`
	JoinedAt time.Time `json:"joinedAt"`
}
