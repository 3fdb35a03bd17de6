package models

import (
	"fmt"
	"time"
)

// Cadence is the repeating unit that defines a period's length.
type Cadence string

const (
	CadenceDaily   Cadence = "daily"
	CadenceWeekly  Cadence = "weekly"
	CadenceMonthly Cadence = "monthly"
)

// ParseCadence validates and normalizes a cadence string.
func ParseCadence(s string) (Cadence, error) {
	switch Cadence(s) {
	case CadenceDaily, CadenceWeekly, CadenceMonthly:
		return Cadence(s), nil
	}
	return "", fmt.Errorf("unknown cadence %q", s)
}

// GroupBudget represents a shared financial target funded by its members
// over a fixed horizon of `Duration` periods.
type GroupBudget struct {
	// ID is the unique identifier for the budget (UUID format).
	ID string `json:"id"`

	// Name is the display name of the budget (e.g., "Summer Trip 2026").
	Name string `json:"name"`

	// TotalAmount is the overall target to fund. Always > 0.
	TotalAmount float64 `json:"totalAmount"`

	// Cadence defines the length of each installment period.
	Cadence Cadence `json:"cadence"`

	// Duration is the number of periods the horizon is split into. Always >= 1.
	Duration int `json:"duration"`

	// StartDate is when the first period begins.
	StartDate time.Time `json:"startDate"`

	// EndDate is derived from StartDate + Cadence * Duration. It is never
	// edited independently: any change to Cadence, Duration or StartDate
	// regenerates EndDate together with all periods.
	EndDate time.Time `json:"endDate"`

	// CategoryID optionally links the budget to a spending category.
	CategoryID string `json:"categoryId,omitempty"`

	// CreatorID is the user who created the budget. The creator's owner
	// membership is created atomically with the budget itself.
	CreatorID string `json:"creatorId"`

	// IsActive is false once the budget has been deactivated.
	IsActive bool `json:"isActive"`

	CreatedAt time.Time `json:"createdAt"`
}
