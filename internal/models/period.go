package models

import "time"

// Period is one sub-interval of a budget's horizon. Periods are contiguous
// and non-overlapping: period i starts exactly where period i-1 ends.
type Period struct {
	// ID is the unique identifier for the period (UUID format).
	ID string `json:"id"`

	// BudgetID is the owning GroupBudget.
	BudgetID string `json:"budgetId"`

	// Number is the 1-based position within the budget. Unique and
	// contiguous per budget.
	Number int `json:"number"`

	// StartDate is inclusive, EndDate exclusive: the period covers
	// [StartDate, EndDate).
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`

	// TargetAmount is this period's share of the budget total. The rounding
	// remainder of TotalAmount/Duration is absorbed into the final period,
	// so targets across all periods sum exactly to the budget total.
	TargetAmount float64 `json:"targetAmount"`

	// SpentAmount is the cached sum of this period's expense transactions.
	// It is recomputed in the same storage transaction as every
	// transaction insert.
	SpentAmount float64 `json:"spentAmount"`
}

// ActiveAt reports whether the period covers the given instant.
func (p *Period) ActiveAt(now time.Time) bool {
	return !now.Before(p.StartDate) && now.Before(p.EndDate)
}

// EndedAt reports whether the period has fully elapsed at the given instant.
func (p *Period) EndedAt(now time.Time) bool {
	return !now.Before(p.EndDate)
}
