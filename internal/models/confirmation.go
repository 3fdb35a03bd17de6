package models

import "time"

// Confirmation is a member's acknowledgement that their contribution for a
// period has been made. At most one row exists per (period, member);
// confirming is one-way and idempotent on repeat. A confirmation recorded
// after the period's end date is flagged late, not rejected.
type Confirmation struct {
	ID          string    `json:"id"`
	PeriodID    string    `json:"periodId"`
	UserID      string    `json:"userId"`
	ConfirmedAt time.Time `json:"confirmedAt"`
}

// LateFor reports whether the confirmation landed after the period ended.
func (c *Confirmation) LateFor(p *Period) bool {
	return c.ConfirmedAt.After(p.EndDate)
}
