// Package progress derives spend progress, status and alerts for a budget
// or a single period. Everything here is pure: callers pass target, spent
// and the relevant time bounds, and nothing is ever persisted.
package progress

import "math"

// Status thresholds, in percent. Evaluated consistently everywhere a
// status or alert is derived.
const (
	WarningThreshold  = 80.0
	ExceededThreshold = 100.0
)

// Status classifies spend progress against the target.
type Status string

const (
	StatusOnTrack  Status = "on-track"
	StatusWarning  Status = "warning"
	StatusExceeded Status = "exceeded"
)

// Report is the derived progress view for one target/spent pair.
type Report struct {
	Percent   float64 `json:"percent"`
	Remaining float64 `json:"remaining"`
	Status    Status  `json:"status"`
}

// Percent returns spent/target as a percentage. A zero target yields 0,
// never a division by zero.
func Percent(spent, target float64) float64 {
	if target == 0 {
		return 0
	}
	return spent / target * 100
}

// Remaining returns how much of the target is still unspent, clamped at 0.
func Remaining(target, spent float64) float64 {
	return math.Max(0, target-spent)
}

// StatusOf maps a progress percentage onto a status.
func StatusOf(percent float64) Status {
	switch {
	case percent >= ExceededThreshold:
		return StatusExceeded
	case percent >= WarningThreshold:
		return StatusWarning
	default:
		return StatusOnTrack
	}
}

// Evaluate builds the full report for one target/spent pair.
func Evaluate(target, spent float64) Report {
	pct := Percent(spent, target)
	return Report{
		Percent:   pct,
		Remaining: Remaining(target, spent),
		Status:    StatusOf(pct),
	}
}
