package progress

import (
	"fmt"
	"time"
)

// AlertKind distinguishes direct threshold alerts from the linear
// projection early warning.
type AlertKind string

const (
	AlertThresholdWarning  AlertKind = "threshold_warning"
	AlertThresholdExceeded AlertKind = "threshold_exceeded"
	AlertProjection        AlertKind = "projection"
)

// Alert is a derived warning. Alerts are computed on every read and never
// persisted.
type Alert struct {
	Kind    AlertKind `json:"kind"`
	Message string    `json:"message"`
}

// Alerts derives the alerts for an interval [start, end) with the given
// target and spent amounts, evaluated at now.
//
// Threshold alerts follow directly from status. The projection alert fires
// for an interval that is currently active and still below the warning
// threshold, when the historical daily spend rate projected over the
// remaining days would overshoot the remaining target.
func Alerts(target, spent float64, start, end, now time.Time) []Alert {
	report := Evaluate(target, spent)

	var alerts []Alert
	switch report.Status {
	case StatusExceeded:
		alerts = append(alerts, Alert{
			Kind:    AlertThresholdExceeded,
			Message: fmt.Sprintf("spending reached %.1f%% of the %.2f target", report.Percent, target),
		})
	case StatusWarning:
		alerts = append(alerts, Alert{
			Kind:    AlertThresholdWarning,
			Message: fmt.Sprintf("spending reached %.1f%% of the %.2f target", report.Percent, target),
		})
	}

	active := !now.Before(start) && now.Before(end)
	if !active || report.Percent >= WarningThreshold {
		return alerts
	}

	daysElapsed := int(now.Sub(start).Hours() / 24)
	if daysElapsed < 1 {
		daysElapsed = 1
	}
	daysLeft := int(end.Sub(now).Hours() / 24)

	dailyAverage := spent / float64(daysElapsed)
	projected := dailyAverage * float64(daysLeft)
	if projected > report.Remaining {
		alerts = append(alerts, Alert{
			Kind: AlertProjection,
			Message: fmt.Sprintf("at %.2f/day the projected spend of %.2f exceeds the remaining %.2f",
				dailyAverage, projected, report.Remaining),
		})
	}
	return alerts
}
