// Package periodgen builds the deterministic period sequence for a budget.
//
// Periods are anchored at the budget start date rather than chained off the
// previous period's end, so contiguity is structural: period i covers
// [advance(start, i), advance(start, i+1)).
//
// Month-end rule: monthly periods advance with time.AddDate(0, n, 0), which
// normalizes day-of-month overflow forward (a budget starting Jan 31 has its
// second period start on Mar 2 or Mar 3 depending on leap year). The rule is
// deterministic for any start date.
package periodgen

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kittyfund/kittyfund/internal/models"
)

// Generate returns `duration` contiguous periods covering
// [start, EndDate(cadence, duration, start)). Target amounts are allocated
// in exact decimal arithmetic: every period gets totalAmount/duration
// rounded to cents, and the final period absorbs the rounding remainder so
// the targets sum to totalAmount exactly.
//
// The returned periods carry Number, StartDate, EndDate and TargetAmount;
// IDs and the budget reference are filled in by the storage layer.
func Generate(totalAmount float64, cadence models.Cadence, duration int, start time.Time) ([]models.Period, error) {
	if totalAmount <= 0 {
		return nil, fmt.Errorf("total amount must be positive, got %v", totalAmount)
	}
	if duration < 1 {
		return nil, fmt.Errorf("duration must be at least 1, got %d", duration)
	}
	if _, err := models.ParseCadence(string(cadence)); err != nil {
		return nil, err
	}

	total := decimal.NewFromFloat(totalAmount)
	n := decimal.NewFromInt(int64(duration))
	base := total.DivRound(n, 2)
	// Everything the first duration-1 periods don't cover lands here.
	last := total.Sub(base.Mul(decimal.NewFromInt(int64(duration - 1))))

	periods := make([]models.Period, duration)
	for i := 0; i < duration; i++ {
		target := base
		if i == duration-1 {
			target = last
		}
		periods[i] = models.Period{
			Number:       i + 1,
			StartDate:    advance(start, cadence, i),
			EndDate:      advance(start, cadence, i+1),
			TargetAmount: target.InexactFloat64(),
		}
	}
	return periods, nil
}

// EndDate returns the exclusive end of the whole budget horizon.
func EndDate(cadence models.Cadence, duration int, start time.Time) time.Time {
	return advance(start, cadence, duration)
}

// advance moves start forward by n cadence units.
func advance(start time.Time, cadence models.Cadence, n int) time.Time {
	switch cadence {
	case models.CadenceDaily:
		return start.AddDate(0, 0, n)
	case models.CadenceWeekly:
		return start.AddDate(0, 0, 7*n)
	case models.CadenceMonthly:
		return start.AddDate(0, n, 0)
	}
	return start
}
