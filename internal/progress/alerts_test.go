package progress

import (
	"testing"
	"time"
)

func TestAlerts(t *testing.T) {
	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		target    float64
		spent     float64
		now       time.Time
		wantKinds []AlertKind
	}{
		{
			name:   "on track with sustainable rate",
			target: 100000,
			spent:  10000,
			// 10 days in: 1000/day, 21 days left, projected 21000 < 90000 remaining.
			now:       start.AddDate(0, 0, 10),
			wantKinds: nil,
		},
		{
			name:   "projection alert before threshold",
			target: 100000,
			spent:  60000,
			// 10 days in: 6000/day, 21 days left, projected 126000 > 40000 remaining.
			now:       start.AddDate(0, 0, 10),
			wantKinds: []AlertKind{AlertProjection},
		},
		{
			name:      "warning threshold suppresses projection",
			target:    100000,
			spent:     85000,
			now:       start.AddDate(0, 0, 10),
			wantKinds: []AlertKind{AlertThresholdWarning},
		},
		{
			name:      "exceeded threshold",
			target:    100000,
			spent:     110000,
			now:       start.AddDate(0, 0, 10),
			wantKinds: []AlertKind{AlertThresholdExceeded},
		},
		{
			name:   "no projection once the interval has ended",
			target: 100000,
			spent:  60000,
			now:    end.AddDate(0, 0, 5),
			// Still below the warning threshold, but no longer active.
			wantKinds: nil,
		},
		{
			name:   "first day counts as one elapsed day",
			target: 100000,
			spent:  70000,
			// Hours into day one: 70000/day over 30 remaining days overshoots.
			now:       start.Add(6 * time.Hour),
			wantKinds: []AlertKind{AlertProjection},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Alerts(tt.target, tt.spent, start, end, tt.now)
			if len(got) != len(tt.wantKinds) {
				t.Fatalf("got %d alerts (%v), want %d", len(got), got, len(tt.wantKinds))
			}
			for i, want := range tt.wantKinds {
				if got[i].Kind != want {
					t.Errorf("alert %d kind = %v, want %v", i, got[i].Kind, want)
				}
				if got[i].Message == "" {
					t.Errorf("alert %d has empty message", i)
				}
			}
		})
	}
}
