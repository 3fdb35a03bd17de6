package progress

import "testing"

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name          string
		target        float64
		spent         float64
		wantPercent   float64
		wantRemaining float64
		wantStatus    Status
	}{
		{"nothing spent", 100000, 0, 0, 100000, StatusOnTrack},
		{"halfway", 100000, 50000, 50, 50000, StatusOnTrack},
		{"just below warning", 100000, 79999, 79.999, 20001, StatusOnTrack},
		{"exactly at warning threshold", 100000, 80000, 80, 20000, StatusWarning},
		{"inside warning band", 100000, 99999, 99.999, 1, StatusWarning},
		{"exactly at target", 100000, 100000, 100, 0, StatusExceeded},
		{"over target", 100000, 110000, 110, 0, StatusExceeded},
		{"zero target never divides by zero", 0, 500, 0, 0, StatusOnTrack},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Evaluate(tt.target, tt.spent)
			if got.Percent != tt.wantPercent {
				t.Errorf("Percent = %v, want %v", got.Percent, tt.wantPercent)
			}
			if got.Remaining != tt.wantRemaining {
				t.Errorf("Remaining = %v, want %v", got.Remaining, tt.wantRemaining)
			}
			if got.Status != tt.wantStatus {
				t.Errorf("Status = %v, want %v", got.Status, tt.wantStatus)
			}
		})
	}
}

func TestStatusMonotonicAcrossThresholds(t *testing.T) {
	rank := map[Status]int{StatusOnTrack: 0, StatusWarning: 1, StatusExceeded: 2}

	prev := StatusOnTrack
	for pct := 0.0; pct <= 150; pct += 0.5 {
		got := StatusOf(pct)
		if rank[got] < rank[prev] {
			t.Fatalf("status regressed from %v to %v at %.1f%%", prev, got, pct)
		}
		prev = got
	}
}

func TestRemainingNeverNegative(t *testing.T) {
	for _, spent := range []float64{0, 50, 100, 150, 1e9} {
		if got := Remaining(100, spent); got < 0 {
			t.Errorf("Remaining(100, %v) = %v, want >= 0", spent, got)
		}
	}
}
