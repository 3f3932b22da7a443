package pull

import (
	"math"
	"testing"
)

func TestPulledDistance(t *testing.T) {
	tests := []struct {
		raw, resistance, threshold float64
		want                       float64
	}{
		{50, 2.5, 72, 20},
		{180, 2.5, 72, 72},
		{1000, 2.5, 72, 72},
		{10, 1, 72, 10},
		{30, 3, 5, 5},
	}
	for _, tt := range tests {
		got := PulledDistance(tt.raw, tt.resistance, tt.threshold)
		if got != tt.want {
			t.Fatalf("PulledDistance(%v, %v, %v) = %v, want %v", tt.raw, tt.resistance, tt.threshold, got, tt.want)
		}
	}
}

func TestPctPulledClamps(t *testing.T) {
	if got := PctPulled(36, 72); got != 0.5 {
		t.Fatalf("expected 0.5, got %v", got)
	}
	if got := PctPulled(100, 72); got != 1 {
		t.Fatalf("expected clamp to 1, got %v", got)
	}
	if got := PctPulled(-5, 72); got != 0 {
		t.Fatalf("expected clamp to 0, got %v", got)
	}
	if got := PctPulled(math.NaN(), 72); got != 0 {
		t.Fatalf("expected NaN to map to 0, got %v", got)
	}
	if got := PctPulled(5, 0); got != 0 {
		t.Fatalf("expected 0 for zero threshold, got %v", got)
	}
}

func TestStatusHelpers(t *testing.T) {
	if !StatusRefreshing.Spinning() || !StatusRefreshCompleted.Spinning() || StatusPulling.Spinning() {
		t.Fatalf("unexpected spinning states")
	}
	if !StatusPullAborted.Resetting() || !StatusRefreshCompleted.Resetting() || StatusRefreshing.Resetting() {
		t.Fatalf("unexpected resetting states")
	}
}
