package model

import (
	"testing"
	"time"
)

func TestDeriveMode(t *testing.T) {
	cases := []struct {
		name       string
		available  bool
		onDelivery bool
		want       OperationalMode
	}{
		{"offline", false, false, ModeInactive},
		{"offline overrides delivery flag", false, true, ModeInactive},
		{"available idle", true, false, ModeActiveIdle},
		{"available on delivery", true, true, ModeOnDelivery},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DeriveMode(tc.available, tc.onDelivery); got != tc.want {
				t.Errorf("DeriveMode(%v, %v) = %v, want %v", tc.available, tc.onDelivery, got, tc.want)
			}
		})
	}
}

func TestReportIntervalsFor(t *testing.T) {
	intervals := DefaultReportIntervals()
	if got := intervals.For(ModeActiveIdle); got != 3*time.Minute {
		t.Errorf("idle interval = %v, want 3m", got)
	}
	if got := intervals.For(ModeOnDelivery); got != time.Minute {
		t.Errorf("delivery interval = %v, want 1m", got)
	}
	if got := intervals.For(ModeInactive); got != 0 {
		t.Errorf("inactive interval = %v, want 0", got)
	}
}
