package model

import (
	"testing"
	"time"
)

func TestOfferRemainingAt(t *testing.T) {
	offeredAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	offer := AssignmentOffer{OrderID: "o1", OfferedAt: offeredAt, TimeoutSeconds: 45}

	if got := offer.RemainingAt(offeredAt); got != 45 {
		t.Errorf("remaining at issue time = %d, want 45", got)
	}
	if got := offer.RemainingAt(offeredAt.Add(10 * time.Second)); got != 35 {
		t.Errorf("remaining after 10s = %d, want 35", got)
	}
	if got := offer.RemainingAt(offeredAt.Add(2 * time.Minute)); got != 0 {
		t.Errorf("remaining after the window = %d, want clamped 0", got)
	}
}

func TestOfferUsable(t *testing.T) {
	offeredAt := time.Now()
	offer := AssignmentOffer{OfferedAt: offeredAt, TimeoutSeconds: 45}

	if !offer.Usable(offeredAt.Add(39*time.Second), 5) {
		t.Error("offer with 6s left should be usable at a 5s floor")
	}
	if offer.Usable(offeredAt.Add(42*time.Second), 5) {
		t.Error("offer with 3s left should not be usable at a 5s floor")
	}
}

func TestPositionStrings(t *testing.T) {
	p := PositionSample{Latitude: 43.238949, Longitude: 76.889709}
	if got := p.CoordinateString(); got != "43.238949, 76.889709" {
		t.Errorf("coordinate string = %q", got)
	}
	if got := GeocodeKey(43.23412, 76.95678); got != "43.2341:76.9568" {
		t.Errorf("geocode key = %q", got)
	}
}
