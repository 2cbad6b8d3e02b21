package model

import "time"

// AssignmentOffer is a dispatch offer pushed to this driver. At most one
// offer is live per session, a newer offer replaces the pending one.
type AssignmentOffer struct {
	OrderID        string
	DistanceKm     float64
	OfferedAt      time.Time
	TimeoutSeconds int
}

// RemainingAt computes how many whole seconds of the decision window are
// left at the given instant. Negative results are clamped to zero.
func (o AssignmentOffer) RemainingAt(now time.Time) int {
	elapsed := int(now.Sub(o.OfferedAt) / time.Second)
	remaining := o.TimeoutSeconds - elapsed
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Usable reports whether the offer is still worth surfacing: a reconciled
// offer with less than minUsableSeconds left is treated as already expired.
func (o AssignmentOffer) Usable(now time.Time, minUsableSeconds int) bool {
	return o.RemainingAt(now) >= minUsableSeconds
}
