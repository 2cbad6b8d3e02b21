package driver

import "context"

// OfferSnapshot is the UI view of the pending offer.
type OfferSnapshot struct {
	Order_id         string  `json:"order_id"`
	DistanceKm       float64 `json:"distance_km"`
	RemainingSeconds int     `json:"remaining_seconds"`
	TotalSeconds     int     `json:"total_seconds"`
}

// IOfferService resolves the pending assignment offer.
type IOfferService interface {
	Accept(ctx context.Context) error
	Reject(ctx context.Context) error
	Pending() (OfferSnapshot, bool)
}
