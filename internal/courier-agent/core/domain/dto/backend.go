package dto

import "time"

// Request/response bodies for the dispatch backend REST surface.

type PositionReport struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	PlaceName string  `json:"place_name,omitempty"`
	SentAt    string  `json:"sent_at"`
}

type PositionReportResponse struct {
	Coordinate_id string `json:"coordinate_id"`
	Updated_at    string `json:"updated_at"`
}

type HeartbeatRequest struct {
	Driver_id string `json:"driver_id"`
	SentAt    string `json:"sent_at"`
}

type PendingOffer struct {
	Order_id       string    `json:"order_id"`
	DistanceKm     float64   `json:"distance_km"`
	OfferedAt      time.Time `json:"offered_at"`
	TimeoutSeconds int       `json:"timeout_seconds"`
}

type PendingOffersResponse struct {
	Offers []PendingOffer `json:"offers"`
}

type OfferResolution struct {
	Order_id  string  `json:"order_id"`
	Accepted  bool    `json:"accepted"`
	Latitude  float64 `json:"latitude,omitempty"`
	Longitude float64 `json:"longitude,omitempty"`
}

type OfferResolutionResponse struct {
	Order_id string `json:"order_id"`
	Status   string `json:"status"`
	Message  string `json:"message"`
}
