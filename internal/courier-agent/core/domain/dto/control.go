package dto

import "time"

// Control API payloads, consumed by the driver-facing UI shell.

type PresenceRequest struct {
	Available  bool `json:"available"`
	OnDelivery bool `json:"on_delivery"`
}

type StatusResponse struct {
	Driver_id        string         `json:"driver_id"`
	Mode             string         `json:"mode"`
	GpsDisabled      bool           `json:"gps_disabled"`
	LastLatitude     float64        `json:"last_latitude,omitempty"`
	LastLongitude    float64        `json:"last_longitude,omitempty"`
	LastPlaceName    string         `json:"last_place_name,omitempty"`
	GeocodeCacheSize int            `json:"geocode_cache_size"`
	PendingOffer     *OfferSnapshot `json:"pending_offer,omitempty"`
}

type OfferSnapshot struct {
	Order_id         string  `json:"order_id"`
	DistanceKm       float64 `json:"distance_km"`
	RemainingSeconds int     `json:"remaining_seconds"`
	TotalSeconds     int     `json:"total_seconds"`
}

// UiEvent is one queued notification for the UI to render: alerts,
// notices and navigation/refresh signals.
type UiEvent struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	Order_id string    `json:"order_id,omitempty"`
	At       time.Time `json:"at"`
}
