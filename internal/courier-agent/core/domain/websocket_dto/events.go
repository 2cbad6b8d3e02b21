package websocketdto

import "time"

// Event channel message types
const (
	MessageTypeAuth         = "auth"
	MessageTypeOfferCreated = "offer_created"
	MessageTypeOfferTaken   = "offer_taken"
	MessageTypePing         = "ping"
	MessageTypePong         = "pong"
	MessageTypeError        = "error"
)

// Base message structure
type WebSocketMessage struct {
	Type string `json:"type"`
}

// Authentication
type AuthMessage struct {
	WebSocketMessage
	Token string `json:"token"`
}

// New assignment offer pushed to the driver
type OfferCreatedMessage struct {
	WebSocketMessage
	MessageID      string    `json:"message_id"`
	OrderID        string    `json:"order_id"`
	DistanceKm     float64   `json:"distance_km"`
	OfferedAt      time.Time `json:"offered_at"`
	TimeoutSeconds int       `json:"timeout_seconds"`
}

// Offer claimed by another driver or withdrawn
type OfferTakenMessage struct {
	WebSocketMessage
	MessageID string `json:"message_id"`
	OrderID   string `json:"order_id"`
}

// Error message
type ErrorMessage struct {
	WebSocketMessage
	ErrorCode    string `json:"error_code"`
	ErrorMessage string `json:"error_message"`
}
