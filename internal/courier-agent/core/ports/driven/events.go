package driven

import "context"

// Event is one inbound dispatch event, already decoded from the transport.
type Event struct {
	Type           string
	OrderID        string
	DistanceKm     float64
	TimeoutSeconds int
}

const (
	EventOfferCreated = "offer_created"
	EventOfferTaken   = "offer_taken"
)

// ISubscription is a scoped driver-room membership. Closing it unregisters
// the handler and leaves the room; Close is idempotent.
type ISubscription interface {
	Events() <-chan Event
	Close() error
}

// IEventChannel is the persistent push channel for dispatch events. The
// room is joined when the driver becomes available and left when not.
type IEventChannel interface {
	JoinDriverRoom(ctx context.Context, driverID string) (ISubscription, error)
	Close() error
}
