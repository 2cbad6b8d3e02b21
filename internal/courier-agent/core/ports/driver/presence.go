package driver

import (
	"context"

	"courier-agent/internal/courier-agent/core/domain/model"
)

// IPresenceService is what the UI layer calls to toggle driver presence
// and to read the reporter's state.
type IPresenceService interface {
	SetPresence(ctx context.Context, available, onDelivery bool) error
	Mode() model.OperationalMode
	RetryGps(ctx context.Context) error
	GpsDisabled() bool
	LastKnown() (sample model.PositionSample, placeName string, ok bool)
}
