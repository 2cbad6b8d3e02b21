package driven

import (
	"context"

	"courier-agent/internal/courier-agent/core/domain/model"
)

// IDispatchBackend is the marketplace REST surface the agent talks to.
// Accept failures are tagged myerrors.ErrOfferTaken / myerrors.ErrOfferExpired
// when the backend reports a lost race.
type IDispatchBackend interface {
	ReportPosition(ctx context.Context, sample model.PositionSample, placeName string) error
	SendHeartbeat(ctx context.Context) error
	AcceptOffer(ctx context.Context, orderID string, current model.PositionSample) error
	RejectOffer(ctx context.Context, orderID string) error
	GetPendingOffers(ctx context.Context) ([]model.AssignmentOffer, error)
}
