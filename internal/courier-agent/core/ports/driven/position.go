package driven

import (
	"context"

	"courier-agent/internal/courier-agent/core/domain/model"
)

// IPositionProvider is the device position primitive. Failures are tagged
// with myerrors.ErrGpsUnavailable or myerrors.ErrPermissionDenied when the
// cause is known, anything else is treated as transient.
type IPositionProvider interface {
	AcquirePosition(ctx context.Context) (model.PositionSample, error)
}
