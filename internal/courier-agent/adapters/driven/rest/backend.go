package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"courier-agent/internal/courier-agent/core/domain/dto"
	"courier-agent/internal/courier-agent/core/domain/model"
	"courier-agent/internal/courier-agent/core/myerrors"
	"courier-agent/internal/courier-agent/core/ports/driven"
	"courier-agent/internal/mylogger"
)

const (
	positionPath  = "/drivers/%s/location"
	heartbeatPath = "/drivers/%s/heartbeat"
	offersPath    = "/drivers/%s/offers"
	resolvePath   = "/drivers/%s/offers/%s/resolve"
)

// DispatchBackend implements the marketplace REST surface over HTTP.
type DispatchBackend struct {
	client   *HTTPClient
	driverID string
	log      mylogger.Logger
}

var _ driven.IDispatchBackend = (*DispatchBackend)(nil)

func NewDispatchBackend(client *HTTPClient, driverID string, log mylogger.Logger) *DispatchBackend {
	return &DispatchBackend{
		client:   client,
		driverID: driverID,
		log:      log,
	}
}

func (b *DispatchBackend) ReportPosition(ctx context.Context, sample model.PositionSample, placeName string) error {
	body := dto.PositionReport{
		Latitude:  sample.Latitude,
		Longitude: sample.Longitude,
		PlaceName: placeName,
		SentAt:    time.Now().UTC().Format(time.RFC3339),
	}
	code, _, err := b.client.DoRequest(ctx, http.MethodPost, fmt.Sprintf(positionPath, b.driverID), body)
	if err != nil {
		return fmt.Errorf("%w: %v", myerrors.ErrNetworkTransient, err)
	}
	if code >= 400 {
		return fmt.Errorf("%w: position report status %d", myerrors.ErrNetworkTransient, code)
	}
	return nil
}

func (b *DispatchBackend) SendHeartbeat(ctx context.Context) error {
	body := dto.HeartbeatRequest{
		Driver_id: b.driverID,
		SentAt:    time.Now().UTC().Format(time.RFC3339),
	}
	code, _, err := b.client.DoRequest(ctx, http.MethodPost, fmt.Sprintf(heartbeatPath, b.driverID), body)
	if err != nil {
		return fmt.Errorf("%w: %v", myerrors.ErrNetworkTransient, err)
	}
	if code >= 400 {
		return fmt.Errorf("%w: heartbeat status %d", myerrors.ErrNetworkTransient, code)
	}
	return nil
}

func (b *DispatchBackend) AcceptOffer(ctx context.Context, orderID string, current model.PositionSample) error {
	body := dto.OfferResolution{
		Order_id:  orderID,
		Accepted:  true,
		Latitude:  current.Latitude,
		Longitude: current.Longitude,
	}
	code, data, err := b.client.DoRequest(ctx, http.MethodPost, fmt.Sprintf(resolvePath, b.driverID, orderID), body)
	if err != nil {
		return fmt.Errorf("%w: %v", myerrors.ErrNetworkTransient, err)
	}
	switch code {
	case http.StatusConflict:
		return myerrors.ErrOfferTaken
	case http.StatusGone:
		return myerrors.ErrOfferExpired
	}
	if code >= 400 {
		return fmt.Errorf("%w: accept status %d: %s", myerrors.ErrNetworkTransient, code, string(data))
	}
	return nil
}

func (b *DispatchBackend) RejectOffer(ctx context.Context, orderID string) error {
	body := dto.OfferResolution{
		Order_id: orderID,
		Accepted: false,
	}
	code, _, err := b.client.DoRequest(ctx, http.MethodPost, fmt.Sprintf(resolvePath, b.driverID, orderID), body)
	if err != nil {
		return fmt.Errorf("%w: %v", myerrors.ErrNetworkTransient, err)
	}
	if code >= 400 {
		return fmt.Errorf("%w: reject status %d", myerrors.ErrNetworkTransient, code)
	}
	return nil
}

func (b *DispatchBackend) GetPendingOffers(ctx context.Context) ([]model.AssignmentOffer, error) {
	code, data, err := b.client.DoRequest(ctx, http.MethodGet, fmt.Sprintf(offersPath, b.driverID), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", myerrors.ErrNetworkTransient, err)
	}
	if code >= 400 {
		return nil, fmt.Errorf("%w: pending offers status %d", myerrors.ErrNetworkTransient, code)
	}

	var response dto.PendingOffersResponse
	if err := json.Unmarshal(data, &response); err != nil {
		return nil, fmt.Errorf("unmarshaling pending offers: %w", err)
	}

	offers := make([]model.AssignmentOffer, 0, len(response.Offers))
	for _, o := range response.Offers {
		offers = append(offers, model.AssignmentOffer{
			OrderID:        o.Order_id,
			DistanceKm:     o.DistanceKm,
			OfferedAt:      o.OfferedAt,
			TimeoutSeconds: o.TimeoutSeconds,
		})
	}
	return offers, nil
}
