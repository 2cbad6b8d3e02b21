package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"courier-agent/internal/config"
	"courier-agent/internal/courier-agent/core/domain/model"
	"courier-agent/internal/courier-agent/core/myerrors"
	"courier-agent/internal/courier-agent/core/ports/driven"
)

// PositionProvider reads the current fix from the local location service
// over HTTP. The service answers 503 while GPS is switched off and 403
// while the location permission is revoked.
type PositionProvider struct {
	client http.Client
	url    string
}

var _ driven.IPositionProvider = (*PositionProvider)(nil)

func NewPositionProvider(cfg config.Geoconfig) *PositionProvider {
	return &PositionProvider{
		client: http.Client{Timeout: cfg.PositionTimeout},
		url:    cfg.PositionURL,
	}
}

type positionPayload struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (p *PositionProvider) AcquirePosition(ctx context.Context) (model.PositionSample, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return model.PositionSample{}, fmt.Errorf("build request: %w", err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return model.PositionSample{}, fmt.Errorf("%w: %v", myerrors.ErrNetworkTransient, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusServiceUnavailable:
		return model.PositionSample{}, myerrors.ErrGpsUnavailable
	case http.StatusForbidden:
		return model.PositionSample{}, myerrors.ErrPermissionDenied
	default:
		return model.PositionSample{}, fmt.Errorf("%w: status %d", myerrors.ErrNetworkTransient, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.PositionSample{}, fmt.Errorf("read body: %w", err)
	}
	var payload positionPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return model.PositionSample{}, fmt.Errorf("decode position: %w", err)
	}
	return model.PositionSample{
		Latitude:   payload.Latitude,
		Longitude:  payload.Longitude,
		CapturedAt: time.Now(),
	}, nil
}
