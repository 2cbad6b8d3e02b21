package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"courier-agent/internal/config"
	"courier-agent/internal/courier-agent/core/ports/driven"
)

// Geocoder asks a nominatim-style reverse endpoint for a display name.
// Empty results are not an error here, the cache layer formats the
// coordinate fallback.
type Geocoder struct {
	client  http.Client
	baseURL string
}

var _ driven.IGeocoder = (*Geocoder)(nil)

func NewGeocoder(cfg config.Geoconfig) *Geocoder {
	return &Geocoder{
		client:  http.Client{Timeout: cfg.GeocodeTimeout},
		baseURL: cfg.GeocodeURL,
	}
}

type reversePayload struct {
	DisplayName string `json:"display_name"`
}

func (g *Geocoder) ResolvePlaceName(ctx context.Context, lat, lon float64) (string, error) {
	q := url.Values{}
	q.Set("lat", fmt.Sprintf("%f", lat))
	q.Set("lon", fmt.Sprintf("%f", lon))
	q.Set("format", "jsonv2")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "courier-agent")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("reverse geocode: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("reverse geocode: status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	var payload reversePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	return payload.DisplayName, nil
}
