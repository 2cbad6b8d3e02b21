package services

import (
	"context"
	"sync"

	"courier-agent/internal/courier-agent/core/domain/model"
	"courier-agent/internal/courier-agent/core/ports/driven"
	"courier-agent/internal/mylogger"
)

// CachedGeocoder wraps the reverse-geocode primitive with an in-memory
// cache keyed by the 4-decimal coordinate grid. Entries live for the
// process lifetime; the key space per session is naturally small, so there
// is no eviction. It never fails outward: a lookup failure falls back to
// the formatted coordinate string.
type CachedGeocoder struct {
	geocoder driven.IGeocoder
	log      mylogger.Logger

	mu    sync.RWMutex
	cache map[string]string
}

func NewCachedGeocoder(geocoder driven.IGeocoder, log mylogger.Logger) *CachedGeocoder {
	return &CachedGeocoder{
		geocoder: geocoder,
		log:      log,
		cache:    make(map[string]string),
	}
}

func (c *CachedGeocoder) ResolvePlaceName(ctx context.Context, lat, lon float64) string {
	key := model.GeocodeKey(lat, lon)

	c.mu.RLock()
	name, ok := c.cache[key]
	c.mu.RUnlock()
	if ok {
		GeocodeLookupsTotal.WithLabelValues("hit").Inc()
		return name
	}

	name, err := c.geocoder.ResolvePlaceName(ctx, lat, lon)
	if err != nil || name == "" {
		if err != nil {
			c.log.Action("geocode").Warn("reverse geocode failed, using coordinates", "key", key)
		}
		name = model.PositionSample{Latitude: lat, Longitude: lon}.CoordinateString()
		GeocodeLookupsTotal.WithLabelValues("fallback").Inc()
	} else {
		GeocodeLookupsTotal.WithLabelValues("miss").Inc()
	}

	// The fallback string is cached as well: one resolution per grid cell,
	// whatever its shape.
	c.mu.Lock()
	c.cache[key] = name
	c.mu.Unlock()

	return name
}

// CacheSize is used by the status endpoint.
func (c *CachedGeocoder) CacheSize() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}
