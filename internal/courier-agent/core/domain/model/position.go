package model

import (
	"fmt"
	"time"
)

// PositionSample is the device position at a single reporting tick. Samples
// are never queued, each tick replaces the previous one.
type PositionSample struct {
	Latitude   float64
	Longitude  float64
	CapturedAt time.Time
}

// CoordinateString is the fallback place name when reverse geocoding fails.
func (p PositionSample) CoordinateString() string {
	return fmt.Sprintf("%.6f, %.6f", p.Latitude, p.Longitude)
}

// GeocodeKey rounds the position onto a 4-decimal grid (~11 m cells) so
// nearby samples hit the same reverse-geocode cache entry.
func GeocodeKey(lat, lon float64) string {
	return fmt.Sprintf("%.4f:%.4f", lat, lon)
}
