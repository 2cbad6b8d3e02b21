package driven

import "context"

// IGeocoder resolves a coordinate into a human readable place name.
type IGeocoder interface {
	ResolvePlaceName(ctx context.Context, lat, lon float64) (string, error)
}
