package ports

import (
	"context"

	"github.com/davidhyman/green-lane-json/internal/domain"
)

// A resolved postal code: the coordinate plus a locality label for logging.
type GeocodeResult struct {
	Location domain.Coordinate
	Place    string
}

// Contract for resolving a free-text postal code to a coordinate.
// An unrecognized code must surface as an error, never a default location.
type Geocoder interface {
	Geocode(ctx context.Context, postcode string) (GeocodeResult, error)
}
