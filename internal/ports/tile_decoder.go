package ports

import "github.com/davidhyman/green-lane-json/internal/domain"

// PixelTransform maps a tile-local pixel coordinate to a geographic
// coordinate. The decoder applies it to every vertex it emits.
type PixelTransform func(px, py float64) domain.Coordinate

// One decoded record from a tile, prior to validation. Lines holds the
// geometry's line strings already transformed to geographic coordinates;
// it is empty for geometry types that carry no lines.
type RawFeature struct {
	ID           int64
	GeometryType string
	Lines        [][]domain.Coordinate
	Properties   map[string]any
}

// Contract for decoding an opaque tile payload into structured features.
type TileDecoder interface {
	Decode(data []byte, transform PixelTransform) ([]RawFeature, error)
}
