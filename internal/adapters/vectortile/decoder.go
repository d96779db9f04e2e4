// Package vectortile decodes Mapbox vector tile protobufs into raw feature
// records with geographic coordinates.
package vectortile

import (
	"bytes"
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/mvt"

	"github.com/davidhyman/green-lane-json/internal/domain"
	"github.com/davidhyman/green-lane-json/internal/ports"
	"github.com/davidhyman/green-lane-json/internal/tilegrid"
)

var gzipMagic = []byte{0x1f, 0x8b}

// Decoder implements ports.TileDecoder for one named layer. The green road
// dataset publishes a single layer per tile; a tile without that layer is a
// data problem worth failing loudly on.
type Decoder struct {
	layerName string
}

func NewDecoder(layerName string) *Decoder {
	return &Decoder{layerName: layerName}
}

// Decode unmarshals the tile and converts every feature's geometry from
// tile-local pixel space to degrees via the supplied transform. Geometry
// stays untouched otherwise: ordering, sub-line structure and properties
// all pass through for reconstruction to interpret.
func (d *Decoder) Decode(data []byte, transform ports.PixelTransform) ([]ports.RawFeature, error) {
	var (
		layers mvt.Layers
		err    error
	)
	if bytes.HasPrefix(data, gzipMagic) {
		layers, err = mvt.UnmarshalGzipped(data)
	} else {
		layers, err = mvt.Unmarshal(data)
	}
	if err != nil {
		return nil, fmt.Errorf("unmarshal tile: %w", err)
	}

	var layer *mvt.Layer
	for _, l := range layers {
		if l.Name == d.layerName {
			layer = l
			break
		}
	}
	if layer == nil {
		return nil, fmt.Errorf("tile has no layer %q", d.layerName)
	}
	// The pixel transform assumes the standard extent; a layer encoded at a
	// different resolution would silently land everywhere else on the map.
	if layer.Extent != tilegrid.Extent {
		return nil, fmt.Errorf("layer %q has extent %d, want %d", layer.Name, layer.Extent, tilegrid.Extent)
	}

	out := make([]ports.RawFeature, 0, len(layer.Features))
	for _, f := range layer.Features {
		raw := ports.RawFeature{
			ID:           featureID(f.ID),
			GeometryType: f.Geometry.GeoJSONType(),
			Properties:   f.Properties,
		}

		switch g := f.Geometry.(type) {
		case orb.LineString:
			raw.Lines = [][]domain.Coordinate{convertLine(g, transform)}
		case orb.MultiLineString:
			for _, line := range g {
				raw.Lines = append(raw.Lines, convertLine(line, transform))
			}
		}

		out = append(out, raw)
	}

	return out, nil
}

func convertLine(line orb.LineString, transform ports.PixelTransform) []domain.Coordinate {
	coords := make([]domain.Coordinate, len(line))
	for i, p := range line {
		coords[i] = transform(p[0], p[1])
	}
	return coords
}

// featureID copes with the numeric types a decoded tile id can carry.
func featureID(id any) int64 {
	switch v := id.(type) {
	case int64:
		return v
	case uint64:
		return int64(v)
	case int:
		return int64(v)
	case float64:
		return int64(math.Round(v))
	}
	return 0
}
