// Package tilegrid converts between geographic degrees, slippy-map tile
// indices at a fixed zoom level, and tile-local pixel coordinates.
package tilegrid

import (
	"fmt"
	"math"

	"github.com/davidhyman/green-lane-json/internal/domain"
	"github.com/davidhyman/green-lane-json/internal/geodesy"
)

// Extent is the fixed tile-local coordinate grid size used by the upstream
// vector tiles.
const Extent = 4096

// Identifies one map tile at a zoom level. Equality is by value.
type TileIndex struct {
	Zoom int
	X    int
	Y    int
}

func (t TileIndex) String() string {
	return fmt.Sprintf("%d/%d/%d", t.Zoom, t.X, t.Y)
}

// DegreesToTile maps a coordinate to the tile containing it, using the
// standard slippy-map projection. It must select the same tile the provider
// does; boundary effects are handled by CoverRadius padding, never here.
func DegreesToTile(lat, lon float64, zoom int) TileIndex {
	n := float64(int(1) << zoom)
	x := int((lon + 180.0) / 360.0 * n)
	latRad := lat * math.Pi / 180
	y := int((1.0 - math.Asinh(math.Tan(latRad))/math.Pi) / 2.0 * n)
	return TileIndex{Zoom: zoom, X: x, Y: y}
}

// TileToDegrees returns the coordinate of the tile's north-west corner.
func TileToDegrees(t TileIndex) domain.Coordinate {
	n := float64(int(1) << t.Zoom)
	lon := float64(t.X)/n*360.0 - 180.0
	latRad := math.Atan(math.Sinh(math.Pi * (1 - 2*float64(t.Y)/n)))
	return domain.Coordinate{Lat: latRad * 180 / math.Pi, Lon: lon}
}

// PixelToDegrees maps a tile-local pixel coordinate (0..extent) to a
// geographic coordinate. Pixel Y grows downward while latitude grows
// upward, so py=0 is the tile's northern edge.
func PixelToDegrees(t TileIndex, px, py, extent float64) domain.Coordinate {
	n := float64(int(1) << t.Zoom)
	xt := float64(t.X) + px/extent
	yt := float64(t.Y) + py/extent
	lon := xt/n*360.0 - 180.0
	latRad := math.Atan(math.Sinh(math.Pi * (1 - 2*yt/n)))
	return domain.Coordinate{Lat: latRad * 180 / math.Pi, Lon: lon}
}

// CoverRadius resolves the set of tiles covering a circle of the given
// radius in meters around center. The four geodesic extreme points at
// bearings 0/90/180/270 bound an inclusive tile rectangle, widened by one
// tile in each direction: we're looking at corners, not centers, so pad
// rather than compute exact corner inclusion. Growth is quadratic in the
// radius at fixed zoom; callers should check the count against their
// request budget before fetching.
func CoverRadius(center domain.Coordinate, radiusMeters float64, zoom int) []TileIndex {
	north := geodesy.Forward(center, 0, radiusMeters)
	east := geodesy.Forward(center, 90, radiusMeters)
	south := geodesy.Forward(center, 180, radiusMeters)
	west := geodesy.Forward(center, 270, radiusMeters)

	x0 := DegreesToTile(west.Lat, west.Lon, zoom).X - 1
	x1 := DegreesToTile(east.Lat, east.Lon, zoom).X + 1
	y0 := DegreesToTile(north.Lat, north.Lon, zoom).Y - 1
	y1 := DegreesToTile(south.Lat, south.Lon, zoom).Y + 1

	maxTile := (int(1) << zoom) - 1
	x0 = clamp(x0, 0, maxTile)
	x1 = clamp(x1, 0, maxTile)
	y0 = clamp(y0, 0, maxTile)
	y1 = clamp(y1, 0, maxTile)

	tiles := make([]TileIndex, 0, (x1-x0+1)*(y1-y0+1))
	for x := x0; x <= x1; x++ {
		for y := y0; y <= y1; y++ {
			tiles = append(tiles, TileIndex{Zoom: zoom, X: x, Y: y})
		}
	}
	return tiles
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
