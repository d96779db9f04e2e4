package services

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/simplify"

	"github.com/davidhyman/green-lane-json/internal/domain"
)

// Simplify reduces every feature's coordinate sequence with Douglas-Peucker
// at the given maximum deviation tolerance, in degrees. Tolerance in degree
// space is not geodesically uniform across latitudes; accepted, the output
// feeds GPS devices that care about point count more than sub-meter shape.
// First and last points are always retained.
//
// Returns the total point counts before and after, for the compression
// report.
func Simplify(features []*domain.Feature, toleranceDeg float64) (before, after int) {
	dp := simplify.DouglasPeucker(toleranceDeg)

	for _, f := range features {
		before += len(f.Coords)
		if len(f.Coords) < 3 {
			after += len(f.Coords)
			continue
		}

		line := make(orb.LineString, len(f.Coords))
		for i, c := range f.Coords {
			line[i] = orb.Point{c.Lon, c.Lat}
		}

		reduced := dp.Simplify(line).(orb.LineString)

		f.Coords = f.Coords[:0]
		for _, p := range reduced {
			f.Coords = append(f.Coords, domain.Coordinate{Lat: p[1], Lon: p[0]})
		}
		after += len(f.Coords)
	}

	return before, after
}
