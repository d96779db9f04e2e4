package services

import (
	"context"
	"fmt"
	"log"

	"github.com/davidhyman/green-lane-json/internal/domain"
	"github.com/davidhyman/green-lane-json/internal/platform/obs"
	"github.com/davidhyman/green-lane-json/internal/ports"
	"github.com/davidhyman/green-lane-json/internal/tilegrid"
)

// Extractor runs the tile acquisition and geometry reduction pipeline:
// resolve the bounding tile set, fetch and decode under bounded
// concurrency, reconstruct unique features, filter by geodesic distance,
// and simplify the survivors.
//
// The zoom level is fixed for a whole run: higher zoom means more precise
// tile-local coordinates but quadratically more requests.
type Extractor struct {
	Source  ports.TileSource
	Cache   ports.TileCache
	Decoder ports.TileDecoder

	Zoom              int
	Concurrency       int
	MaxTiles          int
	SimplifyTolerance float64
}

// Result of one extraction: the selected features, nearest first, already
// simplified, plus the run report.
type Result struct {
	Features []*domain.Feature
	Report   Report
}

func (e *Extractor) Extract(
	ctx context.Context,
	center domain.Coordinate,
	radiusMeters float64,
) (_ *Result, err error) {
	defer obs.Time("extract")(&err)

	tiles := tilegrid.CoverRadius(center, radiusMeters, e.Zoom)
	if e.MaxTiles > 0 && len(tiles) > e.MaxTiles {
		return nil, fmt.Errorf(
			"extract: %d tiles needed for radius %.0fm at zoom %d, budget is %d (reduce the radius or the zoom)",
			len(tiles), radiusMeters, e.Zoom, e.MaxTiles,
		)
	}
	log.Printf("fetching tiles=%d zoom=%d concurrency=%d", len(tiles), e.Zoom, e.Concurrency)

	outcomes := FetchTiles(ctx, tiles, e.Source, e.Cache, e.Decoder, e.Concurrency)

	report := Report{TilesRequested: len(tiles)}
	for _, o := range outcomes {
		switch {
		case o.Err != nil:
			report.TilesFailed++
			log.Printf("tile failed tile=%s err=%v", o.Tile, o.Err)
		case o.Empty:
			report.TilesEmpty++
		default:
			report.TilesOK++
		}
	}

	features, duplicates, err := Reconstruct(outcomes)
	if err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}
	report.DuplicateFeatures = duplicates
	report.FeaturesTotal = len(features)

	if err := ComputeDistances(features, center); err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}
	keep, err := WithinRadius(features, radiusMeters)
	if err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}
	report.FeaturesSelected = len(keep)
	for _, f := range keep {
		report.LengthMeters += f.LengthMeters
	}

	report.PointsBefore, report.PointsAfter = Simplify(keep, e.SimplifyTolerance)

	return &Result{Features: keep, Report: report}, nil
}
