package services

import (
	"context"
	"log"

	"golang.org/x/sync/errgroup"

	"github.com/davidhyman/green-lane-json/internal/domain"
	"github.com/davidhyman/green-lane-json/internal/ports"
	"github.com/davidhyman/green-lane-json/internal/tilegrid"
)

// Outcome of one tile's fetch-and-decode. Exactly one of Features, Empty
// or Err describes the result.
type TileOutcome struct {
	Tile     tilegrid.TileIndex
	Features []ports.RawFeature
	Empty    bool
	Err      error
}

// FetchTiles retrieves and decodes every tile in the set, cache-aside, with
// at most maxInFlight concurrent source fetches. Completion order across
// tiles is unspecified; the returned slice follows the input order and is
// only produced after every tile has finished (complete-set join).
//
// Per-tile failures are recorded on the outcome and never abort the other
// tiles; partial area coverage is acceptable under upstream failure.
func FetchTiles(
	ctx context.Context,
	tiles []tilegrid.TileIndex,
	source ports.TileSource,
	cache ports.TileCache,
	decoder ports.TileDecoder,
	maxInFlight int,
) []TileOutcome {
	if maxInFlight < 1 {
		maxInFlight = 1
	}

	outcomes := make([]TileOutcome, len(tiles))

	var g errgroup.Group
	g.SetLimit(maxInFlight)
	for i, t := range tiles {
		i, t := i, t
		g.Go(func() error {
			outcomes[i] = fetchOne(ctx, t, source, cache, decoder)
			return nil
		})
	}
	// Workers report failures via their outcome, never an error.
	_ = g.Wait()

	return outcomes
}

func fetchOne(
	ctx context.Context,
	t tilegrid.TileIndex,
	source ports.TileSource,
	cache ports.TileCache,
	decoder ports.TileDecoder,
) TileOutcome {
	key := source.Key(t)

	encoded, hit, err := cache.Get(ctx, key)
	if err != nil {
		// A broken cache read degrades to a miss; the fetch below still
		// produces a usable tile.
		log.Printf("tile cache read failed key=%s err=%v", key, err)
		hit = false
	}

	if !hit {
		encoded, err = source.Fetch(ctx, t)
		if err != nil {
			return TileOutcome{Tile: t, Err: err}
		}
		if err := cache.Put(ctx, key, encoded); err != nil {
			log.Printf("tile cache write failed key=%s err=%v", key, err)
		}
	}

	if encoded.NotFound {
		return TileOutcome{Tile: t, Empty: true}
	}

	transform := func(px, py float64) domain.Coordinate {
		return tilegrid.PixelToDegrees(t, px, py, tilegrid.Extent)
	}
	features, err := decoder.Decode(encoded.Data, transform)
	if err != nil {
		return TileOutcome{Tile: t, Err: err}
	}

	return TileOutcome{Tile: t, Features: features}
}
