package ports

import (
	"context"

	"github.com/davidhyman/green-lane-json/internal/tilegrid"
)

// Raw tile payload from the upstream map service, or an explicit marker
// when the service has no data for the tile. NotFound tiles are cached
// like any other result so they are not re-requested within a cache epoch.
type EncodedTile struct {
	Data     []byte
	NotFound bool
}

// Contract for retrieving encoded tile content from the remote map service.
type TileSource interface {
	// Fetch one tile. An upstream not-found is returned as an EncodedTile
	// with NotFound set, not as an error.
	Fetch(ctx context.Context, t tilegrid.TileIndex) (EncodedTile, error)
	// Key derives the opaque cache request key for a tile, including any
	// versioning component of the upstream dataset identifier.
	Key(t tilegrid.TileIndex) string
}
