package ports

import "context"

// Port: key/value store for fetched tile content. Retention is the
// implementation's concern (a time-bucketed key namespace is the intended
// granularity). Implementations must be safe under concurrent reads and
// writes; duplicate writes to the same key are harmless redundancy.
type TileCache interface {
	// Get returns the cached tile and whether the key was present.
	Get(ctx context.Context, key string) (EncodedTile, bool, error)
	// Put stores a fetch result, including explicit not-found markers.
	Put(ctx context.Context, key string, tile EncodedTile) error
}
