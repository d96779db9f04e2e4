package cache

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/davidhyman/green-lane-json/internal/ports"
)

// FSCache stores encoded tiles as files under <root>/<week bucket>/. Tile
// data lands in a .pbf file; a tile the upstream reported missing leaves an
// empty .empty marker file so the 404 is not re-fetched within the epoch.
type FSCache struct {
	root string
	now  func() time.Time
}

func NewFSCache(root string) *FSCache {
	return &FSCache{root: root, now: time.Now}
}

func (c *FSCache) paths(key string) (dataPath, emptyPath string) {
	dir := filepath.Join(c.root, weekBucket(c.now()))
	name := sanitizeKey(key)
	return filepath.Join(dir, name+".pbf"), filepath.Join(dir, name+".empty")
}

func (c *FSCache) Get(ctx context.Context, key string) (ports.EncodedTile, bool, error) {
	dataPath, emptyPath := c.paths(key)

	if _, err := os.Stat(emptyPath); err == nil {
		return ports.EncodedTile{NotFound: true}, true, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return ports.EncodedTile{}, false, fmt.Errorf("stat cache marker %s: %w", emptyPath, err)
	}

	data, err := os.ReadFile(dataPath)
	if errors.Is(err, fs.ErrNotExist) {
		return ports.EncodedTile{}, false, nil
	}
	if err != nil {
		return ports.EncodedTile{}, false, fmt.Errorf("read cached tile %s: %w", dataPath, err)
	}

	return ports.EncodedTile{Data: data}, true, nil
}

func (c *FSCache) Put(ctx context.Context, key string, tile ports.EncodedTile) error {
	dataPath, emptyPath := c.paths(key)

	if err := os.MkdirAll(filepath.Dir(dataPath), 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}

	if tile.NotFound {
		if err := os.WriteFile(emptyPath, nil, 0o644); err != nil {
			return fmt.Errorf("write cache marker %s: %w", emptyPath, err)
		}
		return nil
	}

	if err := os.WriteFile(dataPath, tile.Data, 0o644); err != nil {
		return fmt.Errorf("write cached tile %s: %w", dataPath, err)
	}
	return nil
}
