package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/davidhyman/green-lane-json/internal/ports"
)

// PostgresCache stores encoded tiles in a tile_cache table keyed by
// (bucket, key). Useful when several machines share one cache, e.g. a
// scheduled exporter fleet.
type PostgresCache struct {
	DB  *sql.DB
	now func() time.Time
}

func NewPostgresCache(db *sql.DB) *PostgresCache {
	return &PostgresCache{DB: db, now: time.Now}
}

// InitSchema creates the tile_cache table if it is missing.
func InitSchema(ctx context.Context, db *sql.DB) error {
	q := `
	CREATE TABLE IF NOT EXISTS tile_cache (
		bucket     TEXT        NOT NULL,
		key        TEXT        NOT NULL,
		empty      BOOLEAN     NOT NULL,
		body       BYTEA,
		fetched_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (bucket, key)
	);
	`
	if _, err := db.ExecContext(ctx, q); err != nil {
		return fmt.Errorf("init tile_cache schema: %w", err)
	}
	return nil
}

func (c *PostgresCache) Get(ctx context.Context, key string) (ports.EncodedTile, bool, error) {
	if c.DB == nil {
		return ports.EncodedTile{}, false, errors.New("tile cache: db is nil")
	}

	q := `
	SELECT empty, body
	FROM tile_cache
	WHERE bucket = $1 AND key = $2;
	`

	var (
		empty bool
		body  []byte
	)
	err := c.DB.QueryRowContext(ctx, q, weekBucket(c.now()), key).Scan(&empty, &body)
	if errors.Is(err, sql.ErrNoRows) {
		return ports.EncodedTile{}, false, nil
	}
	if err != nil {
		return ports.EncodedTile{}, false, fmt.Errorf("get tile cache %q: %w", key, err)
	}

	if empty {
		return ports.EncodedTile{NotFound: true}, true, nil
	}
	return ports.EncodedTile{Data: body}, true, nil
}

func (c *PostgresCache) Put(ctx context.Context, key string, tile ports.EncodedTile) error {
	if c.DB == nil {
		return errors.New("tile cache: db is nil")
	}

	q := `
	INSERT INTO tile_cache (bucket, key, empty, body)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (bucket, key) DO UPDATE
	SET empty = EXCLUDED.empty,
		body = EXCLUDED.body,
		fetched_at = now();
	`

	var body []byte
	if !tile.NotFound {
		body = tile.Data
	}

	if _, err := c.DB.ExecContext(ctx, q, weekBucket(c.now()), key, tile.NotFound, body); err != nil {
		return fmt.Errorf("insert tile cache %q: %w", key, err)
	}
	return nil
}
