// Package db opens the Postgres connection behind the shared tile cache.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Open connects to the tile cache database and verifies the connection.
// The exporter is a one-shot CLI whose only concurrent queries come from
// the bounded tile fan-out, so the pool stays small.
func Open(ctx context.Context, databaseURL string) (*sql.DB, error) {
	pool, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open tile cache database: %w", err)
	}

	pool.SetMaxOpenConns(4)
	pool.SetMaxIdleConns(2)
	pool.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.PingContext(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("verify tile cache database connection: %w", err)
	}

	return pool, nil
}
