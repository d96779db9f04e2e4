// Package cache provides the tile cache backends: filesystem, Redis and
// Postgres. All backends bucket entries by ISO week so cached tiles go
// stale together and a fresh pull happens at most weekly.
package cache

import (
	"fmt"
	"strings"
	"time"
)

// weekBucket names the cache epoch for a point in time. Entries in
// different buckets never shadow each other, so week rollover behaves as a
// whole-cache invalidation without any deletion work.
func weekBucket(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("year_%d_week_%d", year, week)
}

// Tile keys carry the dataset id and slashes; flatten them for use as file
// names and key segments.
var keySanitizer = strings.NewReplacer("/", "_")

func sanitizeKey(key string) string {
	return keySanitizer.Replace(key)
}
