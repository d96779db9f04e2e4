package cache

import (
	"context"
	"testing"
	"time"

	"github.com/davidhyman/green-lane-json/internal/ports"
)

func TestFSCacheRoundTrip(t *testing.T) {
	c := NewFSCache(t.TempDir())
	ctx := context.Background()
	key := "trfgrm2023.grrtilesv6/11/1009/681"

	if _, ok, err := c.Get(ctx, key); err != nil || ok {
		t.Fatalf("fresh cache should miss cleanly, got ok=%v err=%v", ok, err)
	}

	want := ports.EncodedTile{Data: []byte{0x1a, 0x02, 0xff}}
	if err := c.Put(ctx, key, want); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, ok, err := c.Get(ctx, key)
	if err != nil || !ok {
		t.Fatalf("expected a hit, got ok=%v err=%v", ok, err)
	}
	if got.NotFound || string(got.Data) != string(want.Data) {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestFSCacheEmptyMarker(t *testing.T) {
	c := NewFSCache(t.TempDir())
	ctx := context.Background()
	key := "trfgrm2023.grrtilesv6/11/5/5"

	if err := c.Put(ctx, key, ports.EncodedTile{NotFound: true}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, ok, err := c.Get(ctx, key)
	if err != nil || !ok {
		t.Fatalf("expected a hit, got ok=%v err=%v", ok, err)
	}
	if !got.NotFound {
		t.Error("expected the NotFound marker back")
	}
}

func TestFSCacheWeekRollover(t *testing.T) {
	c := NewFSCache(t.TempDir())
	ctx := context.Background()
	key := "trfgrm2023.grrtilesv6/11/1/1"

	c.now = func() time.Time { return time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC) }
	if err := c.Put(ctx, key, ports.EncodedTile{Data: []byte{0x1}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A week later the entry no longer counts.
	c.now = func() time.Time { return time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC) }
	if _, ok, err := c.Get(ctx, key); err != nil || ok {
		t.Errorf("entry from the previous week should miss, got ok=%v err=%v", ok, err)
	}
}

func TestWeekBucket(t *testing.T) {
	// 2026-01-01 falls in ISO week 1 of 2026.
	got := weekBucket(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	if got != "year_2026_week_1" {
		t.Errorf("bucket = %q", got)
	}
}
