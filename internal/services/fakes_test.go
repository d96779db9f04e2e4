package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/davidhyman/green-lane-json/internal/ports"
	"github.com/davidhyman/green-lane-json/internal/tilegrid"
)

var errTest = errors.New("test failure")

// memCache is an in-memory TileCache for tests.
type memCache struct {
	mu sync.Mutex
	m  map[string]ports.EncodedTile
}

func newMemCache() *memCache {
	return &memCache{m: make(map[string]ports.EncodedTile)}
}

func (c *memCache) Get(ctx context.Context, key string) (ports.EncodedTile, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	tile, ok := c.m[key]
	return tile, ok, nil
}

func (c *memCache) Put(ctx context.Context, key string, tile ports.EncodedTile) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[key] = tile
	return nil
}

// scriptedSource serves canned responses per tile key and records fetch
// counts plus the maximum number of concurrent in-flight fetches.
type scriptedSource struct {
	mu          sync.Mutex
	tiles       map[string]ports.EncodedTile
	errs        map[string]error
	fetches     map[string]int
	delay       time.Duration
	inFlight    int
	maxInFlight int
}

func newScriptedSource() *scriptedSource {
	return &scriptedSource{
		tiles:   make(map[string]ports.EncodedTile),
		errs:    make(map[string]error),
		fetches: make(map[string]int),
	}
}

func (s *scriptedSource) Key(t tilegrid.TileIndex) string {
	return "test/" + t.String()
}

func (s *scriptedSource) Fetch(ctx context.Context, t tilegrid.TileIndex) (ports.EncodedTile, error) {
	key := s.Key(t)

	s.mu.Lock()
	s.fetches[key]++
	s.inFlight++
	if s.inFlight > s.maxInFlight {
		s.maxInFlight = s.inFlight
	}
	s.mu.Unlock()

	if s.delay > 0 {
		time.Sleep(s.delay)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight--

	if err, ok := s.errs[key]; ok {
		return ports.EncodedTile{}, err
	}
	if tile, ok := s.tiles[key]; ok {
		return tile, nil
	}
	return ports.EncodedTile{NotFound: true}, nil
}

func (s *scriptedSource) totalFetches() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.fetches {
		n += c
	}
	return n
}

// stubDecoder delegates to a function so each test scripts its own decode.
type stubDecoder struct {
	fn func(data []byte, transform ports.PixelTransform) ([]ports.RawFeature, error)
}

func (d *stubDecoder) Decode(data []byte, transform ports.PixelTransform) ([]ports.RawFeature, error) {
	return d.fn(data, transform)
}
