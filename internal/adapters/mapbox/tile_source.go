// Package mapbox fetches encoded vector tiles from the Mapbox v4 tile API.
package mapbox

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/davidhyman/green-lane-json/internal/ports"
	"github.com/davidhyman/green-lane-json/internal/tilegrid"
)

// TileSource implements ports.TileSource against the Mapbox vector tile
// endpoint. A missing tile (404) is a normal answer for sparse datasets and
// comes back as an EncodedTile with the NotFound marker set.
//
// The source is safe for concurrent use; requests share a rate limiter so
// the bounded fan-out upstream cannot trip the API's request quota.
type TileSource struct {
	session *http.Client
	limiter *rate.Limiter
	baseURL string
	dataset string
	apiKey  string
}

func NewTileSource(apiKey, dataset string, requestsPerSecond float64) (*TileSource, error) {
	if apiKey == "" {
		return nil, errors.New("mapbox api key is empty")
	}
	if dataset == "" {
		return nil, errors.New("mapbox dataset id is empty")
	}
	if requestsPerSecond <= 0 {
		requestsPerSecond = 10
	}

	return &TileSource{
		session: &http.Client{Timeout: 10 * time.Second},
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
		baseURL: "https://api.mapbox.com",
		dataset: dataset,
		apiKey:  apiKey,
	}, nil
}

// Key identifies a tile across cache backends. The dataset id is part of
// the key so switching datasets never serves stale tiles.
func (s *TileSource) Key(t tilegrid.TileIndex) string {
	return s.dataset + "/" + t.String()
}

func (s *TileSource) Fetch(ctx context.Context, t tilegrid.TileIndex) (ports.EncodedTile, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return ports.EncodedTile{}, fmt.Errorf("rate limit wait: %w", err)
	}

	url := fmt.Sprintf("%s/v4/%s/%d/%d/%d.vector.pbf", s.baseURL, s.dataset, t.Zoom, t.X, t.Y)

	resp, err := s.doWithRetry(ctx, func() (*http.Request, error) {
		return s.newRequest(ctx, url)
	})
	if err != nil {
		var he *httpStatusError
		if errors.As(err, &he) && he.Code == http.StatusNotFound {
			return ports.EncodedTile{NotFound: true}, nil
		}
		return ports.EncodedTile{}, fmt.Errorf("fetch tile %s: %w", t, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return ports.EncodedTile{}, fmt.Errorf("read tile %s body: %w", t, err)
	}
	if len(data) == 0 {
		return ports.EncodedTile{NotFound: true}, nil
	}

	return ports.EncodedTile{Data: data}, nil
}
