// Package geocode resolves UK postcodes to coordinates via postcodes.io.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/davidhyman/green-lane-json/internal/domain"
	"github.com/davidhyman/green-lane-json/internal/ports"
)

// ErrUnknownPostcode reports a postcode the service has no record of, as
// opposed to a transport or service failure.
var ErrUnknownPostcode = errors.New("unknown postcode")

type postcodeResponse struct {
	Result struct {
		Postcode      string  `json:"postcode"`
		Latitude      float64 `json:"latitude"`
		Longitude     float64 `json:"longitude"`
		AdminDistrict string  `json:"admin_district"`
	} `json:"result"`
}

// PostcodesClient implements ports.Geocoder against the free postcodes.io
// lookup API. No API key is required.
type PostcodesClient struct {
	session *http.Client
	baseURL string
}

func NewPostcodesClient() *PostcodesClient {
	return &PostcodesClient{
		session: &http.Client{Timeout: 10 * time.Second},
		baseURL: "https://api.postcodes.io",
	}
}

func (c *PostcodesClient) Geocode(ctx context.Context, postcode string) (ports.GeocodeResult, error) {
	normalized := strings.Join(strings.Fields(postcode), " ")
	if normalized == "" {
		return ports.GeocodeResult{}, errors.New("geocode: postcode must be non-empty")
	}

	endpoint := c.baseURL + "/postcodes/" + url.PathEscape(normalized)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return ports.GeocodeResult{}, fmt.Errorf("geocode: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.session.Do(req)
	if err != nil {
		return ports.GeocodeResult{}, fmt.Errorf("geocode %q: %w", normalized, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ports.GeocodeResult{}, fmt.Errorf("geocode %q: %w", normalized, ErrUnknownPostcode)
	}
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return ports.GeocodeResult{}, fmt.Errorf(
			"geocode %q: unexpected status %d: %s",
			normalized, resp.StatusCode, strings.TrimSpace(string(b)),
		)
	}

	var decoded postcodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return ports.GeocodeResult{}, fmt.Errorf("geocode %q: decode response: %w", normalized, err)
	}

	place := decoded.Result.Postcode
	if decoded.Result.AdminDistrict != "" {
		place = fmt.Sprintf("%s (%s)", decoded.Result.Postcode, decoded.Result.AdminDistrict)
	}

	return ports.GeocodeResult{
		Location: domain.Coordinate{
			Lat: decoded.Result.Latitude,
			Lon: decoded.Result.Longitude,
		},
		Place: place,
	}, nil
}
