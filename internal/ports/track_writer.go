package ports

import (
	"context"

	"github.com/davidhyman/green-lane-json/internal/domain"
)

// Port: serializes a track collection to a named file. The collection
// dictates structure only; the encoding is the implementation's choice.
type TrackWriter interface {
	Write(ctx context.Context, tc *domain.TrackCollection) error
}
