package services

import (
	"fmt"
	"math"

	"github.com/davidhyman/green-lane-json/internal/domain"
	"github.com/davidhyman/green-lane-json/internal/ports"
)

// Reconstruct turns per-tile decoded records into unique domain Features.
//
// Tiles duplicate features that cross a tile boundary, so records sharing a
// GRMUID are merged: the first-seen instance wins (outcomes arrive in tile
// order, which makes this deterministic) and the duplicate count is
// returned for the run report.
//
// Malformed records (unparseable classification, geometry without lines)
// abort reconstruction: silent data corruption is worse than stopping.
func Reconstruct(outcomes []TileOutcome) ([]*domain.Feature, int, error) {
	byID := make(map[int64]*domain.Feature)
	features := make([]*domain.Feature, 0)
	duplicates := 0

	for _, outcome := range outcomes {
		if outcome.Err != nil || outcome.Empty {
			continue
		}
		for _, raw := range outcome.Features {
			f, err := buildFeature(raw)
			if err != nil {
				return nil, 0, fmt.Errorf("reconstruct tile %s: %w", outcome.Tile, err)
			}
			if _, seen := byID[f.GRMUID]; seen {
				duplicates++
				continue
			}
			byID[f.GRMUID] = f
			features = append(features, f)
		}
	}

	return features, duplicates, nil
}

func buildFeature(raw ports.RawFeature) (*domain.Feature, error) {
	// Only line geometries are supported; for multi-line geometries the
	// first sub-line is used and the rest are dropped.
	if len(raw.Lines) == 0 {
		return nil, fmt.Errorf("unsupported geometry %q for feature %d", raw.GeometryType, raw.ID)
	}
	line := raw.Lines[0]
	if len(line) == 0 {
		return nil, fmt.Errorf("feature %d has an empty coordinate sequence", raw.ID)
	}

	classValue, ok := propString(raw.Properties, "class")
	if !ok {
		return nil, fmt.Errorf("feature %d is missing the class property", raw.ID)
	}
	class, err := domain.ParseClassification(classValue)
	if err != nil {
		return nil, fmt.Errorf("feature %d: %w", raw.ID, err)
	}

	// Prefer the catalogue's own identifier; fall back to the tile
	// feature id when it is absent.
	grmuid, ok := propInt64(raw.Properties, "grmuid")
	if !ok {
		grmuid = raw.ID
	}
	if grmuid == 0 {
		return nil, fmt.Errorf("feature has neither a grmuid property nor a tile id")
	}

	name, ok := propString(raw.Properties, "name")
	if !ok {
		name = "unknown name"
	}
	message, ok := propString(raw.Properties, "membermessage")
	if !ok {
		message = "unknown message"
	}
	length, _ := propInt64(raw.Properties, "length")

	return &domain.Feature{
		GRMUID:         grmuid,
		Class:          class,
		Name:           name,
		MemberMessage:  message,
		Coords:         line,
		LengthMeters:   int(length),
		OriginalPoints: len(line),
	}, nil
}

func propString(props map[string]any, key string) (string, bool) {
	v, ok := props[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// propInt64 accepts the numeric representations a vector tile value can
// decode to.
func propInt64(props map[string]any, key string) (int64, bool) {
	switch v := props[key].(type) {
	case int64:
		return v, true
	case uint64:
		return int64(v), true
	case int:
		return int64(v), true
	case float64:
		return int64(math.Round(v)), true
	case float32:
		return int64(math.Round(float64(v))), true
	}
	return 0, false
}
