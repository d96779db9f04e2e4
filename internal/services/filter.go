package services

import (
	"fmt"
	"sort"

	"github.com/davidhyman/green-lane-json/internal/domain"
	"github.com/davidhyman/green-lane-json/internal/geodesy"
)

// ComputeDistances stores on every feature its geodesic distance from the
// feature's representative point to the search center. Each feature's
// distance is set exactly once.
func ComputeDistances(features []*domain.Feature, center domain.Coordinate) error {
	for _, f := range features {
		d, err := geodesy.Inverse(f.Centre(), center)
		if err != nil {
			return fmt.Errorf("distance for lane %d: %w", f.GRMUID, err)
		}
		if err := f.SetDistance(d); err != nil {
			return err
		}
	}
	return nil
}

// WithinRadius keeps the features whose stored distance does not exceed
// radiusMeters, sorted nearest first.
func WithinRadius(features []*domain.Feature, radiusMeters float64) ([]*domain.Feature, error) {
	keep := make([]*domain.Feature, 0, len(features))
	for _, f := range features {
		d, err := f.Distance()
		if err != nil {
			return nil, fmt.Errorf("lane %d: %w", f.GRMUID, err)
		}
		if d > radiusMeters {
			continue
		}
		keep = append(keep, f)
	}

	sort.Slice(keep, func(i, j int) bool {
		di, _ := keep[i].Distance()
		dj, _ := keep[j].Distance()
		if di != dj {
			return di < dj
		}
		return keep[i].GRMUID < keep[j].GRMUID
	})

	return keep, nil
}

// Partition evaluates every group rule against every feature. Groups are
// independent and non-exclusive: a feature matching several rules appears
// in each matching group. The second return value counts, per GRMUID, how
// many groups a feature landed in; entries above 1 are reported to the
// user, not treated as errors.
func Partition(
	features []*domain.Feature,
	rules map[string]domain.GroupRule,
) (map[string][]*domain.Feature, map[int64]int) {
	groups := make(map[string][]*domain.Feature, len(rules))
	membership := make(map[int64]int)

	for name, rule := range rules {
		members := make([]*domain.Feature, 0)
		for _, f := range features {
			if !rule.Matches(f) {
				continue
			}
			members = append(members, f)
			membership[f.GRMUID]++
		}
		groups[name] = members
	}

	return groups, membership
}
