package domain

import (
	"errors"
	"fmt"
)

// Access classification of a route segment, as published in the upstream
// catalogue's "class" property.
type Classification string

const (
	ClassFullAccess    Classification = "full-access"
	ClassPartialAccess Classification = "partial-access"
	ClassDisputed      Classification = "disputed"
	ClassLinkRoad      Classification = "link_road_with_access"
	ClassTemporaryTRO  Classification = "temporary_tro"
	ClassRestricted    Classification = "restricted"
)

// ParseClassification maps an upstream class value to the enumerated set.
// Group membership policy depends on exhaustive classification, so an
// unrecognized value is an error rather than a silent default.
func ParseClassification(s string) (Classification, error) {
	switch c := Classification(s); c {
	case ClassFullAccess, ClassPartialAccess, ClassDisputed,
		ClassLinkRoad, ClassTemporaryTRO, ClassRestricted:
		return c, nil
	}
	return "", fmt.Errorf("parse classification: unknown class %q", s)
}

// Represents a single route segment ("green lane") from the upstream
// catalogue. A Feature is created once per unique GRMUID during
// reconstruction; its distance to the search center is set exactly once
// before filtering and is immutable afterward.
type Feature struct {
	GRMUID         int64
	Class          Classification
	Name           string
	MemberMessage  string
	Coords         []Coordinate
	LengthMeters   int
	OriginalPoints int

	distance    float64
	distanceSet bool
}

// Centre returns the feature's representative point: the middle element of
// its coordinate sequence. A cheap approximation, not a true centroid.
func (f *Feature) Centre() Coordinate {
	return f.Coords[len(f.Coords)/2]
}

// SetDistance records the geodesic distance in meters from the feature's
// representative point to the search center. It may be called only once.
func (f *Feature) SetDistance(meters float64) error {
	if f.distanceSet {
		return fmt.Errorf("feature %d: distance already set", f.GRMUID)
	}
	if meters < 0 {
		return fmt.Errorf("feature %d: negative distance %f", f.GRMUID, meters)
	}
	f.distance = meters
	f.distanceSet = true
	return nil
}

// Distance returns the stored distance to the search center in meters.
func (f *Feature) Distance() (float64, error) {
	if !f.distanceSet {
		return 0, errors.New("feature distance not computed")
	}
	return f.distance, nil
}

func (f *Feature) String() string {
	msg := f.MemberMessage
	if len(msg) > 64 {
		msg = msg[:64]
	}
	return fmt.Sprintf("lane %d\t%.2fkm away\t%s\t%s", f.GRMUID, f.distance/1000, f.Name, msg)
}

// ClassSet is a set of classifications used by group inclusion rules.
type ClassSet map[Classification]struct{}

func NewClassSet(classes ...Classification) ClassSet {
	s := make(ClassSet, len(classes))
	for _, c := range classes {
		s[c] = struct{}{}
	}
	return s
}

func (s ClassSet) Contains(c Classification) bool {
	_, ok := s[c]
	return ok
}

// GroupRule decides membership of a named feature group. A nil Select set
// admits every classification; a nil Deselect set rejects none; a nil
// Where predicate narrows nothing. Rules are independent across groups, so
// one feature may match several groups.
type GroupRule struct {
	Select   ClassSet
	Deselect ClassSet
	Where    func(*Feature) bool
}

func (r GroupRule) Matches(f *Feature) bool {
	if r.Select != nil && !r.Select.Contains(f.Class) {
		return false
	}
	if r.Deselect != nil && r.Deselect.Contains(f.Class) {
		return false
	}
	if r.Where != nil && !r.Where(f) {
		return false
	}
	return true
}
