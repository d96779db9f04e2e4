package domain

import "testing"

func TestParseClassification(t *testing.T) {
	for _, s := range []string{
		"full-access", "partial-access", "disputed",
		"link_road_with_access", "temporary_tro", "restricted",
	} {
		c, err := ParseClassification(s)
		if err != nil {
			t.Errorf("ParseClassification(%q) returned error: %v", s, err)
		}
		if string(c) != s {
			t.Errorf("ParseClassification(%q) = %q", s, c)
		}
	}

	if _, err := ParseClassification("byway"); err == nil {
		t.Error("expected error for unknown classification")
	}
	if _, err := ParseClassification(""); err == nil {
		t.Error("expected error for empty classification")
	}
}

func TestFeatureCentre(t *testing.T) {
	f := &Feature{Coords: []Coordinate{
		{Lat: 1, Lon: 1},
		{Lat: 2, Lon: 2},
		{Lat: 3, Lon: 3},
	}}
	if got := f.Centre(); got != (Coordinate{Lat: 2, Lon: 2}) {
		t.Errorf("Centre() = %v, want middle point", got)
	}

	// Even-length sequences take the upper middle (len/2).
	f = &Feature{Coords: []Coordinate{
		{Lat: 1, Lon: 1},
		{Lat: 2, Lon: 2},
	}}
	if got := f.Centre(); got != (Coordinate{Lat: 2, Lon: 2}) {
		t.Errorf("Centre() = %v, want index len/2", got)
	}
}

func TestFeatureDistanceSetOnce(t *testing.T) {
	f := &Feature{GRMUID: 7, Coords: []Coordinate{{Lat: 0, Lon: 0}}}

	if _, err := f.Distance(); err == nil {
		t.Error("Distance() before SetDistance should error")
	}

	if err := f.SetDistance(1234.5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	d, err := f.Distance()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d != 1234.5 {
		t.Errorf("Distance() = %f, want 1234.5", d)
	}

	if err := f.SetDistance(99); err == nil {
		t.Error("second SetDistance should error")
	}
	if err := (&Feature{}).SetDistance(-1); err == nil {
		t.Error("negative distance should error")
	}
}

func TestGroupRuleMatches(t *testing.T) {
	full := &Feature{Class: ClassFullAccess}
	restricted := &Feature{Class: ClassRestricted}
	disputed := &Feature{Class: ClassDisputed}

	selectGood := GroupRule{Select: NewClassSet(ClassFullAccess)}
	if !selectGood.Matches(full) {
		t.Error("select rule should match full-access")
	}
	if selectGood.Matches(restricted) {
		t.Error("select rule should not match restricted")
	}

	deselectClosed := GroupRule{Deselect: NewClassSet(ClassRestricted)}
	if deselectClosed.Matches(restricted) {
		t.Error("deselect rule should not match restricted")
	}
	if !deselectClosed.Matches(disputed) {
		t.Error("deselect rule should match disputed")
	}

	// Nil sets admit everything.
	open := GroupRule{}
	if !open.Matches(&Feature{Class: ClassTemporaryTRO}) {
		t.Error("empty rule should match any classification")
	}

	named := GroupRule{Where: func(f *Feature) bool { return f.Name != "" }}
	if named.Matches(&Feature{Class: ClassFullAccess}) {
		t.Error("where predicate should reject an unnamed lane")
	}
	if !named.Matches(&Feature{Class: ClassFullAccess, Name: "Stony Lane"}) {
		t.Error("where predicate should admit a named lane")
	}
}
