package services

import (
	"strings"
	"testing"

	"github.com/davidhyman/green-lane-json/internal/domain"
)

func assembleFixtures() []*domain.Feature {
	return []*domain.Feature{
		{
			GRMUID: 101, Name: "Stony Lane", MemberMessage: "gate at north end",
			Coords: []domain.Coordinate{{Lat: 51.5, Lon: -2.5}, {Lat: 51.51, Lon: -2.5}},
		},
		{
			GRMUID: 102, Name: "Chalk Track", MemberMessage: "ok in summer",
			Coords: []domain.Coordinate{{Lat: 51.52, Lon: -2.5}, {Lat: 51.53, Lon: -2.5}},
		},
	}
}

func TestAssembleMono(t *testing.T) {
	tc := Assemble(assembleFixtures(), "TRF BS1 1km 2026-08-30 - good mono", false, "someone", "2026")

	if len(tc.Tracks) != 1 {
		t.Fatalf("got %d tracks, want 1", len(tc.Tracks))
	}
	track := tc.Tracks[0]
	if track.Name != tc.Title {
		t.Errorf("track name = %q, want the collection title", track.Name)
	}
	if len(track.Segments) != 2 {
		t.Errorf("got %d segments, want one per feature", len(track.Segments))
	}
	if len(track.Segments[0].Points) != 2 {
		t.Errorf("segment points = %d, want 2", len(track.Segments[0].Points))
	}
}

func TestAssembleMulti(t *testing.T) {
	tc := Assemble(assembleFixtures(), "TRF BS1 1km 2026-08-30 - good multi", true, "someone", "2026")

	if len(tc.Tracks) != 2 {
		t.Fatalf("got %d tracks, want one per feature", len(tc.Tracks))
	}
	if tc.Tracks[0].Name != "101 Stony Lane" {
		t.Errorf("track name = %q, want grmuid-prefixed lane name", tc.Tracks[0].Name)
	}
	if len(tc.Tracks[0].Segments) != 1 {
		t.Errorf("got %d segments, want 1", len(tc.Tracks[0].Segments))
	}
	if !strings.Contains(tc.Tracks[0].Description, "gate at north end") {
		t.Errorf("description should carry the member message, got %q", tc.Tracks[0].Description)
	}
}

func TestAssembleCollectionMetadata(t *testing.T) {
	tc := Assemble(nil, "title", false, "someone", "2026")

	if tc.CopyrightAuthor != "Trail Riders Fellowship" {
		t.Errorf("copyright author = %q", tc.CopyrightAuthor)
	}
	if tc.Author != "someone" || tc.CopyrightYear != "2026" {
		t.Errorf("author/year = %q/%q", tc.Author, tc.CopyrightYear)
	}
	if !strings.Contains(tc.Description, "greenroadmap.org.uk") {
		t.Errorf("description = %q", tc.Description)
	}
}

func TestSanitizeDescription(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"plain words, fine.", "plain words, fine."},
		{"see http://example.com/x?y=1", "see http|example.com|x|y|1"},
		{"<b>bold</b>", "|b|bold|b|"},
		{"***!!!", "|"},
		{"  padded  ", "padded"},
		{"line one\nline two", "line one\nline two"},
	}

	for _, tc := range cases {
		if got := sanitizeDescription(tc.in); got != tc.want {
			t.Errorf("sanitizeDescription(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
