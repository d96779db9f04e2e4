package services

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/davidhyman/green-lane-json/internal/domain"
)

const (
	collectionDescription = "This is an export from the TRF green roads map at https://beta.greenroadmap.org.uk/"
	collectionCopyright   = "Trail Riders Fellowship"
	collectionCreator     = "https://github.com/davidhyman/green-lane-json"
)

// Navigation devices choke on markup and exotic punctuation in
// descriptions; anything outside word characters, whitespace, period and
// comma collapses to a pipe.
var descCleanRe = regexp.MustCompile(`[^\w\n .,]+`)

func sanitizeDescription(s string) string {
	return strings.TrimSpace(descCleanRe.ReplaceAllString(s, "|"))
}

// Assemble builds a titled track collection from a feature group.
//
// In mono mode the collection holds exactly one track named after the
// title, with one segment per feature. In multi mode each feature becomes
// its own track, named "<grmuid> <name>", with a single segment.
func Assemble(
	features []*domain.Feature,
	title string,
	multiTrack bool,
	author string,
	copyrightYear string,
) *domain.TrackCollection {
	tc := &domain.TrackCollection{
		Title:           title,
		Description:     collectionDescription,
		Author:          author,
		CopyrightAuthor: collectionCopyright,
		CopyrightYear:   copyrightYear,
		Creator:         collectionCreator,
	}

	mono := domain.Track{
		Name:        title,
		Description: collectionDescription,
	}

	for _, f := range features {
		segment := domain.TrackSegment{Points: f.Coords}

		if multiTrack {
			tc.Tracks = append(tc.Tracks, domain.Track{
				Name:        fmt.Sprintf("%d %s", f.GRMUID, f.Name),
				Description: sanitizeDescription(title + "\n\n" + f.MemberMessage),
				Segments:    []domain.TrackSegment{segment},
			})
			continue
		}
		mono.Segments = append(mono.Segments, segment)
	}

	if !multiTrack {
		tc.Tracks = append(tc.Tracks, mono)
	}

	return tc
}
