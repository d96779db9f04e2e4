// Package gpxfile renders track collections as GPX 1.1 files on disk.
package gpxfile

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tkrajina/gpxgo/gpx"

	"github.com/davidhyman/green-lane-json/internal/domain"
)

// Writer implements ports.TrackWriter. Each collection lands in its own
// file, named after the collection title.
type Writer struct {
	Dir string
}

func NewWriter(dir string) *Writer {
	return &Writer{Dir: dir}
}

func (w *Writer) Write(ctx context.Context, tc *domain.TrackCollection) error {
	doc := buildDocument(tc)

	xml, err := doc.ToXml(gpx.ToXmlParams{Version: "1.1", Indent: true})
	if err != nil {
		return fmt.Errorf("render gpx %q: %w", tc.Title, err)
	}

	if w.Dir != "" {
		if err := os.MkdirAll(w.Dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	path := filepath.Join(w.Dir, fileName(tc.Title))
	if err := os.WriteFile(path, xml, 0o644); err != nil {
		return fmt.Errorf("write gpx %q: %w", path, err)
	}
	return nil
}

func buildDocument(tc *domain.TrackCollection) *gpx.GPX {
	doc := &gpx.GPX{
		Version:       "1.1",
		Creator:       tc.Creator,
		Name:          tc.Title,
		Description:   tc.Description,
		AuthorName:    tc.Author,
		Copyright:     tc.CopyrightAuthor,
		CopyrightYear: tc.CopyrightYear,
	}

	for _, track := range tc.Tracks {
		gpxTrack := gpx.GPXTrack{
			Name:        track.Name,
			Description: track.Description,
		}
		for _, segment := range track.Segments {
			gpxSegment := gpx.GPXTrackSegment{}
			for _, p := range segment.Points {
				gpxSegment.Points = append(gpxSegment.Points, gpx.GPXPoint{
					Point: gpx.Point{Latitude: p.Lat, Longitude: p.Lon},
				})
			}
			gpxTrack.Segments = append(gpxTrack.Segments, gpxSegment)
		}
		doc.Tracks = append(doc.Tracks, gpxTrack)
	}

	return doc
}

// fileName keeps the title readable while staying a single path element.
func fileName(title string) string {
	name := strings.NewReplacer("/", "_", string(os.PathSeparator), "_").Replace(title)
	return name + ".gpx"
}
