package domain

// One ordered run of points within a track.
type TrackSegment struct {
	Points []Coordinate
}

// A named track composed of one or more point segments.
type Track struct {
	Name        string
	Description string
	Segments    []TrackSegment
}

// Represents a titled, authored set of tracks ready for serialization.
// A TrackCollection is the output of assembly and carries no encoding
// concerns; the writer adapter decides the file format.
type TrackCollection struct {
	Title           string
	Description     string
	Author          string
	CopyrightAuthor string
	CopyrightYear   string
	Creator         string
	Tracks          []Track
}
