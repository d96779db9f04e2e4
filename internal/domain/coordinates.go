package domain

// Immutable geographic coordinate (latitude, longitude) in WGS84 degrees.
type Coordinate struct {
	Lat float64
	Lon float64
}
