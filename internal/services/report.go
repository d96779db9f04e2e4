package services

// Run summary for one extraction: tile completion counts, feature
// selection, and the simplification compression achieved.
type Report struct {
	TilesRequested    int
	TilesOK           int
	TilesEmpty        int
	TilesFailed       int
	DuplicateFeatures int
	FeaturesTotal     int
	FeaturesSelected  int
	PointsBefore      int
	PointsAfter       int
	LengthMeters      int
}

// CompressionPercent reports how many points simplification removed,
// relative to the original totals.
func (r *Report) CompressionPercent() float64 {
	if r.PointsBefore == 0 {
		return 0
	}
	return 100 * float64(r.PointsBefore-r.PointsAfter) / float64(r.PointsBefore)
}
