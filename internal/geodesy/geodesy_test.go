package geodesy

import (
	"math"
	"testing"

	"github.com/davidhyman/green-lane-json/internal/domain"
)

func TestInverseCoincidentPoints(t *testing.T) {
	p := domain.Coordinate{Lat: 51.5, Lon: -2.5}
	d, err := Inverse(p, p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d != 0 {
		t.Errorf("distance between coincident points = %f, want 0", d)
	}
}

func TestInverseEquatorialDegree(t *testing.T) {
	// One degree of longitude along the equator is exactly one degree of
	// arc on a circle of radius a.
	want := 6378137.0 * math.Pi / 180

	d, err := Inverse(domain.Coordinate{Lat: 0, Lon: 0}, domain.Coordinate{Lat: 0, Lon: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(d-want) > 0.5 {
		t.Errorf("equatorial degree = %f, want %f", d, want)
	}
}

func TestInverseMeridianDegree(t *testing.T) {
	// Meridian arc from the equator to 1N is 110574.4m on WGS84.
	d, err := Inverse(domain.Coordinate{Lat: 0, Lon: 0}, domain.Coordinate{Lat: 1, Lon: 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(d-110574.4) > 1 {
		t.Errorf("meridian degree = %f, want ~110574.4", d)
	}
}

func TestInverseSymmetric(t *testing.T) {
	a := domain.Coordinate{Lat: 51.5, Lon: -2.5}
	b := domain.Coordinate{Lat: 52.2, Lon: 0.1}

	d1, err := Inverse(a, b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	d2, err := Inverse(b, a)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(d1-d2) > 1e-6 {
		t.Errorf("Inverse not symmetric: %f vs %f", d1, d2)
	}
	if d1 <= 0 {
		t.Errorf("distance = %f, want > 0", d1)
	}
}

func TestForwardInverseRoundTrip(t *testing.T) {
	origin := domain.Coordinate{Lat: 51.5, Lon: -2.5}

	for _, bearing := range []float64{0, 90, 180, 270, 45.5} {
		for _, dist := range []float64{100, 1000, 60000} {
			dest := Forward(origin, bearing, dist)
			got, err := Inverse(origin, dest)
			if err != nil {
				t.Fatalf("bearing %f dist %f: %v", bearing, dist, err)
			}
			if math.Abs(got-dist) > 0.01 {
				t.Errorf("bearing %f: round trip distance = %f, want %f", bearing, got, dist)
			}
		}
	}
}

func TestForwardBearings(t *testing.T) {
	origin := domain.Coordinate{Lat: 51.5, Lon: -2.5}

	north := Forward(origin, 0, 1000)
	if north.Lat <= origin.Lat {
		t.Errorf("bearing 0 should increase latitude, got %f", north.Lat)
	}
	south := Forward(origin, 180, 1000)
	if south.Lat >= origin.Lat {
		t.Errorf("bearing 180 should decrease latitude, got %f", south.Lat)
	}
	east := Forward(origin, 90, 1000)
	if east.Lon <= origin.Lon {
		t.Errorf("bearing 90 should increase longitude, got %f", east.Lon)
	}
	west := Forward(origin, 270, 1000)
	if west.Lon >= origin.Lon {
		t.Errorf("bearing 270 should decrease longitude, got %f", west.Lon)
	}
}
