package utils

import (
	"math"
	"testing"
)

func TestDistanceMeters(t *testing.T) {
	// London to Paris, roughly 344 km
	d := DistanceMeters(51.5074, -0.1278, 48.8566, 2.3522)
	if math.Abs(d-344000) > 10000 {
		t.Errorf("London-Paris = %.0f m, want ~344000", d)
	}

	if d := DistanceMeters(51.5, -0.1, 51.5, -0.1); d != 0 {
		t.Errorf("identical points = %f, want 0", d)
	}
}

func TestOrderByNearest(t *testing.T) {
	stops := []Stop{
		{ID: "far", Lat: 52.0, Lon: 0.0, HasCoords: true},
		{ID: "near", Lat: 51.51, Lon: -0.12, HasCoords: true},
		{ID: "mid", Lat: 51.7, Lon: -0.05, HasCoords: true},
	}
	ordered := OrderByNearest(51.5074, -0.1278, stops)

	want := []string{"near", "mid", "far"}
	for i, id := range want {
		if ordered[i].ID != id {
			t.Fatalf("position %d = %s, want %s (full order %v)", i, ordered[i].ID, id, ids(ordered))
		}
	}
}

func TestOrderByNearestKeepsUnlocatedLast(t *testing.T) {
	stops := []Stop{
		{ID: "no-coords-1"},
		{ID: "located", Lat: 51.51, Lon: -0.12, HasCoords: true},
		{ID: "no-coords-2"},
	}
	ordered := OrderByNearest(51.5074, -0.1278, stops)

	want := []string{"located", "no-coords-1", "no-coords-2"}
	for i, id := range want {
		if ordered[i].ID != id {
			t.Fatalf("position %d = %s, want %s", i, ordered[i].ID, id)
		}
	}
}

func TestOrderByNearestEmpty(t *testing.T) {
	if out := OrderByNearest(0, 0, nil); len(out) != 0 {
		t.Errorf("empty input produced %d stops", len(out))
	}
}

func ids(stops []Stop) []string {
	out := make([]string, len(stops))
	for i, s := range stops {
		out[i] = s.ID
	}
	return out
}
