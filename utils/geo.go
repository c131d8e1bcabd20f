package utils

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

// Stop is a location that can be visited on a day's route.
type Stop struct {
	ID        string
	Lat       float64
	Lon       float64
	HasCoords bool
}

// DistanceMeters returns the great-circle distance between two points.
func DistanceMeters(lat1, lon1, lat2, lon2 float64) float64 {
	return geo.Distance(orb.Point{lon1, lat1}, orb.Point{lon2, lat2})
}

// OrderByNearest orders stops greedily: from the start point, repeatedly
// pick the closest remaining stop. Stops without coordinates keep their
// original relative order and go to the end of the route.
func OrderByNearest(startLat, startLon float64, stops []Stop) []Stop {
	located := make([]Stop, 0, len(stops))
	unlocated := make([]Stop, 0)
	for _, s := range stops {
		if s.HasCoords {
			located = append(located, s)
		} else {
			unlocated = append(unlocated, s)
		}
	}

	ordered := make([]Stop, 0, len(stops))
	curLat, curLon := startLat, startLon
	for len(located) > 0 {
		best := 0
		bestDist := DistanceMeters(curLat, curLon, located[0].Lat, located[0].Lon)
		for i := 1; i < len(located); i++ {
			d := DistanceMeters(curLat, curLon, located[i].Lat, located[i].Lon)
			if d < bestDist {
				best = i
				bestDist = d
			}
		}
		next := located[best]
		ordered = append(ordered, next)
		curLat, curLon = next.Lat, next.Lon
		located = append(located[:best], located[best+1:]...)
	}

	return append(ordered, unlocated...)
}
