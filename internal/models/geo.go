package models

import (
	"math"
	"strings"

	"github.com/spf13/cast"
)

type Coordinates struct {
	Lat float64
	Lng float64
}

// ParseCoordinates returns ok=false when either value is absent, not a
// finite number, or outside the valid lat/lng range.
func ParseCoordinates(lat, lng string) (Coordinates, bool) {
	la, ok := parseFinite(lat)
	if !ok || la < -90 || la > 90 {
		return Coordinates{}, false
	}
	ln, ok := parseFinite(lng)
	if !ok || ln < -180 || ln > 180 {
		return Coordinates{}, false
	}
	return Coordinates{Lat: la, Lng: ln}, true
}

func parseFinite(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := cast.ToFloat64E(s)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// GeoPoint is a GeoJSON point; Coordinates are [lng, lat].
type GeoPoint struct {
	Type        string    `bson:"type" json:"type"`
	Coordinates []float64 `bson:"coordinates" json:"coordinates"`
}

func NewGeoPoint(c Coordinates) GeoPoint {
	return GeoPoint{Type: "Point", Coordinates: []float64{c.Lng, c.Lat}}
}

func (g *GeoPoint) Valid() bool {
	return len(g.Coordinates) == 2
}
