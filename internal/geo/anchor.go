package geo

import (
	"errors"
	"fmt"
	"math"

	"github.com/wroge/wgs84"
)

// ErrInvalidAnchor is returned when a chart anchor's coordinates are unusable.
var ErrInvalidAnchor = errors.New("invalid chart anchor")

const metersPerYard = 0.9144

// Anchor pins the local firing frame to a real chart position. Lat and Lon
// are WGS84 degrees of the firing point, the origin of the local frame.
type Anchor struct {
	Lat float64 `json:"lat" mapstructure:"lat"`
	Lon float64 `json:"lon" mapstructure:"lon"`
}

// Validate rejects non-finite or out-of-range coordinates.
func (a Anchor) Validate() error {
	if math.IsNaN(a.Lat) || math.IsInf(a.Lat, 0) ||
		math.IsNaN(a.Lon) || math.IsInf(a.Lon, 0) {
		return fmt.Errorf("%w: non-finite coordinates", ErrInvalidAnchor)
	}
	if math.Abs(a.Lat) > 90 || math.Abs(a.Lon) > 180 {
		return fmt.Errorf("%w: lat %v lon %v out of range", ErrInvalidAnchor, a.Lat, a.Lon)
	}
	return nil
}

// FromLocal converts a local offset in yards into chart coordinates: the
// anchor is projected to EPSG:3857, offset in meters, and transformed back
// to EPSG:4326. Web Mercator stretches ground distance by 1/cos(lat), so
// the offsets are scaled to stay true yards at the anchor.
func (a Anchor) FromLocal(eastYd, northYd float64) (lon, lat float64, err error) {
	if err := a.Validate(); err != nil {
		return 0, 0, err
	}

	epsg := wgs84.EPSG()
	toMercator := epsg.Transform(4326, 3857)
	x, y, _ := toMercator(a.Lon, a.Lat, 0)

	scale := 1 / math.Cos(a.Lat*math.Pi/180)
	x += eastYd * metersPerYard * scale
	y += northYd * metersPerYard * scale

	toChart := epsg.Transform(3857, 4326)
	lon, lat, _ = toChart(x, y, 0)
	return lon, lat, nil
}
