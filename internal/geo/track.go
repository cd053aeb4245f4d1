package geo

import (
	"fmt"

	geom "github.com/peterstace/simplefeatures/geom"
)

// TrackLine builds a linestring from local track samples, still in the
// submarine-centered yard frame.
func TrackLine(points []Point) (geom.LineString, error) {
	if len(points) < 2 {
		return geom.LineString{}, fmt.Errorf("track must have at least 2 points, got %d", len(points))
	}

	flatCoords := make([]float64, 0, len(points)*2)
	for _, p := range points {
		flatCoords = append(flatCoords, p.X, p.Y)
	}

	seq := geom.NewSequence(flatCoords, geom.DimXY)
	ls := geom.NewLineString(seq)

	return ls, nil
}

// TrackGeoJSON geo-references local track samples at the anchor and emits
// the GeoJSON LineString the patrol map layer consumes.
func (a Anchor) TrackGeoJSON(points []Point) ([]byte, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("track must have at least 2 points, got %d", len(points))
	}

	flatCoords := make([]float64, 0, len(points)*2)
	for _, p := range points {
		lon, lat, err := a.FromLocal(p.X, p.Y)
		if err != nil {
			return nil, err
		}
		flatCoords = append(flatCoords, lon, lat)
	}

	seq := geom.NewSequence(flatCoords, geom.DimXY)
	ls := geom.NewLineString(seq)

	return ls.AsGeometry().MarshalJSON()
}
