package geo

import "math"

// Conventions shared by the fire control packages: headings and bearings are
// compass degrees (0 = North, 90 = East, clockwise positive); local
// coordinates are yards in a submarine-centered frame with x East and y North.
// Every angle/vector conversion funnels through here so the solver and the
// analog simulation agree on orientation.

// Side tags which side of a ship's bow an angle falls on. Patrol report
// tables record it as a single letter, so the JSON form is "P" or "S".
type Side string

const (
	Port      Side = "P"
	Starboard Side = "S"
)

// Point is a location in the submarine-centered frame, in yards.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NormalizeAngle wraps an angle in degrees into [0, 360).
func NormalizeAngle(deg float64) float64 {
	a := math.Mod(deg, 360)
	if a < 0 {
		a += 360
	}
	return a
}

// NormalizeSigned wraps an angle in degrees into [-180, 180].
func NormalizeSigned(deg float64) float64 {
	a := math.Mod(deg, 360)
	if a < -180 {
		a += 360
	} else if a > 180 {
		a -= 360
	}
	return a
}

// HeadingToVector converts a compass heading to a unit vector (east, north).
func HeadingToVector(headingDeg float64) (east, north float64) {
	rad := headingDeg * math.Pi / 180
	return math.Sin(rad), math.Cos(rad)
}

// VectorToHeading recovers a compass heading from an (east, north) vector.
// The zero vector maps to heading 0.
func VectorToHeading(east, north float64) float64 {
	return NormalizeAngle(math.Atan2(east, north) * 180 / math.Pi)
}

// RelativeBearing is the signed bearing of the target off own bow,
// negative to port and positive to starboard.
func RelativeBearing(ownCourse, targetBearing float64) float64 {
	return NormalizeSigned(targetBearing - ownCourse)
}

// AngleOnBow computes how the target sees the attacking ship: the reciprocal
// bearing (target back toward own ship) expressed relative to the target's
// course, folded to [0, 180] with the side it falls on. 0 is dead ahead of
// the target, 180 dead astern. Own course is part of the dialed setup but
// cancels out of the geometry.
func AngleOnBow(ownCourse, targetBearing, targetCourse float64) (float64, Side) {
	bearingToUs := NormalizeAngle(targetBearing + 180)
	rel := NormalizeSigned(bearingToUs - targetCourse)
	if rel >= 0 {
		return rel, Starboard
	}
	return -rel, Port
}
