package tdc

import (
	"math"

	"github.com/jmknapp/cobia-patrols/internal/geo"
)

// Gyro settings smaller than this leave the steering engine on its stop and
// the torpedo runs straight.
const turnThresholdDeg = 0.1

// Trajectory is the torpedo's curved path broken into its three phases:
// a straight reach out of the tube, a constant-rate turn onto the gyro
// setting, and the straight run to the intercept point. Coordinates are
// yards in the attack frame, own ship at the origin, X east and Y north.
type Trajectory struct {
	InitialRunDistance float64   `json:"initialRunDistance"`
	InitialRunTime     float64   `json:"initialRunTime"`
	InitialRunEnd      geo.Point `json:"initialRunEnd"`

	TurnAngle     float64   `json:"turnAngle"`
	TurnRadius    float64   `json:"turnRadius"`
	TurnArcLength float64   `json:"turnArcLength"`
	TurnTime      float64   `json:"turnTime"`
	TurnCenter    geo.Point `json:"turnCenter"`
	TurnEnd       geo.Point `json:"turnEnd"`

	FinalHeading     float64 `json:"finalHeading"`
	FinalRunDistance float64 `json:"finalRunDistance"`
	FinalRunTime     float64 `json:"finalRunTime"`

	TotalDistance float64 `json:"totalDistance"`
	TotalTime     float64 `json:"totalTime"`

	Points []geo.Point `json:"points"`
}

// turnGeometry places the turn circle and the exit point for a torpedo that
// reaches start on initialHeading and then turns through gyroAngle. A
// positive gyro puts the circle to starboard. The exit point comes from
// rotating start about the center by the gyro angle.
func turnGeometry(start geo.Point, initialHeading, gyroAngle, turnRadius float64) (center, end geo.Point, arcLength float64) {
	if math.Abs(gyroAngle) < turnThresholdDeg {
		return geo.Point{}, start, 0
	}

	perpRad := initialHeading * math.Pi / 180
	if gyroAngle > 0 {
		perpRad += math.Pi / 2
	} else {
		perpRad -= math.Pi / 2
	}

	center = geo.Point{
		X: start.X + turnRadius*math.Sin(perpRad),
		Y: start.Y + turnRadius*math.Cos(perpRad),
	}
	arcLength = math.Abs(gyroAngle*math.Pi/180) * turnRadius

	relX := start.X - center.X
	relY := start.Y - center.Y
	rotRad := gyroAngle * math.Pi / 180
	end = geo.Point{
		X: center.X + relX*math.Cos(rotRad) - relY*math.Sin(rotRad),
		Y: center.Y + relX*math.Sin(rotRad) + relY*math.Cos(rotRad),
	}
	return center, end, arcLength
}

// TurnExit returns the point where the torpedo settles on its final heading,
// after the reach and the gyro turn. The second return is false when the
// gyro setting is too small to engage the turn, in which case the caller
// should treat the shot as straight.
func TurnExit(b Ballistics, ownCourse, gyroAngle, torpedoSpeedKnots float64) (geo.Point, bool) {
	if math.Abs(gyroAngle) <= turnThresholdDeg {
		return geo.Point{}, false
	}

	speedYps := KnotsToYardsPerSecond(torpedoSpeedKnots)
	omega := b.TurnRateDegSec * math.Pi / 180
	radius := speedYps / omega

	east, north := geo.HeadingToVector(ownCourse)
	start := geo.Point{
		X: east * b.InitialRunYards,
		Y: north * b.InitialRunYards,
	}

	_, end, _ := turnGeometry(start, ownCourse, gyroAngle, radius)
	return end, true
}

// ComputeCurvedTrajectory traces the full three-phase path to the intercept
// point at target. The sampled points begin at the origin and run through
// the reach, around the arc, and down the final leg.
func ComputeCurvedTrajectory(b Ballistics, ownCourse, gyroAngle, torpedoSpeedKnots float64, target geo.Point) Trajectory {
	var t Trajectory
	speedYps := KnotsToYardsPerSecond(torpedoSpeedKnots)

	start := geo.Point{}
	t.Points = append(t.Points, start)

	// Phase 1: straight reach along own course.
	t.InitialRunDistance = b.InitialRunYards
	t.InitialRunTime = b.InitialRunYards / speedYps

	east, north := geo.HeadingToVector(ownCourse)
	t.InitialRunEnd = geo.Point{
		X: start.X + east*b.InitialRunYards,
		Y: start.Y + north*b.InitialRunYards,
	}

	for d := 0.0; d < b.InitialRunYards; d += 10 {
		t.Points = append(t.Points, geo.Point{X: start.X + east*d, Y: start.Y + north*d})
	}
	t.Points = append(t.Points, t.InitialRunEnd)

	// Phase 2: gyro turn.
	t.TurnAngle = gyroAngle

	if math.Abs(gyroAngle) < turnThresholdDeg {
		t.TurnEnd = t.InitialRunEnd
	} else {
		omega := b.TurnRateDegSec * math.Pi / 180
		t.TurnRadius = speedYps / omega

		t.TurnCenter, t.TurnEnd, t.TurnArcLength = turnGeometry(
			t.InitialRunEnd, ownCourse, gyroAngle, t.TurnRadius)
		t.TurnTime = math.Abs(gyroAngle) / b.TurnRateDegSec

		// A point roughly every 5 degrees of arc.
		n := int(math.Abs(gyroAngle) / 5)
		if n < 10 {
			n = 10
		}
		for i := 1; i <= n; i++ {
			rotRad := gyroAngle * (float64(i) / float64(n)) * math.Pi / 180
			relX := t.InitialRunEnd.X - t.TurnCenter.X
			relY := t.InitialRunEnd.Y - t.TurnCenter.Y
			t.Points = append(t.Points, geo.Point{
				X: t.TurnCenter.X + relX*math.Cos(rotRad) - relY*math.Sin(rotRad),
				Y: t.TurnCenter.Y + relX*math.Sin(rotRad) + relY*math.Cos(rotRad),
			})
		}
	}

	// Phase 3: straight run to the intercept point.
	t.FinalHeading = geo.NormalizeAngle(ownCourse + gyroAngle)

	dx := target.X - t.TurnEnd.X
	dy := target.Y - t.TurnEnd.Y
	t.FinalRunDistance = math.Sqrt(dx*dx + dy*dy)
	t.FinalRunTime = t.FinalRunDistance / speedYps

	finalEast, finalNorth := geo.HeadingToVector(t.FinalHeading)
	n := int(t.FinalRunDistance / 100)
	if n < 10 {
		n = 10
	}
	for i := 1; i <= n; i++ {
		d := t.FinalRunDistance * float64(i) / float64(n)
		t.Points = append(t.Points, geo.Point{
			X: t.TurnEnd.X + finalEast*d,
			Y: t.TurnEnd.Y + finalNorth*d,
		})
	}

	t.TotalDistance = t.InitialRunDistance + t.TurnArcLength + t.FinalRunDistance
	t.TotalTime = t.InitialRunTime + t.TurnTime + t.FinalRunTime
	return t
}
