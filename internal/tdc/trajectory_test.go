package tdc

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmknapp/cobia-patrols/internal/geo"
)

func TestComputeCurvedTrajectory_StraightShot(t *testing.T) {
	b := DefaultBallistics()
	target := geo.Point{X: 0, Y: 1000}

	traj := ComputeCurvedTrajectory(b, 0, 0, Mark14SpeedHigh, target)

	assert.Zero(t, traj.TurnRadius)
	assert.Zero(t, traj.TurnArcLength)
	assert.Zero(t, traj.TurnTime)
	assert.Equal(t, traj.InitialRunEnd, traj.TurnEnd)

	assert.InDelta(t, 75, traj.InitialRunDistance, 1e-9)
	assert.InDelta(t, 0, traj.InitialRunEnd.X, 1e-9)
	assert.InDelta(t, 75, traj.InitialRunEnd.Y, 1e-9)

	assert.InDelta(t, 0, traj.FinalHeading, 1e-9)
	assert.InDelta(t, 925, traj.FinalRunDistance, 1e-9)
	assert.InDelta(t, 1000, traj.TotalDistance, 1e-9)

	speedYps := KnotsToYardsPerSecond(Mark14SpeedHigh)
	assert.InDelta(t, 1000/speedYps, traj.TotalTime, 1e-9)

	require.NotEmpty(t, traj.Points)
	assert.Equal(t, geo.Point{}, traj.Points[0])
	last := traj.Points[len(traj.Points)-1]
	assert.InDelta(t, 0, last.X, 1e-6)
	assert.InDelta(t, 1000, last.Y, 1e-6)
}

func TestComputeCurvedTrajectory_TotalsArePhaseSums(t *testing.T) {
	b := DefaultBallistics()
	target := geo.Point{X: 800, Y: 1200}

	for gyro := -90.0; gyro <= 90; gyro += 15 {
		traj := ComputeCurvedTrajectory(b, 350, gyro, Mark14SpeedHigh, target)

		assert.InDelta(t,
			traj.InitialRunDistance+traj.TurnArcLength+traj.FinalRunDistance,
			traj.TotalDistance, 1e-9, "gyro %v", gyro)
		assert.InDelta(t,
			traj.InitialRunTime+traj.TurnTime+traj.FinalRunTime,
			traj.TotalTime, 1e-9, "gyro %v", gyro)
		if math.Abs(gyro) > 0.1 {
			assert.Greater(t, traj.TurnArcLength, 0.0, "gyro %v", gyro)
			assert.Greater(t, traj.TurnTime, 0.0, "gyro %v", gyro)
		}
	}
}

func TestComputeCurvedTrajectory_TurnRadiusScalesWithSpeed(t *testing.T) {
	b := DefaultBallistics()
	target := geo.Point{X: 500, Y: 1500}

	slow := ComputeCurvedTrajectory(b, 0, 30, 23, target)
	fast := ComputeCurvedTrajectory(b, 0, 30, 46, target)

	// Radius is speed over turn rate, so doubling speed doubles it.
	require.Greater(t, slow.TurnRadius, 0.0)
	assert.InDelta(t, 2*slow.TurnRadius, fast.TurnRadius, 1e-9)

	expected := KnotsToYardsPerSecond(46) / (b.TurnRateDegSec * math.Pi / 180)
	assert.InDelta(t, expected, fast.TurnRadius, 1e-9)
}

func TestComputeCurvedTrajectory_TurnSkippedBelowThreshold(t *testing.T) {
	b := DefaultBallistics()
	target := geo.Point{X: 0, Y: 2000}

	traj := ComputeCurvedTrajectory(b, 0, 0.05, Mark14SpeedHigh, target)

	assert.Zero(t, traj.TurnRadius)
	assert.Zero(t, traj.TurnArcLength)
	assert.Zero(t, traj.TurnTime)
	assert.Equal(t, traj.InitialRunEnd, traj.TurnEnd)
	assert.InDelta(t, 0.05, traj.TurnAngle, 1e-12)
}

func TestComputeCurvedTrajectory_FinalHeadingWrapped(t *testing.T) {
	b := DefaultBallistics()
	target := geo.Point{X: -400, Y: 900}

	traj := ComputeCurvedTrajectory(b, 350, 30, Mark14SpeedHigh, target)

	assert.InDelta(t, 20, traj.FinalHeading, 1e-9)
}

func TestTurnExit_SkippedWhenGyroSmall(t *testing.T) {
	b := DefaultBallistics()

	_, ok := TurnExit(b, 0, 0.05, Mark14SpeedHigh)
	assert.False(t, ok)

	_, ok = TurnExit(b, 0, 0.1, Mark14SpeedHigh)
	assert.False(t, ok)

	_, ok = TurnExit(b, 0, 20, Mark14SpeedHigh)
	assert.True(t, ok)
}

func TestTurnExit_StarboardTurnGeometry(t *testing.T) {
	b := DefaultBallistics()

	exit, ok := TurnExit(b, 0, 90, Mark14SpeedHigh)
	require.True(t, ok)

	// Heading north, the turn circle sits east of the reach endpoint at
	// (radius, 75); a 90 degree rotation of that endpoint about the center
	// lands at (radius, 75 - radius).
	radius := KnotsToYardsPerSecond(Mark14SpeedHigh) / (b.TurnRateDegSec * math.Pi / 180)
	assert.InDelta(t, radius, exit.X, 1e-9)
	assert.InDelta(t, 75-radius, exit.Y, 1e-9)
}
