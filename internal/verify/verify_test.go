package verify

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmknapp/cobia-patrols/internal/tdc"
)

func f64(v float64) *float64 { return &v }

func newTestSolver(t *testing.T) *tdc.Solver {
	t.Helper()
	s, err := tdc.NewSolver(tdc.DefaultBallistics(), tdc.DefaultSettings())
	require.NoError(t, err)
	return s
}

func writeAttacks(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "attacks.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeAttacks(t, `{
		"boat": "USS Cobia (SS-245)",
		"attacks": [
			{
				"patrol": 1, "attack": 4, "targetName": "Nisshu Maru",
				"ownCourse": 281, "targetCourse": 115, "targetSpeed": 8,
				"targetRange": 1300, "gyroAngle": 12, "trackAngle": 98,
				"trackSide": "starboard", "torpedoesFired": 3
			},
			{
				"patrol": 2, "attack": 1,
				"ownCourse": 90, "targetCourse": 200, "targetSpeed": 9,
				"targetRange": 2100, "targetBearing": 120
			}
		]
	}`)

	attacks, err := Load(path)
	require.NoError(t, err)
	require.Len(t, attacks, 2)

	first := attacks[0]
	assert.Equal(t, 1, first.Patrol)
	assert.Equal(t, 4, first.Attack)
	assert.Equal(t, "Nisshu Maru", first.TargetName)
	require.NotNil(t, first.GyroAngle)
	assert.InDelta(t, 12, *first.GyroAngle, 1e-12)
	assert.Nil(t, first.TargetBearing)
	assert.Nil(t, first.AngleOnBow)

	second := attacks[1]
	require.NotNil(t, second.TargetBearing)
	assert.InDelta(t, 120, *second.TargetBearing, 1e-12)
	assert.Nil(t, second.GyroAngle)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestLoad_BadJSON(t *testing.T) {
	path := writeAttacks(t, `{"attacks": [`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestFilter(t *testing.T) {
	attacks := []RecordedAttack{
		{Patrol: 1, Attack: 1},
		{Patrol: 1, Attack: 4},
		{Patrol: 2, Attack: 1},
	}

	assert.Len(t, Filter(attacks, 0, 0), 3)
	assert.Len(t, Filter(attacks, 1, 0), 2)
	assert.Len(t, Filter(attacks, 2, 0), 1)
	assert.Len(t, Filter(attacks, 0, 1), 2)

	only := Filter(attacks, 1, 4)
	require.Len(t, only, 1)
	assert.Equal(t, 4, only[0].Attack)

	assert.Empty(t, Filter(attacks, 3, 0))
}

func TestCompare_RecordedBearing(t *testing.T) {
	s := newTestSolver(t)
	attack := RecordedAttack{
		Patrol: 2, Attack: 1,
		OwnCourse: 90, OwnSpeed: 4,
		TargetCourse: 200, TargetSpeed: 9, TargetRange: 2100,
		TargetBearing: f64(120),
		GyroAngle:     f64(28),
	}

	cmp, err := Compare(s, attack)
	require.NoError(t, err)

	assert.False(t, cmp.BearingEstimated)
	assert.InDelta(t, 120, cmp.Problem.TargetBearing, 1e-12)
	assert.InDelta(t, 4, cmp.Problem.OwnSpeed, 1e-12)
	assert.Equal(t, tdc.Mark14SpeedHigh, cmp.Problem.TorpedoSpeed)
	assert.True(t, cmp.Solution.Valid)

	require.NotNil(t, cmp.GyroDelta)
	assert.InDelta(t, cmp.Solution.GyroAngle-28, *cmp.GyroDelta, 1e-12)
}

func TestCompare_EstimatesBearingFromGyro(t *testing.T) {
	s := newTestSolver(t)
	attack := RecordedAttack{
		Patrol: 1, Attack: 4,
		OwnCourse:    281,
		TargetCourse: 115, TargetSpeed: 8, TargetRange: 1300,
		GyroAngle: f64(12),
	}

	cmp, err := Compare(s, attack)
	require.NoError(t, err)

	assert.True(t, cmp.BearingEstimated)
	assert.InDelta(t, 293, cmp.Problem.TargetBearing, 1e-12)
	// Own speed falls back to the submerged approach default.
	assert.InDelta(t, DefaultOwnSpeedKnots, cmp.Problem.OwnSpeed, 1e-12)
}

func TestCompare_DeltasOnlyForRecordedQuantities(t *testing.T) {
	s := newTestSolver(t)
	attack := RecordedAttack{
		Patrol: 1, Attack: 2,
		OwnCourse:    180,
		TargetCourse: 270, TargetSpeed: 7, TargetRange: 1800,
		TargetBearing: f64(200),
		TrackAngle:    f64(95),
	}

	cmp, err := Compare(s, attack)
	require.NoError(t, err)

	assert.Nil(t, cmp.GyroDelta)
	assert.Nil(t, cmp.AOBDelta)
	require.NotNil(t, cmp.TrackDelta)
	assert.InDelta(t, cmp.Solution.TrackAngle-95, *cmp.TrackDelta, 1e-12)
}

func TestCompare_NeitherBearingNorGyro(t *testing.T) {
	s := newTestSolver(t)
	attack := RecordedAttack{
		Patrol: 1, Attack: 3,
		OwnCourse:    90,
		TargetCourse: 180, TargetSpeed: 8, TargetRange: 1500,
	}

	_, err := Compare(s, attack)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "P1A3")
}

func TestCompare_SolutionCarriesTrajectory(t *testing.T) {
	s := newTestSolver(t)
	attack := RecordedAttack{
		Patrol: 1, Attack: 4,
		OwnCourse:    281,
		TargetCourse: 115, TargetSpeed: 8, TargetRange: 1300,
		GyroAngle: f64(12),
	}

	cmp, err := Compare(s, attack)
	require.NoError(t, err)
	require.True(t, cmp.Solution.Valid)
	require.NotNil(t, cmp.Solution.Trajectory)
	assert.Greater(t, cmp.Solution.Trajectory.TotalDistance, 0.0)
}

func TestCompare_RejectsMalformedAttack(t *testing.T) {
	s := newTestSolver(t)
	attack := RecordedAttack{
		Patrol: 9, Attack: 9,
		OwnCourse:    90,
		TargetCourse: 180, TargetSpeed: 8, TargetRange: -100,
		TargetBearing: f64(100),
	}

	_, err := Compare(s, attack)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "P9A9")
}
