// Package verify replays attacks recorded in the boat's patrol reports
// through the solver and reports how the computed solution lines up with
// what the fire control party actually logged.
package verify

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jmknapp/cobia-patrols/internal/geo"
	"github.com/jmknapp/cobia-patrols/internal/tdc"
)

// DefaultOwnSpeedKnots is used when a report never states own speed.
// Submerged approaches were made at steerage way.
const DefaultOwnSpeedKnots = 3.0

// RecordedAttack is one torpedo attack distilled from a patrol report.
// Quantities the report did not state are nil.
type RecordedAttack struct {
	Patrol     int    `json:"patrol"`
	Attack     int    `json:"attack"`
	Date       string `json:"date,omitempty"`
	TargetName string `json:"targetName,omitempty"`
	Result     string `json:"result,omitempty"`

	OwnCourse     float64  `json:"ownCourse"`
	OwnSpeed      float64  `json:"ownSpeed,omitempty"`
	TargetCourse  float64  `json:"targetCourse"`
	TargetSpeed   float64  `json:"targetSpeed"`
	TargetRange   float64  `json:"targetRange"`
	TargetBearing *float64 `json:"targetBearing,omitempty"`

	GyroAngle  *float64 `json:"gyroAngle,omitempty"`
	TrackAngle *float64 `json:"trackAngle,omitempty"`
	TrackSide  string   `json:"trackSide,omitempty"`
	AngleOnBow *float64 `json:"angleOnBow,omitempty"`
	AOBSide    string   `json:"aobSide,omitempty"`

	TorpedoesFired int `json:"torpedoesFired,omitempty"`
}

// Comparison pairs a recomputed solution with the recorded values.
// Deltas are computed minus recorded and nil where the report is silent.
type Comparison struct {
	Attack           RecordedAttack
	Problem          tdc.FiringProblem
	Solution         tdc.FiringSolution
	BearingEstimated bool
	GyroDelta        *float64
	TrackDelta       *float64
	AOBDelta         *float64
}

// attacksFile is the on-disk layout of the attack data.
type attacksFile struct {
	Boat    string           `json:"boat"`
	Source  string           `json:"source,omitempty"`
	Attacks []RecordedAttack `json:"attacks"`
}

// Load reads recorded attacks from a JSON data file.
func Load(path string) ([]RecordedAttack, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading attacks file: %w", err)
	}

	var file attacksFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing attacks file: %w", err)
	}
	return file.Attacks, nil
}

// Filter selects attacks by patrol and attack number. Zero matches any.
func Filter(attacks []RecordedAttack, patrol, attack int) []RecordedAttack {
	out := make([]RecordedAttack, 0, len(attacks))
	for _, a := range attacks {
		if patrol != 0 && a.Patrol != patrol {
			continue
		}
		if attack != 0 && a.Attack != attack {
			continue
		}
		out = append(out, a)
	}
	return out
}

// Compare reconstructs a firing problem from a recorded attack, solves it
// with the curved trajectory, and diffs every quantity the report logged.
//
// Most reports omit own speed and periscope bearing. Own speed falls back
// to DefaultOwnSpeedKnots; the bearing is reconstructed from own course
// plus the recorded gyro angle, which is where the torpedo was actually
// pointed.
func Compare(solver *tdc.Solver, attack RecordedAttack) (Comparison, error) {
	ownSpeed := attack.OwnSpeed
	if ownSpeed == 0 {
		ownSpeed = DefaultOwnSpeedKnots
	}

	var bearing float64
	estimated := false
	switch {
	case attack.TargetBearing != nil:
		bearing = *attack.TargetBearing
	case attack.GyroAngle != nil:
		bearing = geo.NormalizeAngle(attack.OwnCourse + *attack.GyroAngle)
		estimated = true
	default:
		return Comparison{}, fmt.Errorf(
			"attack P%dA%d records neither target bearing nor gyro angle",
			attack.Patrol, attack.Attack)
	}

	problem := tdc.FiringProblem{
		OwnCourse:     attack.OwnCourse,
		OwnSpeed:      ownSpeed,
		TargetBearing: bearing,
		TargetRange:   attack.TargetRange,
		TargetCourse:  attack.TargetCourse,
		TargetSpeed:   attack.TargetSpeed,
		TorpedoSpeed:  tdc.Mark14SpeedHigh,
	}

	solution, err := solver.Solve(problem, true)
	if err != nil {
		return Comparison{}, fmt.Errorf("solving attack P%dA%d: %w",
			attack.Patrol, attack.Attack, err)
	}

	cmp := Comparison{
		Attack:           attack,
		Problem:          problem,
		Solution:         solution,
		BearingEstimated: estimated,
	}
	if attack.GyroAngle != nil {
		cmp.GyroDelta = delta(solution.GyroAngle, *attack.GyroAngle)
	}
	if attack.TrackAngle != nil {
		cmp.TrackDelta = delta(solution.TrackAngle, *attack.TrackAngle)
	}
	if attack.AngleOnBow != nil {
		cmp.AOBDelta = delta(solution.AngleOnBow, *attack.AngleOnBow)
	}
	return cmp, nil
}

func delta(computed, recorded float64) *float64 {
	d := computed - recorded
	return &d
}
