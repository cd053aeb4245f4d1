package tdc

import "github.com/jmknapp/cobia-patrols/internal/geo"

// NoSolutionMessage is reported when no lead angle closes the torpedo
// triangle at the computed geometry.
const NoSolutionMessage = "No solution - target speed exceeds torpedo capability at this angle"

// FiringSolution is everything the fire control party reads off the machine
// once the problem settles. Angles and distances are rounded the way the
// site's attack tables print them. When Valid is false only AngleOnBow,
// TargetBearingRelative and Message carry meaning.
type FiringSolution struct {
	GyroAngle    float64 `json:"gyroAngle"`    // signed, [-180, 180]
	GyroAngle360 float64 `json:"gyroAngle360"` // same setting on the 0-360 dial

	TrackAngle float64  `json:"trackAngle"` // [0, 180]
	TrackSide  geo.Side `json:"trackSide"`

	AngleOnBow float64  `json:"angleOnBow"` // [0, 180]
	AOBSide    geo.Side `json:"aobSide"`

	LeadAngle             float64 `json:"leadAngle"`
	TorpedoRun            float64 `json:"torpedoRun"`     // yards
	TorpedoRunTime        float64 `json:"torpedoRunTime"` // seconds
	TorpedoHeading        float64 `json:"torpedoHeading"`
	TargetBearingRelative float64 `json:"targetBearingRelative"`

	Valid   bool   `json:"valid"`
	Message string `json:"message"`

	// Converged reports whether the final undamped gyro estimate moved less
	// than the configured residual limit. It never affects Valid.
	Converged    bool    `json:"converged"`
	GyroResidual float64 `json:"gyroResidual"` // degrees

	Trajectory *Trajectory `json:"trajectory,omitempty"`
}
