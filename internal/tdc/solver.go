// Package tdc computes torpedo firing solutions the way the Torpedo Data
// Computer Mark III presented them: gyro angle, track angle, lead angle and
// run time for a straight-running steam torpedo, with the curved reach and
// turn of the torpedo's own path folded into the intercept.
package tdc

import (
	"context"
	"fmt"
	"math"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/jmknapp/cobia-patrols/internal/geo"
)

// Solver owns the torpedo ballistics and the iteration profile. It is cheap
// and safe to reuse across problems.
type Solver struct {
	ballistics Ballistics
	settings   Settings

	// OTEL metrics
	solutions metric.Int64Counter
	residuals metric.Float64Histogram
}

// NewSolver builds a solver for the given torpedo ballistics and iteration
// settings. Uses the global OTel meter for metrics (no-op if not configured).
func NewSolver(ballistics Ballistics, settings Settings) (*Solver, error) {
	s := &Solver{
		ballistics: ballistics,
		settings:   settings,
	}

	m := meter()

	var err error

	s.solutions, err = m.Int64Counter(
		"tdc.solver.solutions",
		metric.WithDescription("Total firing solutions computed"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating solutions counter: %w", err)
	}

	s.residuals, err = m.Float64Histogram(
		"tdc.solver.gyro_residual",
		metric.WithDescription("Gyro estimate movement on the final iteration in degrees"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating residual histogram: %w", err)
	}

	return s, nil
}

// Solve computes the firing solution for p. When withTrajectory is set the
// iteration accounts for the torpedo's reach and gyro turn, and the returned
// solution carries the full sampled path; otherwise the torpedo is treated
// as running straight from the tube.
//
// An error means the inputs were malformed. Infeasible geometry, where no
// lead angle can close the triangle, comes back as a solution with Valid
// false and the reason in Message.
func (s *Solver) Solve(p FiringProblem, withTrajectory bool) (FiringSolution, error) {
	p.Normalize()
	if err := p.Validate(); err != nil {
		return FiringSolution{}, err
	}
	if p.TorpedoSpeed == 0 {
		// Zero selects the stock Mark 14 high-speed setting. The command
		// layer substitutes the configured preset before it gets here.
		p.TorpedoSpeed = Mark14SpeedHigh
	}

	aob, aobSide := geo.AngleOnBow(p.OwnCourse, p.TargetBearing, p.TargetCourse)
	bearingRel := geo.RelativeBearing(p.OwnCourse, p.TargetBearing)

	torpedoYps := KnotsToYardsPerSecond(p.TorpedoSpeed)
	targetYps := KnotsToYardsPerSecond(p.TargetSpeed)

	// Target position now, own ship at the origin.
	bearingEast, bearingNorth := geo.HeadingToVector(p.TargetBearing)
	currentX := p.TargetRange * bearingEast
	currentY := p.TargetRange * bearingNorth

	courseEast, courseNorth := geo.HeadingToVector(p.TargetCourse)

	// Seed the run time as if the torpedo covered the present range in a
	// straight line, then let the iteration correct it.
	estimatedTime := p.TargetRange / torpedoYps

	gyro := 0.0
	torpedoHeading := p.OwnCourse
	var futureX, futureY float64
	residual := 0.0

	for iter := 0; iter < s.settings.Iterations; iter++ {
		advance := targetYps * estimatedTime
		futureX = currentX + advance*courseEast
		futureY = currentY + advance*courseNorth

		if withTrajectory && iter > 0 {
			t := ComputeCurvedTrajectory(s.ballistics, p.OwnCourse, gyro,
				p.TorpedoSpeed, geo.Point{X: futureX, Y: futureY})
			if t.TotalTime > 0 {
				estimatedTime = t.TotalTime
			}
		}

		prev := gyro
		exit, turning := TurnExit(s.ballistics, p.OwnCourse, gyro, p.TorpedoSpeed)
		if withTrajectory && turning {
			// Aim from where the turn actually ends, then damp the
			// correction so the estimate settles instead of hunting.
			required := geo.VectorToHeading(futureX-exit.X, futureY-exit.Y)
			next := geo.NormalizeSigned(required - p.OwnCourse)
			residual = math.Abs(geo.NormalizeSigned(next - prev))
			gyro = s.settings.Blend*next + (1-s.settings.Blend)*gyro
		} else {
			interceptBearing := geo.VectorToHeading(futureX, futureY)
			next := geo.NormalizeSigned(interceptBearing - p.OwnCourse)
			residual = math.Abs(geo.NormalizeSigned(next - prev))
			gyro = next
		}
		torpedoHeading = geo.NormalizeAngle(p.OwnCourse + gyro)
	}

	s.residuals.Record(context.Background(), residual)

	var trajectory *Trajectory
	var run, runTime float64
	if withTrajectory {
		t := ComputeCurvedTrajectory(s.ballistics, p.OwnCourse, gyro,
			p.TorpedoSpeed, geo.Point{X: futureX, Y: futureY})
		trajectory = &t
		run = t.TotalDistance
		runTime = t.TotalTime
	} else {
		run = math.Hypot(futureX, futureY)
		runTime = run / torpedoYps
	}

	trackRaw := geo.NormalizeSigned(torpedoHeading - p.TargetCourse + 180)
	track := math.Abs(trackRaw)
	side := geo.Starboard
	if trackRaw < 0 {
		side = geo.Port
	}

	converged := residual <= s.settings.ResidualLimitDeg

	lead, feasible := leadAngle(p.TargetSpeed, p.TorpedoSpeed, track)
	if !feasible {
		s.solutions.Add(context.Background(), 1,
			metric.WithAttributes(attribute.Bool("valid", false)))
		return FiringSolution{
			AngleOnBow:            aob,
			AOBSide:               aobSide,
			TargetBearingRelative: bearingRel,
			Valid:                 false,
			Message:               NoSolutionMessage,
			Converged:             converged,
			GyroResidual:          round1(residual),
		}, nil
	}

	s.solutions.Add(context.Background(), 1,
		metric.WithAttributes(attribute.Bool("valid", true)))

	return FiringSolution{
		GyroAngle:             round1(gyro),
		GyroAngle360:          round1(geo.NormalizeAngle(gyro)),
		TrackAngle:            round1(track),
		TrackSide:             side,
		AngleOnBow:            round1(aob),
		AOBSide:               aobSide,
		LeadAngle:             round1(lead),
		TorpedoRun:            math.Round(run),
		TorpedoRunTime:        round1(runTime),
		TorpedoHeading:        round1(torpedoHeading),
		TargetBearingRelative: round1(bearingRel),
		Valid:                 true,
		Message:               "Solution computed",
		Converged:             converged,
		GyroResidual:          round1(residual),
		Trajectory:            trajectory,
	}, nil
}

// leadAngle solves the torpedo triangle by the sine rule: the torpedo and
// the target must cover their legs in the same time, so
// sin(lead)/targetSpeed = sin(track)/torpedoSpeed. The second return is
// false when the sine exceeds unity and no lead angle closes the triangle.
func leadAngle(targetSpeedKnots, torpedoSpeedKnots, trackAngleDeg float64) (float64, bool) {
	sinLead := (targetSpeedKnots / torpedoSpeedKnots) * math.Sin(trackAngleDeg*math.Pi/180)
	if math.Abs(sinLead) > 1 {
		return 0, false
	}
	return math.Asin(sinLead) * 180 / math.Pi, true
}

// round1 rounds to the tenth of a degree or second the dials resolve.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
