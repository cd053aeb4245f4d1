package analog

import (
	"context"
	"fmt"
	"math"

	"go.opentelemetry.io/otel/metric"

	"github.com/jmknapp/cobia-patrols/internal/geo"
	"github.com/jmknapp/cobia-patrols/internal/tdc"
)

// DefaultStep is the time step, in seconds, the renderer animates at.
const DefaultStep = 0.1

// Inputs is the full set of dials on the face of the machine.
type Inputs struct {
	OwnSpeed      float64 `json:"ownSpeed"`
	OwnCourse     float64 `json:"ownCourse"`
	TargetSpeed   float64 `json:"targetSpeed"`
	TargetCourse  float64 `json:"targetCourse"`
	TargetBearing float64 `json:"targetBearing"`
	TargetRange   float64 `json:"targetRange"`
	TorpedoSpeed  float64 `json:"torpedoSpeed"`
}

// Mark3 is the combined machine: Position Keeper feeding Angle Solver.
// Step drives both sections with one shared time step and routes the
// keeper's outputs, plus a straight-line gyro estimate standing in for the
// follow-up servos, onto the solver's input shafts.
type Mark3 struct {
	keeper *Graph
	solver *Graph

	inputs  Inputs
	elapsed float64

	steps metric.Int64Counter
}

// NewMark3 builds and wires both sections.
// Uses the global OTel meter for metrics (no-op if not configured).
func NewMark3() (*Mark3, error) {
	keeper, err := NewPositionKeeper()
	if err != nil {
		return nil, fmt.Errorf("building position keeper: %w", err)
	}
	solver, err := NewAngleSolver()
	if err != nil {
		return nil, fmt.Errorf("building angle solver: %w", err)
	}

	m := &Mark3{keeper: keeper, solver: solver}

	m.steps, err = meter().Int64Counter(
		"tdc.mark3.steps",
		metric.WithDescription("Total simulation steps taken"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating steps counter: %w", err)
	}

	return m, nil
}

// SetInputs dials the attack picture onto the machine. A zero torpedo
// speed selects the Mark 14 high-speed setting.
func (m *Mark3) SetInputs(in Inputs) error {
	if in.TorpedoSpeed == 0 {
		in.TorpedoSpeed = tdc.Mark14SpeedHigh
	}
	m.inputs = in

	keeperDials := []struct {
		id string
		v  float64
	}{
		{"So", in.OwnSpeed},
		{"Co", in.OwnCourse},
		{"S", in.TargetSpeed},
		{"C", in.TargetCourse},
		{"B", in.TargetBearing},
		{"R", in.TargetRange},
		{"dT", 1}, // time motor turns at unit rate
		{"B180", geo.NormalizeAngle(in.TargetBearing + 180)},
	}
	for _, d := range keeperDials {
		if err := m.keeper.SetInput(d.id, d.v); err != nil {
			return err
		}
	}

	solverDials := []struct {
		id string
		v  float64
	}{
		{"R_in", in.TargetRange},
		{"S_in", in.TargetSpeed},
		{"Sz", in.TorpedoSpeed},
	}
	for _, d := range solverDials {
		if err := m.solver.SetInput(d.id, d.v); err != nil {
			return err
		}
	}
	return nil
}

// Step advances the whole machine by dt seconds.
func (m *Mark3) Step(dt float64) error {
	m.elapsed += dt

	m.keeper.Step(dt)

	br, err := m.keeper.Value("Br")
	if err != nil {
		return err
	}
	a, err := m.keeper.Value("A")
	if err != nil {
		return err
	}
	br = geo.NormalizeSigned(br)
	a = geo.NormalizeSigned(a)

	gyro, run := m.estimateGyro()

	followups := []struct {
		id string
		v  float64
	}{
		{"Br_in", br},
		{"A_in", a},
		{"GmBr", geo.NormalizeSigned(gyro - br)},
		{"I_in", geo.NormalizeSigned(gyro - br + a)},
		{"U_in", run},
	}
	for _, f := range followups {
		if err := m.solver.SetInput(f.id, f.v); err != nil {
			return err
		}
	}

	m.solver.Step(dt)
	m.steps.Add(context.Background(), 1)
	return nil
}

// estimateGyro is the straight-line intercept the follow-up loop would
// settle on, good enough to keep the dials live between full solver passes.
func (m *Mark3) estimateGyro() (gyro, run float64) {
	torpedoYps := tdc.KnotsToYardsPerSecond(m.inputs.TorpedoSpeed)
	if torpedoYps == 0 {
		return 0, 0
	}
	targetYps := tdc.KnotsToYardsPerSecond(m.inputs.TargetSpeed)

	runTime := m.inputs.TargetRange / torpedoYps
	advance := targetYps * runTime

	bearingEast, bearingNorth := geo.HeadingToVector(m.inputs.TargetBearing)
	courseEast, courseNorth := geo.HeadingToVector(m.inputs.TargetCourse)

	futureX := m.inputs.TargetRange*bearingEast + advance*courseEast
	futureY := m.inputs.TargetRange*bearingNorth + advance*courseNorth

	gyro = geo.NormalizeSigned(geo.VectorToHeading(futureX, futureY) - m.inputs.OwnCourse)
	run = math.Hypot(futureX, futureY)
	return gyro, run
}

// Elapsed returns the simulated seconds stepped so far.
func (m *Mark3) Elapsed() float64 {
	return m.elapsed
}

// Snapshot lists every component, Position Keeper section first.
func (m *Mark3) Snapshot() []State {
	return append(m.keeper.Snapshot(), m.solver.Snapshot()...)
}

// Value reads a shaft from either section.
func (m *Mark3) Value(id string) (float64, error) {
	if v, err := m.keeper.Value(id); err == nil {
		return v, nil
	}
	return m.solver.Value(id)
}
