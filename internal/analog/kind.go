package analog

import "math"

// Kind identifies the mechanical variant of a component. The set is closed:
// every dial and gear train in the machine is one of these.
type Kind int

const (
	KindInput Kind = iota
	KindDifferential
	KindIntegrator
	KindResolver
	KindCam
	KindSynchro
	KindOutput
)

// String returns the lowercase name the renderer keys component art off.
func (k Kind) String() string {
	switch k {
	case KindInput:
		return "input"
	case KindDifferential:
		return "differential"
	case KindIntegrator:
		return "integrator"
	case KindResolver:
		return "resolver"
	case KindCam:
		return "cam"
	case KindSynchro:
		return "synchro"
	case KindOutput:
		return "output"
	default:
		return "unknown"
	}
}

// MarshalText encodes kinds by name in snapshots.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Op selects whether a differential adds or subtracts its second input.
type Op int

const (
	Add Op = iota
	Subtract
)

// CamProfile selects the machined function ground into a cam. Profiles are
// a closed set so a topology stays fully inspectable.
type CamProfile int

const (
	Linear CamProfile = iota
	Sine
	Cosine
	// Reach approximates the torpedo's straight reach out of the tube, in
	// yards, as a function of gyro angle.
	Reach
	// Transfer approximates the lateral displacement picked up during the
	// gyro turn, in yards, as a function of gyro angle.
	Transfer
)

func (p CamProfile) value(x float64) float64 {
	switch p {
	case Sine:
		return math.Sin(x * math.Pi / 180)
	case Cosine:
		return math.Cos(x * math.Pi / 180)
	case Reach:
		return 75 + math.Abs(x)*0.5
	case Transfer:
		return math.Abs(x) * 2
	default:
		return x
	}
}
