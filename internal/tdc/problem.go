package tdc

import (
	"errors"
	"fmt"
	"math"

	"github.com/jmknapp/cobia-patrols/internal/geo"
)

// Torpedo speed settings from the attack data sheets, in knots.
const (
	Mark14SpeedHigh = 46.0
	Mark14SpeedLow  = 31.5
	Mark18Speed     = 29.0
)

// YardsPerNauticalMile converts between chart miles and fire control yards.
const YardsPerNauticalMile = 2025.4

// Malformed-input errors. Infeasible geometry is never an error; it is
// reported in-band on the solution.
var (
	ErrNotFinite     = errors.New("non-finite input")
	ErrNegativeInput = errors.New("negative input")
)

// KnotsToYardsPerSecond converts a speed in knots to yards per second.
func KnotsToYardsPerSecond(knots float64) float64 {
	return knots * YardsPerNauticalMile / 3600
}

// FiringProblem is one attack setup as dialed into the machine.
type FiringProblem struct {
	OwnCourse     float64 `json:"ownCourse"`     // compass degrees
	OwnSpeed      float64 `json:"ownSpeed"`      // knots
	TargetBearing float64 `json:"targetBearing"` // true compass degrees
	TargetRange   float64 `json:"targetRange"`   // yards
	TargetCourse  float64 `json:"targetCourse"`  // compass degrees
	TargetSpeed   float64 `json:"targetSpeed"`   // knots
	TorpedoSpeed  float64 `json:"torpedoSpeed"`  // knots; zero selects the configured preset
}

// Normalize wraps all course and bearing fields into [0, 360).
func (p *FiringProblem) Normalize() {
	p.OwnCourse = geo.NormalizeAngle(p.OwnCourse)
	p.TargetBearing = geo.NormalizeAngle(p.TargetBearing)
	p.TargetCourse = geo.NormalizeAngle(p.TargetCourse)
}

// Validate rejects values that could not have come off the dials:
// non-finite numbers anywhere, negative speeds or range.
func (p FiringProblem) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"ownCourse", p.OwnCourse},
		{"ownSpeed", p.OwnSpeed},
		{"targetBearing", p.TargetBearing},
		{"targetRange", p.TargetRange},
		{"targetCourse", p.TargetCourse},
		{"targetSpeed", p.TargetSpeed},
		{"torpedoSpeed", p.TorpedoSpeed},
	}
	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return fmt.Errorf("%s: %w", f.name, ErrNotFinite)
		}
	}

	if p.OwnSpeed < 0 {
		return fmt.Errorf("ownSpeed: %w", ErrNegativeInput)
	}
	if p.TargetRange < 0 {
		return fmt.Errorf("targetRange: %w", ErrNegativeInput)
	}
	if p.TargetSpeed < 0 {
		return fmt.Errorf("targetSpeed: %w", ErrNegativeInput)
	}
	if p.TorpedoSpeed < 0 {
		return fmt.Errorf("torpedoSpeed: %w", ErrNegativeInput)
	}
	return nil
}
