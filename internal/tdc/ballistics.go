package tdc

// Ballistics describes how a torpedo physically runs once fired. The stock
// values model a Mark 14: the gyro engages about 75 yards out of the tube
// and steers a 4 degree-per-second turn, giving a turn radius near 370
// yards at high speed.
type Ballistics struct {
	InitialRunYards float64 `json:"initialRunYards" mapstructure:"initialRunYards"`
	TurnRateDegSec  float64 `json:"turnRateDegSec" mapstructure:"turnRateDegSec"`
}

// DefaultBallistics returns the Mark 14 turn characteristics.
func DefaultBallistics() Ballistics {
	return Ballistics{
		InitialRunYards: 75,
		TurnRateDegSec:  4.0,
	}
}

// Settings tunes the solver's fixed-point iteration.
type Settings struct {
	Iterations       int     `json:"iterations" mapstructure:"iterations"`
	Blend            float64 `json:"blend" mapstructure:"blend"`
	ResidualLimitDeg float64 `json:"residualLimitDeg" mapstructure:"residualLimitDeg"`
}

// DefaultSettings returns the iteration profile the site's solution tables
// were generated with: ten damped iterations weighting each new gyro
// estimate at 0.7 against 0.3 of the previous one.
func DefaultSettings() Settings {
	return Settings{
		Iterations:       10,
		Blend:            0.7,
		ResidualLimitDeg: 0.5,
	}
}
