package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// LoggingConfig mirrors the top level logLevel / logsDir keys.
type LoggingConfig struct {
	Level string
	Dir   string
}

// SolverConfig holds firing solution iteration settings.
type SolverConfig struct {
	Iterations    int     `json:"iterations" mapstructure:"iterations"`
	Blend         float64 `json:"blend" mapstructure:"blend"`
	ResidualLimit float64 `json:"residualLimit" mapstructure:"residualLimit"`
}

// BallisticsConfig holds torpedo turn characteristics.
type BallisticsConfig struct {
	InitialRunYards float64 `json:"initialRunYards" mapstructure:"initialRunYards"`
	TurnRateDegSec  float64 `json:"turnRateDegSec" mapstructure:"turnRateDegSec"`
}

// OutputConfig holds recording export settings.
type OutputConfig struct {
	Dir      string `json:"dir" mapstructure:"dir"`
	Compress bool   `json:"compress" mapstructure:"compress"`
}

// SimConfig holds simulator stepping settings.
type SimConfig struct {
	Step    float64 `json:"step" mapstructure:"step"`
	Seconds float64 `json:"seconds" mapstructure:"seconds"`
}

// ChartConfig anchors local yard coordinates on the chart.
type ChartConfig struct {
	Lat float64 `json:"lat" mapstructure:"lat"`
	Lon float64 `json:"lon" mapstructure:"lon"`
}

// Load sets default values and overlays an optional tdc.cfg.json from
// configDir. A missing file is fine; a malformed one is not.
func Load(configDir string) error {
	// Set default values
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./logs")

	viper.SetDefault("output.dir", "./recordings")
	viper.SetDefault("output.compress", false)

	viper.SetDefault("solver.iterations", 10)
	viper.SetDefault("solver.blend", 0.7)
	viper.SetDefault("solver.residualLimit", 0.5)

	viper.SetDefault("ballistics.initialRunYards", 75.0)
	viper.SetDefault("ballistics.turnRateDegSec", 4.0)

	viper.SetDefault("torpedoes.mark14-high", 46.0)
	viper.SetDefault("torpedoes.mark14-low", 31.5)
	viper.SetDefault("torpedoes.mark18", 29.0)
	viper.SetDefault("defaultTorpedo", "mark14-high")

	viper.SetDefault("sim.step", 0.1)
	viper.SetDefault("sim.seconds", 5.0)

	viper.SetDefault("chart.lat", 27.25)
	viper.SetDefault("chart.lon", 140.33)

	viper.SetConfigName("tdc.cfg.json")
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %v", err)
		}
	}

	return nil
}

// GetLoggingConfig returns logging settings.
func GetLoggingConfig() LoggingConfig {
	return LoggingConfig{
		Level: viper.GetString("logLevel"),
		Dir:   viper.GetString("logsDir"),
	}
}

// GetSolverConfig returns solver settings.
func GetSolverConfig() SolverConfig {
	var cfg SolverConfig
	_ = viper.UnmarshalKey("solver", &cfg)
	return cfg
}

// GetBallisticsConfig returns ballistics settings.
func GetBallisticsConfig() BallisticsConfig {
	var cfg BallisticsConfig
	_ = viper.UnmarshalKey("ballistics", &cfg)
	return cfg
}

// GetOutputConfig returns recording output settings.
func GetOutputConfig() OutputConfig {
	var cfg OutputConfig
	_ = viper.UnmarshalKey("output", &cfg)
	return cfg
}

// GetSimConfig returns simulator stepping settings.
func GetSimConfig() SimConfig {
	var cfg SimConfig
	_ = viper.UnmarshalKey("sim", &cfg)
	return cfg
}

// GetChartConfig returns the chart anchor.
func GetChartConfig() ChartConfig {
	var cfg ChartConfig
	_ = viper.UnmarshalKey("chart", &cfg)
	return cfg
}

// GetTorpedoes returns the configured torpedo speed presets in knots.
func GetTorpedoes() map[string]float64 {
	out := map[string]float64{}
	_ = viper.UnmarshalKey("torpedoes", &out)
	return out
}

// TorpedoSpeed resolves a preset name to knots.
func TorpedoSpeed(name string) (float64, bool) {
	speed, ok := GetTorpedoes()[name]
	return speed, ok
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}
