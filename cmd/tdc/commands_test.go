package main

import (
	"flag"
	"io"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmknapp/cobia-patrols/internal/config"
	"github.com/jmknapp/cobia-patrols/internal/tdc"
)

func TestParseSelector(t *testing.T) {
	patrol, attack, err := parseSelector("P1A4")
	require.NoError(t, err)
	assert.Equal(t, 1, patrol)
	assert.Equal(t, 4, attack)

	patrol, attack, err = parseSelector("p3a12")
	require.NoError(t, err)
	assert.Equal(t, 3, patrol)
	assert.Equal(t, 12, attack)

	patrol, attack, err = parseSelector("P2")
	require.NoError(t, err)
	assert.Equal(t, 2, patrol)
	assert.Equal(t, 0, attack)

	patrol, attack, err = parseSelector("")
	require.NoError(t, err)
	assert.Zero(t, patrol)
	assert.Zero(t, attack)
}

func TestParseSelector_Invalid(t *testing.T) {
	for _, s := range []string{"A4", "P1A", "patrol 1", "1-4", "P1A4X"} {
		_, _, err := parseSelector(s)
		assert.Error(t, err, "selector %q", s)
	}
}

func TestRequireFlags(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Float64("own-course", 0, "")
	fs.Float64("target-range", 0, "")

	// Dialing in an explicit zero still counts as provided.
	require.NoError(t, fs.Parse([]string{"-own-course", "0"}))

	assert.NoError(t, requireFlags(fs, "own-course"))

	err := requireFlags(fs, "own-course", "target-range")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "-target-range")
}

func TestResolveTorpedoSpeed(t *testing.T) {
	t.Cleanup(viper.Reset)
	require.NoError(t, config.Load(t.TempDir()))

	speed, err := resolveTorpedoSpeed("", 0)
	require.NoError(t, err)
	assert.InDelta(t, tdc.Mark14SpeedHigh, speed, 1e-9)

	speed, err = resolveTorpedoSpeed("mark18", 0)
	require.NoError(t, err)
	assert.InDelta(t, 29.0, speed, 1e-9)

	speed, err = resolveTorpedoSpeed("mark18", 33.5)
	require.NoError(t, err)
	assert.InDelta(t, 33.5, speed, 1e-9)

	_, err = resolveTorpedoSpeed("mark10", 0)
	assert.Error(t, err)
}

func TestMinSec(t *testing.T) {
	assert.Equal(t, "0:45", minSec(45.2))
	assert.Equal(t, "1:17", minSec(77.6))
	assert.Equal(t, "2:00", minSec(120))
}
