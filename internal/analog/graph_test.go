package analog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildGraph(t *testing.T, b *Builder) *Graph {
	t.Helper()
	g, err := b.Build()
	require.NoError(t, err)
	return g
}

func TestGraph_SetInput_Errors(t *testing.T) {
	b := NewBuilder()
	b.Input("a", "A")
	b.Synchro("s", "S", "a")
	g := buildGraph(t, b)

	assert.Error(t, g.SetInput("nope", 1))
	assert.Error(t, g.SetInput("s", 1))
	assert.NoError(t, g.SetInput("a", 1))
}

func TestGraph_DifferentialAddAndSubtract(t *testing.T) {
	b := NewBuilder()
	b.Input("a", "A")
	b.Input("b", "B")
	b.Differential("sum", "Sum", Add, "a", "b")
	b.Differential("diff", "Diff", Subtract, "a", "b")
	g := buildGraph(t, b)

	require.NoError(t, g.SetInput("a", 30))
	require.NoError(t, g.SetInput("b", 10))
	g.Step(0.1)

	sum, err := g.Value("sum")
	require.NoError(t, err)
	assert.InDelta(t, 40, sum, 1e-12)

	diff, err := g.Value("diff")
	require.NoError(t, err)
	assert.InDelta(t, 20, diff, 1e-12)
}

func TestGraph_IntegratorAccumulates(t *testing.T) {
	b := NewBuilder()
	b.Input("roller", "Roller")
	b.Input("rate", "Rate")
	b.Integrator("int", "Integrator", "roller", "rate")
	g := buildGraph(t, b)

	require.NoError(t, g.SetInput("roller", 1))
	require.NoError(t, g.SetInput("rate", 1))
	for i := 0; i < 5; i++ {
		g.Step(1)
	}

	v, err := g.Value("int")
	require.NoError(t, err)
	assert.InDelta(t, 5, v, 1e-9)
}

func TestGraph_IntegratorScalesWithRollerAndRate(t *testing.T) {
	b := NewBuilder()
	b.Input("roller", "Roller")
	b.Input("rate", "Rate")
	b.Integrator("int", "Integrator", "roller", "rate")
	g := buildGraph(t, b)

	require.NoError(t, g.SetInput("roller", 3))
	require.NoError(t, g.SetInput("rate", 2))
	for i := 0; i < 10; i++ {
		g.Step(0.1)
	}

	v, err := g.Value("int")
	require.NoError(t, err)
	assert.InDelta(t, 6, v, 1e-9)
}

func TestGraph_ResolverTaps(t *testing.T) {
	b := NewBuilder()
	b.Input("angle", "Angle")
	b.Resolver("r", "Resolver", "angle")
	b.Differential("taps", "Taps", Add, "r:sin", "r:cos")
	g := buildGraph(t, b)

	require.NoError(t, g.SetInput("angle", 30))
	g.Step(0.1)

	through, err := g.Value("r")
	require.NoError(t, err)
	assert.InDelta(t, 30, through, 1e-12)

	taps, err := g.Value("taps")
	require.NoError(t, err)
	assert.InDelta(t, 0.5+0.8660254, taps, 1e-6)
}

func TestGraph_SynchroPassesThrough(t *testing.T) {
	b := NewBuilder()
	b.Input("a", "A")
	b.Synchro("s", "S", "a")
	g := buildGraph(t, b)

	require.NoError(t, g.SetInput("a", 123.4))
	g.Step(0.1)

	v, err := g.Value("s")
	require.NoError(t, err)
	assert.InDelta(t, 123.4, v, 1e-12)
}

func TestCamProfile_Value(t *testing.T) {
	assert.InDelta(t, 42, Linear.value(42), 1e-12)
	assert.InDelta(t, 0.5, Sine.value(30), 1e-9)
	assert.InDelta(t, 0.5, Cosine.value(60), 1e-9)

	// Reach and transfer approximate torpedo turn geometry in yards.
	assert.InDelta(t, 95, Reach.value(40), 1e-12)
	assert.InDelta(t, 95, Reach.value(-40), 1e-12)
	assert.InDelta(t, 80, Transfer.value(40), 1e-12)
	assert.InDelta(t, 80, Transfer.value(-40), 1e-12)
}

func TestGraph_CamOnShaft(t *testing.T) {
	b := NewBuilder()
	b.Input("g", "Gyro")
	b.Cam("reach", "Reach Cam", Reach, "g")
	b.Cam("transfer", "Transfer Cam", Transfer, "g")
	g := buildGraph(t, b)

	require.NoError(t, g.SetInput("g", -20))
	g.Step(0.1)

	reach, err := g.Value("reach")
	require.NoError(t, err)
	assert.InDelta(t, 85, reach, 1e-12)

	transfer, err := g.Value("transfer")
	require.NoError(t, err)
	assert.InDelta(t, 40, transfer, 1e-12)
}

func TestGraph_RotationStaysWrapped(t *testing.T) {
	b := NewBuilder()
	b.Input("a", "A")
	b.Input("b", "B")
	b.Differential("d", "D", Add, "a", "b")
	g := buildGraph(t, b)

	require.NoError(t, g.SetInput("a", 500))
	require.NoError(t, g.SetInput("b", 700))
	for i := 0; i < 50; i++ {
		g.Step(0.1)
	}

	for _, s := range g.Snapshot() {
		assert.GreaterOrEqual(t, s.Rotation, 0.0, "component %s", s.ID)
		assert.Less(t, s.Rotation, 360.0, "component %s", s.ID)
	}
}

func TestGraph_ValueUnknownComponent(t *testing.T) {
	g := buildGraph(t, NewBuilder())
	_, err := g.Value("ghost")
	assert.Error(t, err)
}
