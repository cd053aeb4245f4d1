package analog

import (
	"math"

	"github.com/jmknapp/cobia-patrols/internal/geo"
)

// port selects which shaft of an upstream component a reference taps.
type port int

const (
	portValue port = iota
	portSin
	portCos
)

// portRef is a reference resolved to a component index and shaft at build
// time.
type portRef struct {
	index int
	port  port
}

// State is one component's externally visible state after a step. The
// snapshot list of states is the only interface the renderer consumes.
type State struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Kind     Kind    `json:"kind"`
	Section  string  `json:"section,omitempty"`
	Rotation float64 `json:"rotation"`
	Value    float64 `json:"value"`
}

type component struct {
	id      string
	name    string
	section string
	kind    Kind

	op      Op         // differentials only
	profile CamProfile // cams only

	refs  []string  // as declared, for build diagnostics
	ports []portRef // resolved by Build

	value        float64
	sinOut       float64
	cosOut       float64
	accumulated  float64
	rotation     float64
	discRotation float64
}

// read returns the referenced shaft's current value.
func (g *Graph) read(p portRef) float64 {
	c := g.components[p.index]
	switch p.port {
	case portSin:
		return c.sinOut
	case portCos:
		return c.cosOut
	default:
		return c.value
	}
}

// evaluate advances one component by dt. Inputs earlier in the evaluation
// order have already settled, so every read sees this step's values.
func (g *Graph) evaluate(c *component, dt float64) {
	switch c.kind {
	case KindInput:
		// Holds the last dialed value.
		c.rotation = geo.NormalizeAngle(c.value)

	case KindOutput:
		c.value = g.read(c.ports[0])
		c.rotation = geo.NormalizeAngle(c.value)

	case KindDifferential:
		a := g.read(c.ports[0])
		b := g.read(c.ports[1])
		if c.op == Subtract {
			c.value = a - b
		} else {
			c.value = a + b
		}
		c.rotation = geo.NormalizeAngle(c.rotation + c.value*dt*10)

	case KindIntegrator:
		roller := g.read(c.ports[0])
		rate := g.read(c.ports[1])
		c.accumulated += roller * rate * dt
		c.value = c.accumulated
		c.discRotation = geo.NormalizeAngle(c.discRotation + rate*dt*10)
		c.rotation = c.discRotation

	case KindResolver:
		angle := g.read(c.ports[0])
		c.sinOut = math.Sin(angle * math.Pi / 180)
		c.cosOut = math.Cos(angle * math.Pi / 180)
		c.value = angle
		c.rotation = geo.NormalizeAngle(angle)

	case KindCam:
		in := g.read(c.ports[0])
		c.value = c.profile.value(in)
		c.rotation = geo.NormalizeAngle(in * 2)

	case KindSynchro:
		c.value = g.read(c.ports[0])
		c.rotation = geo.NormalizeAngle(c.value)
	}
}
