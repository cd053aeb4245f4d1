package analog

import "fmt"

// Graph is a built, validated component assembly. It is mutable state
// private to one simulator instance; callers must not step the same graph
// from two goroutines.
type Graph struct {
	components []*component
	index      map[string]int
	order      []int
}

// SetInput dials a value onto an input component.
func (g *Graph) SetInput(id string, value float64) error {
	i, ok := g.index[id]
	if !ok {
		return fmt.Errorf("no component %q", id)
	}
	c := g.components[i]
	if c.kind != KindInput {
		return fmt.Errorf("component %q is a %s, not an input", id, c.kind)
	}
	c.value = value
	return nil
}

// Step advances every component once, in dependency order, with one shared
// time step. Only integrators carry state between steps; everything else
// settles instantaneously against the current inputs.
func (g *Graph) Step(dt float64) {
	for _, i := range g.order {
		g.evaluate(g.components[i], dt)
	}
}

// Value reads a component's primary output shaft.
func (g *Graph) Value(id string) (float64, error) {
	i, ok := g.index[id]
	if !ok {
		return 0, fmt.Errorf("no component %q", id)
	}
	return g.components[i].value, nil
}

// Snapshot lists every component's state in declaration order.
func (g *Graph) Snapshot() []State {
	states := make([]State, 0, len(g.components))
	for _, c := range g.components {
		states = append(states, State{
			ID:       c.id,
			Name:     c.name,
			Kind:     c.kind,
			Section:  c.section,
			Rotation: c.rotation,
			Value:    c.value,
		})
	}
	return states
}
