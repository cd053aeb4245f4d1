// Package analog simulates the mechanical dataflow of the Torpedo Data
// Computer Mark III: shafts, gears and dials wired into a directed graph
// that is stepped through simulated time for the renderer.
package analog

import (
	"fmt"
	"strings"
)

// Builder assembles a component topology. Components are declared in the
// order the renderer lays them out; input references may point forward.
// Build resolves and validates the whole assembly, so a wiring mistake is
// a build-time error, never a step-time failure.
type Builder struct {
	components []*component
	section    string
}

func NewBuilder() *Builder {
	return &Builder{}
}

// Section labels every component added after it.
func (b *Builder) Section(label string) *Builder {
	b.section = label
	return b
}

func (b *Builder) add(c *component) *Builder {
	c.section = b.section
	b.components = append(b.components, c)
	return b
}

// Input adds a dial whose value is set from outside the graph.
func (b *Builder) Input(id, name string) *Builder {
	return b.add(&component{id: id, name: name, kind: KindInput})
}

// Output adds a read-out dial on the referenced shaft.
func (b *Builder) Output(id, name, src string) *Builder {
	return b.add(&component{id: id, name: name, kind: KindOutput, refs: []string{src}})
}

// Differential adds a bevel-gear differential combining two shafts.
func (b *Builder) Differential(id, name string, op Op, first, second string) *Builder {
	return b.add(&component{
		id: id, name: name, kind: KindDifferential,
		op: op, refs: []string{first, second},
	})
}

// Integrator adds a disc-and-roller integrator: the roller shaft carries
// the multiplicand, the rate shaft drives the disc.
func (b *Builder) Integrator(id, name, roller, rate string) *Builder {
	return b.add(&component{
		id: id, name: name, kind: KindIntegrator,
		refs: []string{roller, rate},
	})
}

// Resolver adds an angle resolver with sin and cos taps. Downstream
// components reference the taps as "id:sin" and "id:cos".
func (b *Builder) Resolver(id, name, angle string) *Builder {
	return b.add(&component{
		id: id, name: name, kind: KindResolver,
		refs: []string{angle},
	})
}

// Cam adds a machined-profile cam on one shaft.
func (b *Builder) Cam(id, name string, profile CamProfile, in string) *Builder {
	return b.add(&component{
		id: id, name: name, kind: KindCam,
		profile: profile, refs: []string{in},
	})
}

// Synchro adds an electrical pass-through between sections.
func (b *Builder) Synchro(id, name, in string) *Builder {
	return b.add(&component{id: id, name: name, kind: KindSynchro, refs: []string{in}})
}

// Build resolves every reference and fixes the evaluation order. It rejects
// duplicate IDs, references to unknown components, sin/cos taps on anything
// but a resolver, and cyclic wiring.
func (b *Builder) Build() (*Graph, error) {
	index := make(map[string]int, len(b.components))
	for i, c := range b.components {
		if _, dup := index[c.id]; dup {
			return nil, fmt.Errorf("duplicate component id %q", c.id)
		}
		index[c.id] = i
	}

	for _, c := range b.components {
		c.ports = make([]portRef, 0, len(c.refs))
		for _, ref := range c.refs {
			p, err := b.resolve(index, ref)
			if err != nil {
				return nil, fmt.Errorf("component %q: %w", c.id, err)
			}
			c.ports = append(c.ports, p)
		}
	}

	order, err := b.sort()
	if err != nil {
		return nil, err
	}

	return &Graph{components: b.components, index: index, order: order}, nil
}

func (b *Builder) resolve(index map[string]int, ref string) (portRef, error) {
	id := ref
	p := portValue
	if base, tap, ok := strings.Cut(ref, ":"); ok {
		id = base
		switch tap {
		case "sin":
			p = portSin
		case "cos":
			p = portCos
		default:
			return portRef{}, fmt.Errorf("unknown tap %q in reference %q", tap, ref)
		}
	}

	i, ok := index[id]
	if !ok {
		return portRef{}, fmt.Errorf("unknown input %q", ref)
	}
	if p != portValue && b.components[i].kind != KindResolver {
		return portRef{}, fmt.Errorf("reference %q taps %q, which is not a resolver", ref, id)
	}
	return portRef{index: i, port: p}, nil
}

// sort returns a topological evaluation order (Kahn's algorithm), keeping
// declaration order among components that become ready together.
func (b *Builder) sort() ([]int, error) {
	n := len(b.components)
	indegree := make([]int, n)
	dependents := make([][]int, n)
	for i, c := range b.components {
		for _, p := range c.ports {
			indegree[i]++
			dependents[p.index] = append(dependents[p.index], i)
		}
	}

	queue := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if indegree[i] == 0 {
			queue = append(queue, i)
		}
	}

	order := make([]int, 0, n)
	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]
		order = append(order, i)
		for _, d := range dependents[i] {
			indegree[d]--
			if indegree[d] == 0 {
				queue = append(queue, d)
			}
		}
	}

	if len(order) != n {
		for i, c := range b.components {
			if indegree[i] > 0 {
				return nil, fmt.Errorf("cyclic wiring through component %q", c.id)
			}
		}
	}
	return order, nil
}
