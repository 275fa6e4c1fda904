package analysis

import (
	"errors"
	"fmt"

	"github.com/go-air/gini"
	"github.com/go-air/gini/z"

	"logicsim/internal/domain"
)

var (
	// ErrCyclic is returned when the fan-in of the target contains a cycle
	ErrCyclic = errors.New("circuit has a cycle")
	// ErrUnsatisfiable is returned when no INPUT assignment drives the target true
	ErrUnsatisfiable = errors.New("no input assignment drives the node true")
)

// Binding is the value chosen for one INPUT node
type Binding struct {
	ID    domain.NodeID `json:"id"`
	Label string        `json:"label"`
	Value bool          `json:"value"`
}

// Witness is an INPUT assignment that drives the target node true.
// Only INPUT nodes in the target's fan-in are listed, in insertion order.
type Witness struct {
	Target domain.NodeID `json:"target"`
	Inputs []Binding     `json:"inputs"`
}

// Satisfy searches for an INPUT assignment under which the settled value of
// node target is true. Missing sources read as false and empty inputs follow
// the simulator's literals.
func Satisfy(g *domain.Graph, target domain.NodeID) (*Witness, error) {
	if !g.HasNode(target) {
		return nil, fmt.Errorf("node %d: %w", target, domain.ErrNodeNotFound)
	}

	cone, err := fanIn(g, target)
	if err != nil {
		return nil, err
	}

	// variable 1 is constant false; cone node k is variable k+2
	vars := make(map[domain.NodeID]z.Lit, len(cone))
	for k, i := range cone {
		vars[g.Nodes[i].ID] = z.Var(k + 2).Pos()
	}
	falseLit := z.Var(1).Pos()

	s := gini.New()
	clause(s, falseLit.Not())

	for _, i := range cone {
		n := g.Nodes[i]
		if n.Type == domain.NodeTypeInput {
			continue
		}
		ins := make([]z.Lit, len(n.Inputs))
		for k, src := range n.Inputs {
			if lit, ok := vars[src]; ok {
				ins[k] = lit
			} else {
				ins[k] = falseLit
			}
		}
		encode(s, n.Type, vars[n.ID], ins)
	}
	clause(s, vars[target])

	if s.Solve() != 1 {
		return nil, fmt.Errorf("node %d: %w", target, ErrUnsatisfiable)
	}

	w := &Witness{Target: target, Inputs: []Binding{}}
	for _, i := range cone {
		n := g.Nodes[i]
		if n.Type != domain.NodeTypeInput {
			continue
		}
		w.Inputs = append(w.Inputs, Binding{ID: n.ID, Label: n.Label, Value: s.Value(vars[n.ID])})
	}
	return w, nil
}

// encode adds the clauses making v equal to the gate function of ins
func encode(s *gini.Gini, t domain.NodeType, v z.Lit, ins []z.Lit) {
	switch t {
	case domain.NodeTypeAnd:
		// v -> x_i for every input; (x_1 & ... & x_n) -> v
		back := []z.Lit{v}
		for _, x := range ins {
			clause(s, v.Not(), x)
			back = append(back, x.Not())
		}
		clause(s, back...)
	case domain.NodeTypeOr:
		fwd := []z.Lit{v.Not()}
		for _, x := range ins {
			clause(s, v, x.Not())
			fwd = append(fwd, x)
		}
		clause(s, fwd...)
	case domain.NodeTypeNot:
		if len(ins) == 0 {
			clause(s, v.Not())
			return
		}
		clause(s, v, ins[0])
		clause(s, v.Not(), ins[0].Not())
	case domain.NodeTypeOutput:
		if len(ins) == 0 {
			clause(s, v.Not())
			return
		}
		clause(s, v.Not(), ins[0])
		clause(s, v, ins[0].Not())
	}
}

func clause(s *gini.Gini, lits ...z.Lit) {
	for _, m := range lits {
		s.Add(m)
	}
	s.Add(0)
}

// fanIn returns the node indices target depends on, sources before sinks.
// NOT and OUTPUT only read their first input.
func fanIn(g *domain.Graph, target domain.NodeID) ([]int, error) {
	const (
		unvisited = iota
		active
		done
	)
	index := make(map[domain.NodeID]int, len(g.Nodes))
	for i, n := range g.Nodes {
		if _, seen := index[n.ID]; !seen {
			index[n.ID] = i
		}
	}

	mark := make([]int, len(g.Nodes))
	order := make([]int, 0, len(g.Nodes))

	var visit func(i int) error
	visit = func(i int) error {
		switch mark[i] {
		case active:
			return fmt.Errorf("node %d: %w", g.Nodes[i].ID, ErrCyclic)
		case done:
			return nil
		}
		mark[i] = active
		for _, src := range sources(g.Nodes[i]) {
			j, ok := index[src]
			if !ok {
				continue
			}
			if err := visit(j); err != nil {
				return err
			}
		}
		mark[i] = done
		order = append(order, i)
		return nil
	}

	if err := visit(index[target]); err != nil {
		return nil, err
	}
	return order, nil
}

func sources(n domain.Node) []domain.NodeID {
	switch n.Type {
	case domain.NodeTypeInput:
		return nil
	case domain.NodeTypeNot, domain.NodeTypeOutput:
		if len(n.Inputs) > 1 {
			return n.Inputs[:1]
		}
	}
	return n.Inputs
}
