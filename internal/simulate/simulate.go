// Package simulate evaluates a circuit by bounded sequential relaxation.
//
// The engine runs a fixed number of passes over the nodes in their stored
// order. Within a pass every node reads the current states of its sources,
// including states already updated earlier in the same pass. Evaluation order
// therefore affects intermediate values when a node is fed by a node stored
// after it, and no convergence check is made. Acyclic circuits whose
// dependency depth does not exceed the pass count settle to their
// combinational values; cycles and deeper circuits yield a deterministic
// but not necessarily settled result.
package simulate

import "logicsim/internal/domain"

// Passes is the number of full relaxation passes per run
const Passes = 5

// Run returns a copy of g with the state of every non-INPUT node recomputed.
// INPUT states are left exactly as they are.
func Run(g *domain.Graph) *domain.Graph {
	out := g.Clone()
	Relax(out, Passes)
	return out
}

// Relax performs passes in-place relaxation passes over g
func Relax(g *domain.Graph, passes int) {
	index := make(map[domain.NodeID]int, len(g.Nodes))
	for i, n := range g.Nodes {
		// first occurrence wins, matching a front-to-back lookup
		if _, seen := index[n.ID]; !seen {
			index[n.ID] = i
		}
	}

	states := make([]bool, 0, 8)
	for pass := 0; pass < passes; pass++ {
		for i := range g.Nodes {
			n := &g.Nodes[i]
			if n.Type == domain.NodeTypeInput {
				continue
			}
			states = states[:0]
			for _, src := range n.Inputs {
				j, ok := index[src]
				states = append(states, ok && g.Nodes[j].State)
			}
			n.State = Evaluate(n.Type, states)
		}
	}
}

// Evaluate applies the update rule of a gate type to its resolved input states.
// Empty inputs evaluate to true for AND and to false for OR, NOT and OUTPUT.
func Evaluate(t domain.NodeType, inputs []bool) bool {
	switch t {
	case domain.NodeTypeAnd:
		for _, v := range inputs {
			if !v {
				return false
			}
		}
		return true
	case domain.NodeTypeOr:
		for _, v := range inputs {
			if v {
				return true
			}
		}
		return false
	case domain.NodeTypeNot:
		if len(inputs) == 0 {
			return false
		}
		return !inputs[0]
	case domain.NodeTypeOutput:
		if len(inputs) == 0 {
			return false
		}
		return inputs[0]
	}
	return false
}
