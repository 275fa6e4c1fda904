// Package analysis answers questions about a circuit without editing it.
//
// TruthTable runs the simulator once per INPUT assignment, so it shows
// exactly what Simulate would display. Satisfy reasons about the settled
// combinational function instead and uses a SAT solver, so it is not bounded
// by the number of INPUT nodes.
package analysis

import (
	"errors"
	"fmt"

	"logicsim/internal/domain"
	"logicsim/internal/simulate"
)

// MaxTableInputs bounds the number of INPUT nodes TruthTable enumerates
const MaxTableInputs = 16

// ErrTooManyInputs is returned by TruthTable for circuits with more than MaxTableInputs INPUT nodes
var ErrTooManyInputs = errors.New("too many inputs for a truth table")

// Column identifies one INPUT or OUTPUT node in a table
type Column struct {
	ID    domain.NodeID `json:"id"`
	Label string        `json:"label"`
}

// Row is one INPUT assignment and the OUTPUT states it produces
type Row struct {
	Inputs  []bool `json:"inputs"`
	Outputs []bool `json:"outputs"`
}

// Table is the truth table of a circuit. Inputs and Outputs follow node
// insertion order; rows count up in binary with the first input as the
// most significant bit.
type Table struct {
	Inputs  []Column `json:"inputs"`
	Outputs []Column `json:"outputs"`
	Rows    []Row    `json:"rows"`
}

// TruthTable simulates g for every assignment of its INPUT nodes
func TruthTable(g *domain.Graph) (*Table, error) {
	var inputIdx, outputIdx []int
	t := &Table{Inputs: []Column{}, Outputs: []Column{}}
	for i, n := range g.Nodes {
		switch n.Type {
		case domain.NodeTypeInput:
			inputIdx = append(inputIdx, i)
			t.Inputs = append(t.Inputs, Column{ID: n.ID, Label: n.Label})
		case domain.NodeTypeOutput:
			outputIdx = append(outputIdx, i)
			t.Outputs = append(t.Outputs, Column{ID: n.ID, Label: n.Label})
		}
	}
	if len(inputIdx) > MaxTableInputs {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManyInputs, len(inputIdx), MaxTableInputs)
	}

	count := 1 << len(inputIdx)
	t.Rows = make([]Row, 0, count)
	work := g.Clone()
	for r := 0; r < count; r++ {
		row := Row{
			Inputs:  make([]bool, len(inputIdx)),
			Outputs: make([]bool, len(outputIdx)),
		}
		for k, idx := range inputIdx {
			v := r&(1<<(len(inputIdx)-1-k)) != 0
			row.Inputs[k] = v
			work.Nodes[idx].State = v
		}

		out := simulate.Run(work)
		for k, idx := range outputIdx {
			row.Outputs[k] = out.Nodes[idx].State
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}
