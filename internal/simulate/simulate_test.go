package simulate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logicsim/internal/domain"
)

type nodeDef struct {
	id     domain.NodeID
	typ    domain.NodeType
	state  bool
	inputs []domain.NodeID
}

// graphOf builds a graph in the given storage order without touching geometry rules
func graphOf(defs ...nodeDef) *domain.Graph {
	g := domain.NewGraph()
	for i, s := range defs {
		n := domain.NewNode(s.id, s.typ, "", domain.NewPosition(float64(i)*100, 0))
		n.State = s.state
		n.Inputs = append(n.Inputs, s.inputs...)
		g.Nodes = append(g.Nodes, n)
		for _, src := range s.inputs {
			g.Connections = append(g.Connections, domain.NewConnection(src, s.id))
		}
	}
	return g
}

func stateOf(t *testing.T, g *domain.Graph, id domain.NodeID) bool {
	t.Helper()
	n, ok := g.Node(id)
	require.True(t, ok, "node %d missing", id)
	return n.State
}

func TestEvaluateEmptyInputs(t *testing.T) {
	assert.True(t, Evaluate(domain.NodeTypeAnd, nil), "AND with no inputs")
	assert.False(t, Evaluate(domain.NodeTypeOr, nil), "OR with no inputs")
	assert.False(t, Evaluate(domain.NodeTypeNot, nil), "NOT with no inputs")
	assert.False(t, Evaluate(domain.NodeTypeOutput, nil), "OUTPUT with no inputs")
}

func TestEvaluateRules(t *testing.T) {
	tests := []struct {
		name   string
		typ    domain.NodeType
		inputs []bool
		want   bool
	}{
		{"and all true", domain.NodeTypeAnd, []bool{true, true, true}, true},
		{"and one false", domain.NodeTypeAnd, []bool{true, false, true}, false},
		{"or one true", domain.NodeTypeOr, []bool{false, true}, true},
		{"or all false", domain.NodeTypeOr, []bool{false, false}, false},
		{"not true", domain.NodeTypeNot, []bool{true}, false},
		{"not false", domain.NodeTypeNot, []bool{false}, true},
		{"not reads first only", domain.NodeTypeNot, []bool{false, true}, true},
		{"output follows first", domain.NodeTypeOutput, []bool{true, false}, true},
		{"output ignores later", domain.NodeTypeOutput, []bool{false, true}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Evaluate(tt.typ, tt.inputs))
		})
	}
}

func TestRunLeavesInputsAndOriginalUntouched(t *testing.T) {
	g := graphOf(
		nodeDef{id: 1, typ: domain.NodeTypeInput, state: true},
		nodeDef{id: 2, typ: domain.NodeTypeInput, state: false},
		nodeDef{id: 3, typ: domain.NodeTypeOr, inputs: []domain.NodeID{1, 2}},
	)

	out := Run(g)

	assert.True(t, stateOf(t, out, 1))
	assert.False(t, stateOf(t, out, 2))
	assert.True(t, stateOf(t, out, 3))
	assert.False(t, stateOf(t, g, 3), "Run must not mutate its argument")
}

func TestRunEmptyInputQuirks(t *testing.T) {
	g := graphOf(
		nodeDef{id: 1, typ: domain.NodeTypeInput, state: true},
		nodeDef{id: 2, typ: domain.NodeTypeNot},
		nodeDef{id: 3, typ: domain.NodeTypeAnd},
		nodeDef{id: 4, typ: domain.NodeTypeOr},
		nodeDef{id: 5, typ: domain.NodeTypeOutput},
	)

	out := Run(g)

	assert.False(t, stateOf(t, out, 2), "NOT without inputs stays false")
	assert.True(t, stateOf(t, out, 3), "AND without inputs is vacuously true")
	assert.False(t, stateOf(t, out, 4))
	assert.False(t, stateOf(t, out, 5))
}

func TestRunMissingSourceReadsFalse(t *testing.T) {
	g := graphOf(
		nodeDef{id: 1, typ: domain.NodeTypeNot, inputs: []domain.NodeID{99}},
	)
	g.Connections = nil

	out := Run(g)
	assert.True(t, stateOf(t, out, 1), "NOT of a missing source is NOT false")
}

func TestRelaxIsOrderSensitive(t *testing.T) {
	// OUTPUT is stored before the NOT feeding it, so one pass cannot reach it
	forward := graphOf(
		nodeDef{id: 1, typ: domain.NodeTypeOutput, inputs: []domain.NodeID{2}},
		nodeDef{id: 2, typ: domain.NodeTypeNot, inputs: []domain.NodeID{3}},
		nodeDef{id: 3, typ: domain.NodeTypeInput},
	)
	topological := graphOf(
		nodeDef{id: 3, typ: domain.NodeTypeInput},
		nodeDef{id: 2, typ: domain.NodeTypeNot, inputs: []domain.NodeID{3}},
		nodeDef{id: 1, typ: domain.NodeTypeOutput, inputs: []domain.NodeID{2}},
	)

	Relax(forward, 1)
	Relax(topological, 1)

	assert.False(t, stateOf(t, forward, 1), "forward reference sees the stale NOT state")
	assert.True(t, stateOf(t, topological, 1), "same-pass update is visible downstream")

	Relax(forward, 1)
	assert.True(t, stateOf(t, forward, 1), "second pass carries the value through")
}

func TestRunStopsAfterFivePasses(t *testing.T) {
	// IN -> NOT x7 -> OUTPUT stored back to front: each pass advances one level
	defs := []nodeDef{{id: 100, typ: domain.NodeTypeOutput, inputs: []domain.NodeID{7}}}
	for id := domain.NodeID(7); id >= 1; id-- {
		defs = append(defs, nodeDef{id: id, typ: domain.NodeTypeNot, inputs: []domain.NodeID{id - 1}})
	}
	defs = append(defs, nodeDef{id: 0, typ: domain.NodeTypeInput})
	g := graphOf(defs...)

	out := Run(g)
	assert.False(t, stateOf(t, out, 100), "depth beyond the pass budget is not settled")

	Relax(out, 10)
	assert.True(t, stateOf(t, out, 100), "more passes settle the chain")
}

func TestRunCycleIsDeterministic(t *testing.T) {
	build := func() *domain.Graph {
		return graphOf(
			nodeDef{id: 1, typ: domain.NodeTypeNot, inputs: []domain.NodeID{2}},
			nodeDef{id: 2, typ: domain.NodeTypeNot, inputs: []domain.NodeID{1}},
		)
	}

	a, b := Run(build()), Run(build())
	assert.True(t, stateOf(t, a, 1))
	assert.False(t, stateOf(t, a, 2))
	assert.Equal(t, a, b)
}

func TestRunHalfAdder(t *testing.T) {
	// sum = (A OR B) AND NOT (A AND B); carry = A AND B
	for _, tc := range []struct{ a, b, sum, carry bool }{
		{false, false, false, false},
		{false, true, true, false},
		{true, false, true, false},
		{true, true, false, true},
	} {
		g := graphOf(
			nodeDef{id: 1, typ: domain.NodeTypeInput, state: tc.a},
			nodeDef{id: 2, typ: domain.NodeTypeInput, state: tc.b},
			nodeDef{id: 3, typ: domain.NodeTypeOr, inputs: []domain.NodeID{1, 2}},
			nodeDef{id: 4, typ: domain.NodeTypeAnd, inputs: []domain.NodeID{1, 2}},
			nodeDef{id: 5, typ: domain.NodeTypeNot, inputs: []domain.NodeID{4}},
			nodeDef{id: 6, typ: domain.NodeTypeAnd, inputs: []domain.NodeID{3, 5}},
			nodeDef{id: 7, typ: domain.NodeTypeOutput, inputs: []domain.NodeID{6}},
			nodeDef{id: 8, typ: domain.NodeTypeOutput, inputs: []domain.NodeID{4}},
		)
		out := Run(g)
		assert.Equal(t, tc.sum, stateOf(t, out, 7), "sum for %v+%v", tc.a, tc.b)
		assert.Equal(t, tc.carry, stateOf(t, out, 8), "carry for %v+%v", tc.a, tc.b)
	}
}
