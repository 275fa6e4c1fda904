package domain

import "fmt"

// Graph is the complete circuit: nodes in insertion order plus their connections.
// Node order is significant; the simulator relaxes nodes in this order.
type Graph struct {
	Nodes       []Node       `json:"nodes"`
	Connections []Connection `json:"connections"`
}

// NewGraph creates an empty graph with initialized collections
func NewGraph() *Graph {
	return &Graph{
		Nodes:       make([]Node, 0),
		Connections: make([]Connection, 0),
	}
}

// Clone returns a deep copy of the graph
func (g *Graph) Clone() *Graph {
	out := &Graph{
		Nodes:       make([]Node, len(g.Nodes)),
		Connections: make([]Connection, len(g.Connections)),
	}
	for i, n := range g.Nodes {
		out.Nodes[i] = n.Clone()
	}
	copy(out.Connections, g.Connections)
	return out
}

// IndexOf returns the position of the node in Nodes, or -1
func (g *Graph) IndexOf(id NodeID) int {
	for i := range g.Nodes {
		if g.Nodes[i].ID == id {
			return i
		}
	}
	return -1
}

// Node returns a copy of the node with the given id
func (g *Graph) Node(id NodeID) (Node, bool) {
	i := g.IndexOf(id)
	if i < 0 {
		return Node{}, false
	}
	return g.Nodes[i].Clone(), true
}

// HasNode checks if a node exists
func (g *Graph) HasNode(id NodeID) bool {
	return g.IndexOf(id) >= 0
}

// NodeAt returns the first node, in insertion order, whose footprint contains pt
func (g *Graph) NodeAt(pt Position) (Node, bool) {
	for _, n := range g.Nodes {
		if n.Position.Contains(pt) {
			return n.Clone(), true
		}
	}
	return Node{}, false
}

// MaxID returns the largest node id in the graph, or 0 when empty
func (g *Graph) MaxID() NodeID {
	var max NodeID
	for _, n := range g.Nodes {
		if n.ID > max {
			max = n.ID
		}
	}
	return max
}

// overlapsAny checks pos against every node except the one with id skip
func (g *Graph) overlapsAny(pos Position, skip NodeID, skipValid bool) bool {
	for _, n := range g.Nodes {
		if skipValid && n.ID == skip {
			continue
		}
		if Overlap(pos, n.Position) {
			return true
		}
	}
	return false
}

// AddNode appends a node unless its footprint overlaps an existing node
func (g *Graph) AddNode(n Node) error {
	if !n.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownType, n.Type)
	}
	if g.HasNode(n.ID) {
		return fmt.Errorf("node %d: %w", n.ID, ErrDuplicateID)
	}
	if !n.Position.Finite() {
		return fmt.Errorf("node at (%g, %g): %w", n.X, n.Y, ErrInvalidPosition)
	}
	if g.overlapsAny(n.Position, 0, false) {
		return fmt.Errorf("node at (%g, %g): %w", n.X, n.Y, ErrOverlap)
	}
	n = n.Clone()
	if !n.Type.Labelable() {
		n.Label = ""
	}
	g.Nodes = append(g.Nodes, n)
	return nil
}

// MoveNode repositions a node unless the new footprint overlaps another node
func (g *Graph) MoveNode(id NodeID, pos Position) error {
	i := g.IndexOf(id)
	if i < 0 {
		return fmt.Errorf("node %d: %w", id, ErrNodeNotFound)
	}
	if !pos.Finite() {
		return fmt.Errorf("node %d to (%g, %g): %w", id, pos.X, pos.Y, ErrInvalidPosition)
	}
	if g.overlapsAny(pos, id, true) {
		return fmt.Errorf("node %d to (%g, %g): %w", id, pos.X, pos.Y, ErrOverlap)
	}
	g.Nodes[i].Position = pos
	return nil
}

// ToggleInput flips the state of an INPUT node
func (g *Graph) ToggleInput(id NodeID) error {
	i := g.IndexOf(id)
	if i < 0 {
		return fmt.Errorf("node %d: %w", id, ErrNodeNotFound)
	}
	if g.Nodes[i].Type != NodeTypeInput {
		return fmt.Errorf("node %d: %w", id, ErrNotInput)
	}
	g.Nodes[i].State = !g.Nodes[i].State
	return nil
}

// SetLabel names the signal carried by an INPUT or OUTPUT node
func (g *Graph) SetLabel(id NodeID, text string) error {
	i := g.IndexOf(id)
	if i < 0 {
		return fmt.Errorf("node %d: %w", id, ErrNodeNotFound)
	}
	if !g.Nodes[i].Type.Labelable() {
		return fmt.Errorf("node %d: %w", id, ErrNotLabelable)
	}
	g.Nodes[i].Label = text
	return nil
}

// Connect wires from's output into to's inputs.
// Duplicate edges and cycles are accepted.
func (g *Graph) Connect(from, to NodeID) error {
	if from == to {
		return fmt.Errorf("node %d: %w", from, ErrSelfConnection)
	}
	if !g.HasNode(from) {
		return fmt.Errorf("source node %d: %w", from, ErrNodeNotFound)
	}
	i := g.IndexOf(to)
	if i < 0 {
		return fmt.Errorf("target node %d: %w", to, ErrNodeNotFound)
	}
	g.Connections = append(g.Connections, NewConnection(from, to))
	g.Nodes[i].Inputs = append(g.Nodes[i].Inputs, from)
	return nil
}

// DeleteNode removes a node, every connection touching it and every
// occurrence of its id in the remaining nodes' inputs
func (g *Graph) DeleteNode(id NodeID) error {
	i := g.IndexOf(id)
	if i < 0 {
		return fmt.Errorf("node %d: %w", id, ErrNodeNotFound)
	}

	nodes := make([]Node, 0, len(g.Nodes)-1)
	for _, n := range g.Nodes {
		if n.ID == id {
			continue
		}
		inputs := make([]NodeID, 0, len(n.Inputs))
		for _, src := range n.Inputs {
			if src != id {
				inputs = append(inputs, src)
			}
		}
		n.Inputs = inputs
		nodes = append(nodes, n)
	}

	conns := make([]Connection, 0, len(g.Connections))
	for _, c := range g.Connections {
		if !c.Touches(id) {
			conns = append(conns, c)
		}
	}

	g.Nodes = nodes
	g.Connections = conns
	return nil
}

// Validate checks the structural invariants of a graph that did not come
// from the mutation methods, such as a loaded document. Inputs that name
// unknown ids are tolerated; they read as false during simulation.
func (g *Graph) Validate() error {
	seen := make(map[NodeID]struct{}, len(g.Nodes))
	for _, n := range g.Nodes {
		if !n.Type.Valid() {
			return fmt.Errorf("node %d: %w: %q", n.ID, ErrUnknownType, n.Type)
		}
		if !n.Position.Finite() {
			return fmt.Errorf("node %d: %w", n.ID, ErrInvalidPosition)
		}
		if _, dup := seen[n.ID]; dup {
			return fmt.Errorf("node %d: %w", n.ID, ErrDuplicateID)
		}
		seen[n.ID] = struct{}{}
	}
	for _, c := range g.Connections {
		_, fromOK := seen[c.From]
		_, toOK := seen[c.To]
		if !fromOK || !toOK {
			return fmt.Errorf("connection %s: %w", c, ErrDanglingReference)
		}
	}
	return nil
}
