package domain

// Snapshot is an immutable graph checkpoint.
// It never aliases a live graph: the graph is cloned on the way in and on the way out.
type Snapshot struct {
	graph *Graph
}

// NewSnapshot captures an independent copy of g
func NewSnapshot(g *Graph) *Snapshot {
	if g == nil {
		g = NewGraph()
	}
	return &Snapshot{graph: g.Clone()}
}

// Graph returns a fresh mutable copy of the captured graph
func (s *Snapshot) Graph() *Graph {
	if s == nil || s.graph == nil {
		return NewGraph()
	}
	return s.graph.Clone()
}

// NodeCount returns the number of nodes in the snapshot
func (s *Snapshot) NodeCount() int {
	if s == nil || s.graph == nil {
		return 0
	}
	return len(s.graph.Nodes)
}

// ConnectionCount returns the number of connections in the snapshot
func (s *Snapshot) ConnectionCount() int {
	if s == nil || s.graph == nil {
		return 0
	}
	return len(s.graph.Connections)
}
