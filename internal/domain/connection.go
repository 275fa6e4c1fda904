package domain

import "fmt"

// Connection is a directed wire from one node's output into another node's inputs
type Connection struct {
	From NodeID `json:"from"`
	To   NodeID `json:"to"`
}

// NewConnection creates a connection between two nodes
func NewConnection(from, to NodeID) Connection {
	return Connection{From: from, To: to}
}

// Touches reports whether id is either endpoint of the connection
func (c Connection) Touches(id NodeID) bool {
	return c.From == id || c.To == id
}

func (c Connection) String() string {
	return fmt.Sprintf("%d->%d", c.From, c.To)
}
