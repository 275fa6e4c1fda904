package domain

import (
	"fmt"
	"strings"
)

// NodeType represents the kind of logic element
type NodeType string

const (
	NodeTypeInput  NodeType = "INPUT"
	NodeTypeAnd    NodeType = "AND"
	NodeTypeOr     NodeType = "OR"
	NodeTypeNot    NodeType = "NOT"
	NodeTypeOutput NodeType = "OUTPUT"
)

// NodeTypes lists every element type in palette order
var NodeTypes = []NodeType{
	NodeTypeInput,
	NodeTypeAnd,
	NodeTypeOr,
	NodeTypeNot,
	NodeTypeOutput,
}

// Valid reports whether t belongs to the closed set of element types
func (t NodeType) Valid() bool {
	switch t {
	case NodeTypeInput, NodeTypeAnd, NodeTypeOr, NodeTypeNot, NodeTypeOutput:
		return true
	}
	return false
}

// Labelable reports whether nodes of this type carry a signal name
func (t NodeType) Labelable() bool {
	return t == NodeTypeInput || t == NodeTypeOutput
}

// ParseNodeType converts a string into a NodeType, ignoring case
func ParseNodeType(s string) (NodeType, error) {
	t := NodeType(strings.ToUpper(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownType, s)
	}
	return t, nil
}

// NodeID identifies a node within a session
type NodeID int

// Node represents a logic element placed on the canvas
type Node struct {
	ID   NodeID   `json:"id"`
	Type NodeType `json:"type"`
	Position
	State  bool     `json:"state"`
	Label  string   `json:"label"`
	Inputs []NodeID `json:"inputs"`
}

// NewNode creates a node with cleared state and no inputs
func NewNode(id NodeID, nodeType NodeType, label string, pos Position) Node {
	return Node{
		ID:       id,
		Type:     nodeType,
		Position: pos,
		Label:    label,
		Inputs:   []NodeID{},
	}
}

// Clone returns a copy of the node that shares no memory with n
func (n Node) Clone() Node {
	inputs := make([]NodeID, len(n.Inputs))
	copy(inputs, n.Inputs)
	n.Inputs = inputs
	return n
}

// FirstInput returns the first source feeding the node, if any
func (n Node) FirstInput() (NodeID, bool) {
	if len(n.Inputs) == 0 {
		return 0, false
	}
	return n.Inputs[0], true
}

// String renders the node the way the canvas captions it
func (n Node) String() string {
	if n.Label == "" {
		return fmt.Sprintf("%s#%d", n.Type, n.ID)
	}
	return fmt.Sprintf("%s#%d %s", n.Type, n.ID, n.Label)
}
