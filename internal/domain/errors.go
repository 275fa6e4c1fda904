package domain

import "errors"

// Rejection reasons returned by Graph mutations. A mutation that returns one
// of these has left the graph unchanged.
var (
	ErrNodeNotFound      = errors.New("node not found")
	ErrOverlap           = errors.New("footprint overlaps an existing node")
	ErrSelfConnection    = errors.New("cannot connect a node to itself")
	ErrNotInput          = errors.New("node is not an INPUT")
	ErrNotLabelable      = errors.New("only INPUT and OUTPUT nodes carry a label")
	ErrUnknownType       = errors.New("unknown node type")
	ErrDuplicateID       = errors.New("duplicate node id")
	ErrInvalidPosition   = errors.New("position is not a finite point")
	ErrDanglingReference = errors.New("connection references a missing node")
)

// IsRejection reports whether err is one of the mutation rejection reasons
func IsRejection(err error) bool {
	return errors.Is(err, ErrNodeNotFound) ||
		errors.Is(err, ErrOverlap) ||
		errors.Is(err, ErrSelfConnection) ||
		errors.Is(err, ErrNotInput) ||
		errors.Is(err, ErrNotLabelable) ||
		errors.Is(err, ErrUnknownType) ||
		errors.Is(err, ErrDuplicateID) ||
		errors.Is(err, ErrInvalidPosition)
}
