// Package domain defines the core types of the logicsim circuit editor.
//
// This package contains the graph of digital-logic elements a user builds on
// the canvas, together with the invariants every mutation must preserve.
//
// # Core Types
//
// Node is a placed logic element (INPUT, AND, OR, NOT, OUTPUT) with a canvas
// position, a boolean state, an optional signal label and an ordered list of
// source node ids feeding it. NOT and OUTPUT only consult the first entry.
//
// Connection is a directed edge from one node's output to another node's
// inputs. Parallel connections between the same pair are allowed and each
// one appends a separate entry to the target's inputs.
//
// Graph owns the ordered node collection and the connections. Its mutations
// either apply completely or leave the graph untouched and return one of the
// sentinel errors in errors.go.
//
// Snapshot is an immutable, independently owned copy of a Graph used by the
// undo/redo history.
//
// # Footprints
//
// Every node occupies a fixed 60x40 rectangle anchored at its top-left
// position. Overlap uses strict inequalities, so rectangles that only touch
// along an edge do not overlap. Add and Move reject overlapping footprints;
// Connect never looks at geometry.
//
// # Identifiers
//
// IDAllocator hands out monotonically increasing node ids. It is owned by the
// editing session, never reuses an id within that session and is reseeded
// forward after a graph is loaded.
package domain
