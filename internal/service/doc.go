// Package service implements the editing session for the logic simulator.
//
// It sits between the HTTP handlers and the domain, simulation and history
// packages, applying every user event to the live circuit in order.
//
// # Editor
//
// Editor owns the working graph, the node id allocator and the undo history.
// Every committing operation (add, toggle, label, connect, delete, simulate,
// load) pushes a snapshot; rejected operations leave all three untouched.
// Drags move nodes without committing.
//
// # Schemes
//
// SchemeService stores named copies of the working graph in a repository and
// loads them back into the Editor as a committed load.
//
// # Event System
//
// The Editor publishes an Event carrying the new State after every change.
// The hub forwards these to connected clients via Server-Sent Events (SSE).
package service
