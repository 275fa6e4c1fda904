// Package handler implements the HTTP API of the logic simulator.
//
// Every route maps one presentation-layer event onto an Editor call, so a
// browser canvas can drive a session remotely.
//
// # Response Format
//
// Mutations answer 200 with an OperationResponse. A rejected mutation is not
// an HTTP error: it reports "applied": false with the reason and the
// unchanged state. Malformed request bodies answer 400, unparseable scheme
// documents 422 and unknown schemes or analysis targets 404. Error responses
// carry an {error, details} body.
package handler
