// Package repository defines the data access interfaces for logicsim.
//
// The live circuit and its undo history are held in memory by the editor;
// this package only stores circuits a user explicitly saves under a name.
// The implementation is in the sqlite subpackage.
//
// # Repository Interface
//
// The Repository interface saves, lists, fetches and deletes named schemes.
// A scheme holds the encoded document exactly as the codec produced it plus
// summary counts for listing without decoding.
//
// # SQLite Implementation
//
// The sqlite implementation uses the pure-Go modernc.org/sqlite driver.
// Saving under an existing name replaces the document and keeps the scheme's
// id and creation time. The schema is created on startup.
//
// # Testing
//
// The sqlite repository is tested against in-memory databases.
package repository
