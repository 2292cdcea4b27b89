// Package database provides SQLite-backed persistence for user
// collections and the community board.
//
// Collections are named sets of saved catalog assets. Each saved asset
// keeps its full JSON descriptor so exports can resolve quality tiers
// without re-querying the upstream catalog. Adding an asset that is
// already in a collection is a no-op rather than an error.
//
// The database uses WAL mode with a busy timeout to tolerate
// concurrent readers alongside the writer.
package database
