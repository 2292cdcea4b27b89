// Package handlers implements the HTTP API for MonoGrid.
//
// The API has four surfaces:
//   - Catalog browsing: photo/video search and curated feeds proxied
//     through the upstream media catalog
//   - Collections: CRUD over saved asset sets, backed by SQLite
//   - Export: batch ZIP downloads of a collection or an ad-hoc
//     selection, streamed as the response body
//   - Community: a lightweight post board
//
// Handlers decode requests, call into the relevant service, and write
// JSON. Errors from the database layer are mapped to HTTP status codes
// here; nothing below this package knows about HTTP.
package handlers
