// Package metrics defines the Prometheus metrics exposed by MonoGrid.
//
// Metrics cover the HTTP surface, the upstream media catalog client,
// the batch export pipeline, the image transcoder, and the SQLite store.
// All metrics are registered at init time via promauto.
package metrics
