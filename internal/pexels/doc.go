// Package pexels implements a client for the Pexels media catalog API.
//
// The client covers the endpoints the application browses:
//   - Photo search and the curated photo feed
//   - Video search and the popular video feed
//   - Featured collections and per-collection media listings
//
// Collection media listings mix photos and videos in a single response;
// the client decodes the tagged items and maps everything into the
// shared assets.Asset model so downstream code never sees raw API
// shapes. All calls are context-aware and instrumented.
package pexels
