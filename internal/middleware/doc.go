// Package middleware provides HTTP middleware for the MonoGrid server.
//
// It includes:
//   - Request logging in W3C Extended Log Format
//   - Prometheus request metrics with low-cardinality path normalization
//   - Response compression (gzip), with archive downloads excluded
package middleware
