// Package memory configures the Go runtime memory limit and provides
// backpressure for the export pipeline.
//
// ConfigureFromEnv derives GOMEMLIMIT from a container memory limit
// passed via the MEMORY_LIMIT environment variable (for example from
// the Kubernetes Downward API), reserving headroom for libvips
// allocations and image decode buffers that live outside the Go heap.
//
// Monitor watches heap allocation against the limit and pauses export
// workers while usage is critical. Batch exports buffer whole archives
// in memory, so an unchecked burst of large originals can otherwise
// push the process past its container limit.
package memory
