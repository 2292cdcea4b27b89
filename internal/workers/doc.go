/*
Package workers provides utilities for determining worker pool sizes in
containerized environments.

Go 1.19+ sets GOMAXPROCS from container CPU limits, while runtime.NumCPU()
still reports the host machine. The helpers here size pools from
GOMAXPROCS so export pipelines respect cgroup constraints.

The multiplier adjusts for task characteristics:

	// CPU-bound work (image re-encoding)
	n := workers.ForCPU(8)

	// I/O-bound work (asset downloads)
	n := workers.ForIO(16)

	// Mixed work (fetch + transcode + archive)
	n := workers.ForMixed(12)

All functions respect the EXPORT_WORKERS environment variable, allowing
operators to override the automatic calculation.
*/
package workers
