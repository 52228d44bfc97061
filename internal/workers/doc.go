/*
Package workers sizes the bounded worker pools used for probing and source
fetching.

Probing is dominated by network waits, so the useful pool size is far larger
than the CPU count, yet unbounded fan-out against hundreds of endpoints
exhausts file descriptors and makes probes time out on our own side. Pool
sizes are therefore either taken from configuration or derived from
GOMAXPROCS (which respects container CPU limits in Go 1.19+) with a
per-workload multiplier, and always capped.

# Usage

	// Explicitly configured size wins, capped at 200
	n := workers.Resolve(cfg.AvailabilityWorkers, workers.NetworkMultiplier, 200)

	// Derived size for a network-bound workload
	n := workers.ForNetwork(0, 64)

	// 3 workers per CPU, maximum of 24
	n := workers.Count(3.0, 24)

A limit of 0 means no cap. Every helper returns at least 1.
*/
package workers
