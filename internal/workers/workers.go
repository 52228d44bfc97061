package workers

import (
	"runtime"
)

// NetworkMultiplier is the workers-per-CPU ratio for probes that spend
// nearly all their time waiting on remote hosts.
const NetworkMultiplier = 8.0

// Count returns a worker count of multiplier workers per available CPU.
// The limit parameter caps the result; use 0 for no limit.
func Count(multiplier float64, limit int) int {
	// GOMAXPROCS is automatically set to container CPU limit in Go 1.19+
	available := runtime.GOMAXPROCS(0)

	workers := int(float64(available) * multiplier)

	if workers < 1 {
		workers = 1
	}
	if limit > 0 && workers > limit {
		workers = limit
	}

	return workers
}

// Resolve returns requested when it is positive, otherwise a count derived
// from multiplier. Either way the result is capped by limit.
func Resolve(requested int, multiplier float64, limit int) int {
	if requested <= 0 {
		return Count(multiplier, limit)
	}
	if limit > 0 && requested > limit {
		return limit
	}
	return requested
}

// ForNetwork returns the pool size for network-bound probing.
func ForNetwork(requested, limit int) int {
	return Resolve(requested, NetworkMultiplier, limit)
}

// ForCPU returns worker count for CPU-bound tasks (1 per CPU).
func ForCPU(limit int) int {
	return Count(1.0, limit)
}
