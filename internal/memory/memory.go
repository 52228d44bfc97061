// Package memory sizes the Go heap limit for container deployments.
//
// A long-running serve instance holds every candidate of a run in memory
// while probing, which for large source lists can approach a container's
// limit. Passing the limit through MEMORY_LIMIT lets the runtime collect
// harder before the container is killed.
package memory

import (
	"math"
	"os"
	"runtime/debug"
	"strconv"

	"github.com/dustin/go-humanize"

	"iptv-ranker/internal/logging"
)

// DefaultRatio is the share of the container limit given to the Go heap.
const DefaultRatio = 0.85

// Result describes how the heap limit was configured.
type Result struct {
	Configured     bool
	Source         string // "GOMEMLIMIT", "MEMORY_LIMIT" or "none"
	ContainerLimit int64
	Limit          int64
	Ratio          float64
}

// ConfigureFromEnv sets the heap limit from the environment. Call it early
// in main.
//
// Environment variables:
//   - GOMEMLIMIT: honored by the runtime and reported as is
//   - MEMORY_LIMIT: container limit in bytes, for example from the Kubernetes Downward API
//   - MEMORY_RATIO: share of MEMORY_LIMIT to use (default 0.85)
func ConfigureFromEnv() Result {
	return configure(os.Getenv, debug.SetMemoryLimit)
}

func configure(getenv func(string) string, setLimit func(int64) int64) Result {
	if v := getenv("GOMEMLIMIT"); v != "" {
		result := Result{Source: "GOMEMLIMIT"}
		if limit := setLimit(-1); limit > 0 && limit < math.MaxInt64 {
			result.Configured = true
			result.Limit = limit
		}
		logging.Info("GOMEMLIMIT set via environment: %s", v)
		return result
	}

	raw := getenv("MEMORY_LIMIT")
	if raw == "" {
		return Result{Source: "none"}
	}
	containerLimit, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || containerLimit <= 0 {
		logging.Warn("Ignoring invalid MEMORY_LIMIT %q", raw)
		return Result{Source: "none"}
	}

	ratio := DefaultRatio
	if v := getenv("MEMORY_RATIO"); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err == nil && parsed > 0 && parsed <= 1 {
			ratio = parsed
		} else {
			logging.Warn("Ignoring invalid MEMORY_RATIO %q, using %.2f", v, DefaultRatio)
		}
	}

	limit := int64(float64(containerLimit) * ratio)
	setLimit(limit)
	logging.Info("Configured GOMEMLIMIT: %s (%.0f%% of %s container limit)",
		humanize.IBytes(uint64(limit)), ratio*100, humanize.IBytes(uint64(containerLimit)))

	return Result{
		Configured:     true,
		Source:         "MEMORY_LIMIT",
		ContainerLimit: containerLimit,
		Limit:          limit,
		Ratio:          ratio,
	}
}
