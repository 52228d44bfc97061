package candidate

import (
	"fmt"
	"math"
)

// Unmeasured is the latency recorded when a stream was never timed or the
// timing request failed. It sorts after every finite latency.
var Unmeasured = math.Inf(1)

// Availability is the tri-state reachability of an entry.
type Availability int

const (
	// Unknown means the entry has not been probed yet
	Unknown Availability = iota
	// Available means the endpoint answered with a success status
	Available
	// Unavailable means the probe failed, timed out or got a non-success status
	Unavailable
)

// String returns the string representation of an availability state
func (a Availability) String() string {
	switch a {
	case Unknown:
		return "unknown"
	case Available:
		return "available"
	case Unavailable:
		return "unavailable"
	default:
		return fmt.Sprintf("availability(%d)", int(a))
	}
}

// Entry is one playlist item.
type Entry struct {
	Name     string
	ID       string
	Logo     string
	Group    string
	Endpoint string

	Available Availability
	// Latency is the time to first byte in seconds, or Unmeasured.
	Latency float64

	// Seq is the first-seen position assigned by Store.Insert.
	Seq int
}

// New returns an unprobed entry. ID falls back to name when empty.
func New(name, id, logo, group, endpoint string) Entry {
	if id == "" {
		id = name
	}
	return Entry{
		Name:     name,
		ID:       id,
		Logo:     logo,
		Group:    group,
		Endpoint: endpoint,
		Latency:  Unmeasured,
	}
}

// Validated reports whether the entry is reachable and has a finite latency.
// Only validated entries take part in ranking and output.
func (e Entry) Validated() bool {
	return e.Available == Available && !math.IsInf(e.Latency, 0) && !math.IsNaN(e.Latency)
}
