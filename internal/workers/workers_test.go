package workers

import (
	"runtime"
	"testing"
)

func TestCount(t *testing.T) {
	availableCPU := runtime.GOMAXPROCS(0)

	tests := []struct {
		name       string
		multiplier float64
		limit      int
		minExpect  int
		maxExpect  int
	}{
		{
			name:       "CPU-bound task (1.0x multiplier)",
			multiplier: 1.0,
			limit:      0,
			minExpect:  1,
			maxExpect:  availableCPU,
		},
		{
			name:       "Network-bound task",
			multiplier: NetworkMultiplier,
			limit:      0,
			minExpect:  availableCPU,
			maxExpect:  int(float64(availableCPU) * NetworkMultiplier),
		},
		{
			name:       "With limit lower than calculated",
			multiplier: NetworkMultiplier,
			limit:      2,
			minExpect:  1,
			maxExpect:  2,
		},
		{
			name:       "Very low multiplier",
			multiplier: 0.01,
			limit:      0,
			minExpect:  1,
			maxExpect:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Count(tt.multiplier, tt.limit)

			if got < tt.minExpect {
				t.Errorf("Count(%v, %d) = %d, expected >= %d", tt.multiplier, tt.limit, got, tt.minExpect)
			}
			if got > tt.maxExpect {
				t.Errorf("Count(%v, %d) = %d, expected <= %d", tt.multiplier, tt.limit, got, tt.maxExpect)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name      string
		requested int
		limit     int
		want      int
	}{
		{"Requested below limit", 50, 200, 50},
		{"Requested above limit", 500, 200, 200},
		{"Requested without limit", 500, 0, 500},
		{"Requested exactly limit", 20, 20, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Resolve(tt.requested, NetworkMultiplier, tt.limit); got != tt.want {
				t.Errorf("Resolve(%d, _, %d) = %d, want %d", tt.requested, tt.limit, got, tt.want)
			}
		})
	}
}

func TestResolveDerivesWhenUnset(t *testing.T) {
	for _, requested := range []int{0, -3} {
		got := Resolve(requested, 1.0, 0)
		if got != Count(1.0, 0) {
			t.Errorf("Resolve(%d, 1.0, 0) = %d, want %d", requested, got, Count(1.0, 0))
		}
	}
}

func TestForNetwork(t *testing.T) {
	if got := ForNetwork(0, 3); got < 1 || got > 3 {
		t.Errorf("ForNetwork(0, 3) = %d, want between 1 and 3", got)
	}
	if got := ForNetwork(7, 100); got != 7 {
		t.Errorf("ForNetwork(7, 100) = %d, want 7", got)
	}
}

func TestForCPU(t *testing.T) {
	got := ForCPU(1)
	if got != 1 {
		t.Errorf("ForCPU(1) = %d, want 1", got)
	}
	if got := ForCPU(0); got < 1 || got > runtime.GOMAXPROCS(0) {
		t.Errorf("ForCPU(0) = %d out of range", got)
	}
}
