package tuner

import (
	"testing"

	"github.com/jamesainslie/dupescan/pkg/dupescan/types"
)

func TestCalculate(t *testing.T) {
	tests := []struct {
		name        string
		resources   SystemResources
		wantWorkers int
	}{
		{
			name: "typical workstation",
			resources: SystemResources{
				CPUCores:     8,
				TotalRAM:     16 * types.GiB,
				AvailableRAM: 8 * types.GiB,
			},
			wantWorkers: 8,
		},
		{
			name: "single core",
			resources: SystemResources{
				CPUCores:     1,
				TotalRAM:     1 * types.GiB,
				AvailableRAM: 512 * types.MiB,
			},
			wantWorkers: 1,
		},
		{
			name: "zero cores falls back to minimum",
			resources: SystemResources{
				CPUCores:     0,
				TotalRAM:     1 * types.GiB,
				AvailableRAM: 512 * types.MiB,
			},
			wantWorkers: 1,
		},
		{
			name: "many cores capped",
			resources: SystemResources{
				CPUCores:     128,
				TotalRAM:     256 * types.GiB,
				AvailableRAM: 128 * types.GiB,
			},
			wantWorkers: 64,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Calculate(tt.resources)

			if got.Workers != tt.wantWorkers {
				t.Errorf("Workers = %d, want %d", got.Workers, tt.wantWorkers)
			}
			if got.PathQueueSize < minQueueSize || got.PathQueueSize > maxQueueSize {
				t.Errorf("PathQueueSize = %d, outside [%d, %d]", got.PathQueueSize, minQueueSize, maxQueueSize)
			}
			if got.ResultBuffer != got.PathQueueSize {
				t.Errorf("ResultBuffer = %d, want %d", got.ResultBuffer, got.PathQueueSize)
			}
		})
	}
}

func TestCalculateQueueBounds(t *testing.T) {
	// Tiny RAM clamps to the minimum queue size.
	tiny := Calculate(SystemResources{CPUCores: 2, AvailableRAM: 1 * types.MiB})
	if tiny.PathQueueSize != minQueueSize {
		t.Errorf("tiny RAM queue = %d, want %d", tiny.PathQueueSize, minQueueSize)
	}

	// Huge RAM clamps to the maximum queue size.
	huge := Calculate(SystemResources{CPUCores: 2, AvailableRAM: 1 * types.TiB})
	if huge.PathQueueSize != maxQueueSize {
		t.Errorf("huge RAM queue = %d, want %d", huge.PathQueueSize, maxQueueSize)
	}
}

func TestCalculateWithOverrides(t *testing.T) {
	resources := SystemResources{
		CPUCores:     8,
		TotalRAM:     16 * types.GiB,
		AvailableRAM: 8 * types.GiB,
	}

	tests := []struct {
		name     string
		override int
		want     int
	}{
		{name: "no override", override: 0, want: 8},
		{name: "negative override ignored", override: -4, want: 8},
		{name: "explicit override", override: 2, want: 2},
		{name: "override above cap clamped", override: 500, want: 64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateWithOverrides(resources, tt.override)
			if got.Workers != tt.want {
				t.Errorf("Workers = %d, want %d", got.Workers, tt.want)
			}
		})
	}
}

func TestDetect(t *testing.T) {
	resources, err := Detect()
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}

	if resources.CPUCores < 1 {
		t.Errorf("CPUCores = %d, want >= 1", resources.CPUCores)
	}
	if resources.TotalRAM <= 0 {
		t.Errorf("TotalRAM = %d, want > 0", resources.TotalRAM)
	}
	if resources.AvailableRAM <= 0 {
		t.Errorf("AvailableRAM = %d, want > 0", resources.AvailableRAM)
	}
}
