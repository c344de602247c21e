package tuner

// Worker configuration limits.
const (
	// maxWorkers caps the fingerprinting pool to avoid excessive context
	// switching and open file descriptors.
	maxWorkers = 64

	// minWorkers keeps at least one hashing slot on any system.
	minWorkers = 1

	// minQueueSize is the minimum channel buffer size.
	minQueueSize = 100

	// maxQueueSize is the maximum channel buffer size.
	maxQueueSize = 100000
)

// Memory-based queue sizing constants.
const (
	// bytesPerQueueEntry estimates memory per queued path.
	// Each entry is roughly a path string (~256 bytes) plus result metadata.
	bytesPerQueueEntry = 512

	// queueMemoryFraction is the fraction of available RAM to use for
	// queues. Small, since hashing buffers consume the real memory.
	queueMemoryFraction = 0.05
)

// OptimalConfig contains tuned pool configuration for the detected system.
type OptimalConfig struct {
	// Workers is the number of concurrent fingerprinting workers. It is
	// also the upper bound on simultaneously open files during hashing.
	Workers int

	// PathQueueSize is the enumeration channel buffer size.
	PathQueueSize int

	// ResultBuffer is the hash-result channel buffer size.
	ResultBuffer int
}

// Calculate returns pool configuration based on system resources.
// Workers defaults to the hardware parallelism, capped at maxWorkers;
// queue sizes scale with available RAM within fixed bounds.
func Calculate(resources SystemResources) OptimalConfig {
	workers := max(resources.CPUCores, minWorkers)
	workers = min(workers, maxWorkers)

	queueSize := calculateQueueSize(resources.AvailableRAM)

	return OptimalConfig{
		Workers:       workers,
		PathQueueSize: queueSize,
		ResultBuffer:  queueSize,
	}
}

// CalculateWithOverrides applies a user worker override to the optimal
// config. A non-positive override keeps the calculated value.
func CalculateWithOverrides(resources SystemResources, workerOverride int) OptimalConfig {
	config := Calculate(resources)

	if workerOverride > 0 {
		config.Workers = min(workerOverride, maxWorkers)
	}

	return config
}

// calculateQueueSize determines channel buffer size from available memory.
func calculateQueueSize(availableRAM int64) int {
	queueMemory := float64(availableRAM) * queueMemoryFraction
	entries := int(queueMemory / bytesPerQueueEntry)

	// Two buffered channels share the budget (paths and results).
	entriesPerQueue := entries / 2

	entriesPerQueue = max(entriesPerQueue, minQueueSize)
	entriesPerQueue = min(entriesPerQueue, maxQueueSize)

	return entriesPerQueue
}
