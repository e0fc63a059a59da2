// Package complexmul configuration constants
package complexmul

// Dispatch granularity
const (
	// Default block size for the CPU executor
	DefaultBlockSize = 256

	// Default chunk size for the vector executor, in elements.
	// Two float64 planes of this size fit in L1 with room for scratch.
	DefaultChunkSize = 1024

	// Submissions buffered per queue before Submit blocks
	QueueDepth = 64
)

// Memory pool parameters
const (
	// Memory alignment for device planes, in bytes
	MemoryAlignment = 64
)

// Host platform
const (
	// Vendor string reported by host devices
	HostVendor = "GUDA"

	// Vendor preferred by the default ranking policy
	DefaultPreferredVendor = HostVendor
)
