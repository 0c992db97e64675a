package constants

import (
	"time"
)

// Worker engine timing
const (
	// WorkerPollInterval - how long the worker sleeps when no pending job
	// exists. The worker is a cooperative poll loop, not an event wait, so
	// this bounds the latency between Start() and the first job being claimed.
	WorkerPollInterval = 100 * time.Millisecond

	// PausePollInterval - how often a paused tree walk re-checks the job
	// status. Resume latency is bounded by this interval.
	PausePollInterval = 100 * time.Millisecond
)

// Filesystem operation sizes
const (
	// CopyBufferSize - buffer size for byte-level file copies (1 MB)
	//
	// Trade-offs:
	// - Smaller buffers = finer progress granularity, more syscalls
	// - Larger buffers = better throughput, coarser progress updates
	CopyBufferSize = 1 * 1024 * 1024
)

// Disk space safety margin
const (
	// DiskSpaceSafetyMargin - multiplier applied to required bytes when
	// checking free space before a byte-copy transfer (10% buffer for
	// filesystem overhead, metadata, etc.)
	DiskSpaceSafetyMargin = 1.1
)

// Event bus configuration
const (
	// EventBusDefaultBuffer - default per-subscriber channel buffer
	EventBusDefaultBuffer = 1000

	// EventBusMaxBuffer - maximum allowed per-subscriber channel buffer
	EventBusMaxBuffer = 50000
)
