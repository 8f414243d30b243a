package worker

import "time"

// ============================================================================
// Log Messages - Worker Pool
// ============================================================================

const (
	LogMsgWorkerJobFailed = "Worker job failed"
	LogMsgWorkerJobPanic  = "Worker job panicked"
	LogMsgQueueFull       = "Worker queue full, job dropped"
)

// ============================================================================
// Log Messages - Pending Link Cleanup
// ============================================================================

const (
	LogMsgPendingCleanupStarting  = "Pending link cleanup starting"
	LogMsgPendingCleanupCompleted = "Pending link cleanup completed"
)

// ============================================================================
// Defaults
// ============================================================================

const (
	// DefaultJobTimeout bounds a single job when it does not set its own deadline
	DefaultJobTimeout = time.Minute

	// DefaultQueueSize is the job queue depth used by bootstrap
	DefaultQueueSize = 16
)

// ============================================================================
// Test Configuration
// ============================================================================

// Test pool configuration values used in pool_test.go
const (
	TestWorkerCount           = 2
	TestQueueSize             = 10
	TestExpectedJobCount      = 2
	TestWorkerProcessWaitTime = 100 // milliseconds
)
