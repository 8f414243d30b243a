package bootstrap

import "time"

// =============================================================================
// File System Permissions
// =============================================================================

const (
	// DirPermission is the standard permission for creating directories
	DirPermission = 0755

	// LogFilePermission is the permission for log files
	LogFilePermission = 0666
)

// =============================================================================
// Logger Configuration
// =============================================================================

const (
	// LogFileTimestampFormat is the timestamp format for log filenames (YYYY-MM-DD_HH-MM-SS)
	LogFileTimestampFormat = "2006-01-02_15-04-05"

	// LogFileNamePattern is the format string for log filenames
	LogFileNamePattern = "session_%s.log"

	// LogFileExtension is the file extension for log files
	LogFileExtension = ".log"

	// LogFileRetentionCount is the number of log files to retain after cleanup
	LogFileRetentionCount = 9
)

// Log messages for logger initialization
const (
	LogMsgLoggingInitialized  = "Logging initialized"
	LogMsgStarting            = "Starting bee name generator"
	LogMsgConfigurationLoaded = "Configuration loaded"
	LogMsgConfigWarning       = "Configuration warning"
	LogMsgFailedCreateLogsDir = "failed to create logs directory"
	LogMsgFailedOpenLogFile   = "failed to open log file"
	LogMsgFailedDeleteOldLog  = "Failed to delete old log file"
)

// =============================================================================
// Event System Configuration
// =============================================================================

const (
	// EventDefaultMaxRetries is the default number of retry attempts for failed event publishing
	EventDefaultMaxRetries = 5

	// EventDefaultRetryDelay is the default base delay between retry attempts (exponential backoff)
	EventDefaultRetryDelay = 2 * time.Second

	// EventDefaultDeadLetterPath is the default file path for dead-letter event logging
	EventDefaultDeadLetterPath = "logs/event_deadletter.jsonl"
)

// Log messages for event system initialization
const (
	LogMsgEventSystemInitialized       = "Event system initialized"
	LogMsgFailedCreateDeadLetterDir    = "failed to create dead-letter directory"
	LogMsgFailedCreateDeadLetterWriter = "failed to open dead-letter file"
	LogMsgMetricsCollectorRegistered   = "Metrics collector registered"
	LogMsgUserCacheSubscribed          = "User cache subscribed to merge events"
)

// =============================================================================
// Storage
// =============================================================================

const (
	// StoreConnectTimeout bounds the initial connection to each backing store
	StoreConnectTimeout = 10 * time.Second

	DependencyPostgres = "postgres"
	DependencyMongo    = "mongo"
	DependencyRedis    = "redis"
)

const (
	LogMsgStoreSelected      = "Storage selected"
	LogMsgMigrationsSkipped  = "Automatic migrations disabled"
	LogMsgMemoryStoreWarning = "Using in-memory store; data is lost on restart"
	ErrMsgFailedConnectDB    = "failed to connect to database"
	ErrMsgFailedMigrate      = "failed to apply migrations"
	ErrMsgFailedConnectMongo = "failed to connect to mongo"
	ErrMsgFailedMongoIndexes = "failed to create mongo indexes"
	ErrMsgFailedConnectRedis = "failed to connect to redis"
	ErrMsgUnknownStoreDriver = "unknown store driver"
)

// =============================================================================
// Workers
// =============================================================================

const (
	LogMsgCleanupScheduled = "Pending link cleanup scheduled"
)

// =============================================================================
// Shutdown Messages
// =============================================================================

const (
	LogMsgShuttingDownServer         = "Shutting down server..."
	LogMsgShuttingDownWorkers        = "Stopping scheduler and workers..."
	LogMsgShuttingDownEventPublisher = "Shutting down event publisher..."
	LogMsgClosingStores              = "Closing storage connections..."
	LogMsgServerStopped              = "Server stopped"
	LogMsgServerForcedShutdown       = "Server forced to shutdown"
	LogMsgResilientPublisherFailed   = "Resilient publisher shutdown failed"
	LogMsgStoreCloseFailed           = "Failed to close store"
)
