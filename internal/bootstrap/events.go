package bootstrap

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/p0t4t0sandwich/bee-name-generator/internal/config"
	"github.com/p0t4t0sandwich/bee-name-generator/internal/event"
)

// InitializeEventSystem creates the in-process event bus and the resilient
// publisher in front of it. Events that exhaust their retries are appended to
// the dead-letter file.
func InitializeEventSystem(cfg *config.Config) (*event.MemoryBus, *event.ResilientPublisher, error) {
	eventBus := event.NewMemoryBus()

	deadLetterPath := cfg.EventDeadLetterPath
	if deadLetterPath == "" {
		deadLetterPath = EventDefaultDeadLetterPath
	}

	// Ensure dead-letter directory exists
	if err := os.MkdirAll(filepath.Dir(deadLetterPath), DirPermission); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", LogMsgFailedCreateDeadLetterDir, err)
	}

	deadLetter, err := event.NewDeadLetterWriter(deadLetterPath)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", LogMsgFailedCreateDeadLetterWriter, err)
	}

	resilientPublisher := event.NewResilientPublisher(eventBus, event.ResilientConfig{
		MaxRetries: EventDefaultMaxRetries,
		RetryDelay: EventDefaultRetryDelay,
	}, deadLetter)

	slog.Info(LogMsgEventSystemInitialized,
		"max_retries", EventDefaultMaxRetries,
		"retry_delay", EventDefaultRetryDelay,
		"deadletter_path", deadLetterPath)

	return eventBus, resilientPublisher, nil
}
