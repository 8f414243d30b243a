package bootstrap

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/p0t4t0sandwich/bee-name-generator/internal/config"
	"github.com/p0t4t0sandwich/bee-name-generator/internal/logger"
)

// SetupLogger initializes the application logger. Output always goes to
// stdout; when LOG_DIR is set it is also written to a timestamped session
// file there, keeping only the most recent sessions.
// Returns the log file handle (nil without LOG_DIR, caller must close).
func SetupLogger(cfg *config.Config) (*os.File, error) {
	addSource := cfg.Environment == "dev" || cfg.Environment == "development"
	loggerConfig := logger.NewConfig(cfg.LogLevel, cfg.LogFormat, cfg.ServiceName, cfg.Version, cfg.Environment, addSource)

	var w io.Writer = os.Stdout
	var logFile *os.File
	if cfg.LogDir != "" {
		if err := os.MkdirAll(cfg.LogDir, DirPermission); err != nil {
			return nil, fmt.Errorf("%s: %w", LogMsgFailedCreateLogsDir, err)
		}

		cleanupLogs(cfg.LogDir)

		timestamp := time.Now().Format(LogFileTimestampFormat)
		logFileName := filepath.Join(cfg.LogDir, fmt.Sprintf(LogFileNamePattern, timestamp))

		f, err := os.OpenFile(logFileName, os.O_CREATE|os.O_WRONLY|os.O_APPEND, LogFilePermission)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", LogMsgFailedOpenLogFile, err)
		}
		logFile = f
		w = io.MultiWriter(os.Stdout, logFile)
	}

	logger.InitLoggerWithWriter(loggerConfig, w)

	slog.Info(LogMsgLoggingInitialized, "level", loggerConfig.LogLevel(), "format", cfg.LogFormat)
	slog.Info(LogMsgStarting,
		"environment", cfg.Environment,
		"version", cfg.Version)

	slog.Debug(LogMsgConfigurationLoaded,
		"store_driver", cfg.StoreDriver,
		"pending_store", cfg.PendingStore,
		"port", cfg.Port)

	for _, warning := range cfg.Warnings() {
		slog.Warn(LogMsgConfigWarning, "warning", warning)
	}

	return logFile, nil
}

// cleanupLogs removes old session logs, keeping the most recent ones.
// Session names sort chronologically.
func cleanupLogs(logDir string) {
	entries, err := os.ReadDir(logDir)
	if err != nil {
		return
	}

	var logFiles []os.DirEntry
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), LogFileExtension) {
			logFiles = append(logFiles, entry)
		}
	}

	if len(logFiles) > LogFileRetentionCount {
		toDelete := len(logFiles) - LogFileRetentionCount
		for i := 0; i < toDelete; i++ {
			if err := os.Remove(filepath.Join(logDir, logFiles[i].Name())); err != nil {
				slog.Warn(LogMsgFailedDeleteOldLog, "file", logFiles[i].Name(), "error", err)
			}
		}
	}
}
