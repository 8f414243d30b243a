package bootstrap

import (
	"context"
	"log/slog"

	"github.com/p0t4t0sandwich/bee-name-generator/internal/event"
	"github.com/p0t4t0sandwich/bee-name-generator/internal/scheduler"
	"github.com/p0t4t0sandwich/bee-name-generator/internal/server"
	"github.com/p0t4t0sandwich/bee-name-generator/internal/sse"
	"github.com/p0t4t0sandwich/bee-name-generator/internal/worker"
)

// ShutdownComponents holds all components that need graceful shutdown.
type ShutdownComponents struct {
	Server             *server.Server
	SSEHub             *sse.Hub
	Scheduler          *scheduler.Scheduler
	WorkerPool         *worker.Pool
	ResilientPublisher *event.ResilientPublisher
	Repositories       *Repositories
}

// GracefulShutdown performs graceful shutdown of all application components.
// It shuts down in this order:
// 1. Event streams, then the HTTP server (stop accepting new requests)
// 2. Scheduler and worker pool (finish the running cleanup)
// 3. Event publisher (flush pending retries)
// 4. Storage connections
//
// Errors during shutdown are logged but do not stop the shutdown sequence.
func GracefulShutdown(ctx context.Context, components ShutdownComponents) {
	slog.Info(LogMsgShuttingDownServer)
	// open streams would otherwise hold Shutdown until the deadline
	if components.SSEHub != nil {
		components.SSEHub.Stop()
	}
	if components.Server != nil {
		if err := components.Server.Stop(ctx); err != nil {
			slog.Error(LogMsgServerForcedShutdown, "error", err)
		}
	}

	slog.Info(LogMsgShuttingDownWorkers)
	if components.Scheduler != nil {
		components.Scheduler.Stop()
	}
	if components.WorkerPool != nil {
		components.WorkerPool.Stop()
	}

	if components.ResilientPublisher != nil {
		slog.Info(LogMsgShuttingDownEventPublisher)
		if err := components.ResilientPublisher.Shutdown(ctx); err != nil {
			slog.Error(LogMsgResilientPublisherFailed, "error", err)
		}
	}

	if components.Repositories != nil {
		slog.Info(LogMsgClosingStores)
		_ = components.Repositories.Close(ctx)
	}

	slog.Info(LogMsgServerStopped)
}
