package bootstrap

import (
	"log/slog"

	"github.com/p0t4t0sandwich/bee-name-generator/internal/event"
	"github.com/p0t4t0sandwich/bee-name-generator/internal/metrics"
	"github.com/p0t4t0sandwich/bee-name-generator/internal/sse"
)

// cacheSubscriber is implemented by services that keep caches coherent from events
type cacheSubscriber interface {
	RegisterHandlers(bus event.Bus)
}

// EventHandlerDependencies holds the dependencies needed for event handler registration.
type EventHandlerDependencies struct {
	EventBus    event.Bus
	UserService cacheSubscriber
	SSEHub      *sse.Hub
}

// RegisterEventHandlers sets up all event subscribers: the metrics collector,
// the user cache's merge eviction and the event stream bridge.
func RegisterEventHandlers(deps EventHandlerDependencies) {
	metrics.NewEventMetricsCollector().Register(deps.EventBus)
	slog.Info(LogMsgMetricsCollectorRegistered)

	if deps.UserService != nil {
		deps.UserService.RegisterHandlers(deps.EventBus)
		slog.Info(LogMsgUserCacheSubscribed)
	}

	if deps.SSEHub != nil {
		sse.NewSubscriber(deps.SSEHub, deps.EventBus).Subscribe()
	}
}
