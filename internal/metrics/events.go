package metrics

import (
	"context"
	"log/slog"

	"github.com/p0t4t0sandwich/bee-name-generator/internal/event"
	"github.com/p0t4t0sandwich/bee-name-generator/internal/logger"
)

// EventMetricsCollector subscribes to events and records metrics
type EventMetricsCollector struct{}

// NewEventMetricsCollector creates a new event metrics collector
func NewEventMetricsCollector() *EventMetricsCollector {
	return &EventMetricsCollector{}
}

// Register subscribes to all events
func (e *EventMetricsCollector) Register(bus event.Bus) {
	for _, t := range []event.Type{
		event.LinkAttempted,
		event.LinkPendingCreated,
		event.LinkMerged,
		event.PendingLinksSwept,
		event.BeeNameServed,
		event.BeeNameSuggested,
		event.BeeNameAccepted,
		event.BeeNameRejected,
	} {
		bus.Subscribe(t, e.HandleEvent)
	}
}

// HandleEvent processes an event and records relevant metrics
func (e *EventMetricsCollector) HandleEvent(ctx context.Context, evt event.Event) error {
	log := logger.FromContext(ctx)

	EventsPublished.WithLabelValues(string(evt.Type)).Inc()

	switch evt.Type {
	case event.LinkAttempted:
		p, err := event.DecodePayload[event.LinkAttemptedPayloadV1](evt.Payload)
		if err != nil {
			decodeFailed(log, evt, err)
			return nil
		}
		LinkAttempts.WithLabelValues(p.TargetPlatform, p.Outcome).Inc()

	case event.LinkPendingCreated:
		p, err := event.DecodePayload[event.LinkPendingCreatedPayloadV1](evt.Payload)
		if err != nil {
			decodeFailed(log, evt, err)
			return nil
		}
		PendingLinksCreated.WithLabelValues(p.TargetPlatform).Inc()

	case event.LinkMerged:
		AccountsMerged.Inc()

	case event.PendingLinksSwept:
		p, err := event.DecodePayload[event.PendingLinksSweptPayloadV1](evt.Payload)
		if err != nil {
			decodeFailed(log, evt, err)
			return nil
		}
		PendingLinksSwept.Add(float64(p.Removed))

	case event.BeeNameServed:
		BeeNamesServed.Inc()
	case event.BeeNameSuggested:
		BeeNameSuggestions.WithLabelValues(ActionSubmitted).Inc()
	case event.BeeNameAccepted:
		BeeNameSuggestions.WithLabelValues(ActionAccepted).Inc()
	case event.BeeNameRejected:
		BeeNameSuggestions.WithLabelValues(ActionRejected).Inc()
	}

	log.Debug(LogMsgMetricsRecorded, "type", evt.Type)
	return nil
}

func decodeFailed(log *slog.Logger, evt event.Event, err error) {
	EventHandlerErrors.WithLabelValues(string(evt.Type)).Inc()
	log.Debug(LogMsgEventPayloadDecodeFailed, "type", evt.Type, "error", err)
}
