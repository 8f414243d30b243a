package sse

import (
	"context"
	"log/slog"

	"github.com/p0t4t0sandwich/bee-name-generator/internal/event"
)

// Subscriber bridges the internal event bus to the SSE hub
type Subscriber struct {
	hub *Hub
	bus event.Bus
}

// NewSubscriber creates a new SSE subscriber
func NewSubscriber(hub *Hub, bus event.Bus) *Subscriber {
	return &Subscriber{
		hub: hub,
		bus: bus,
	}
}

// Subscribe registers handlers for the events the bots listen to
func (s *Subscriber) Subscribe() {
	s.bus.Subscribe(event.BeeNameSuggested, s.beeNameHandler(EventTypeBeeNameSuggested))
	s.bus.Subscribe(event.BeeNameAccepted, s.beeNameHandler(EventTypeBeeNameAccepted))
	s.bus.Subscribe(event.BeeNameRejected, s.beeNameHandler(EventTypeBeeNameRejected))
	s.bus.Subscribe(event.LinkPendingCreated, s.handleLinkPending)
	s.bus.Subscribe(event.LinkMerged, s.handleLinkMerged)

	slog.Info(LogMsgSubscribed, "types", []string{
		EventTypeBeeNameSuggested,
		EventTypeBeeNameAccepted,
		EventTypeBeeNameRejected,
		EventTypeLinkPending,
		EventTypeLinkMerged,
	})
}

func (s *Subscriber) beeNameHandler(sseType string) event.Handler {
	return func(_ context.Context, evt event.Event) error {
		payload, err := event.DecodePayload[event.BeeNamePayloadV1](evt.Payload)
		if err != nil {
			slog.Warn(LogMsgInvalidPayload, "event_type", evt.Type, "error", err)
			return nil
		}

		s.hub.Broadcast(sseType, BeeNamePayload{Name: payload.Name})
		slog.Debug(LogMsgEventBroadcast, "event_type", sseType, "name", payload.Name)
		return nil
	}
}

func (s *Subscriber) handleLinkPending(_ context.Context, evt event.Event) error {
	payload, err := event.DecodePayload[event.LinkPendingCreatedPayloadV1](evt.Payload)
	if err != nil {
		slog.Warn(LogMsgInvalidPayload, "event_type", evt.Type, "error", err)
		return nil
	}

	s.hub.Broadcast(EventTypeLinkPending, LinkPendingPayload{
		TargetPlatform: payload.TargetPlatform,
		TargetUsername: payload.TargetUsername,
		OriginUsername: payload.OriginUsername,
	})
	slog.Debug(LogMsgEventBroadcast, "event_type", EventTypeLinkPending, "target_platform", payload.TargetPlatform)
	return nil
}

func (s *Subscriber) handleLinkMerged(_ context.Context, evt event.Event) error {
	payload, err := event.DecodePayload[event.LinkMergedPayloadV1](evt.Payload)
	if err != nil {
		slog.Warn(LogMsgInvalidPayload, "event_type", evt.Type, "error", err)
		return nil
	}

	s.hub.Broadcast(EventTypeLinkMerged, LinkMergedPayload(payload))
	slog.Debug(LogMsgEventBroadcast, "event_type", EventTypeLinkMerged, "survivor_id", payload.SurvivorID)
	return nil
}
