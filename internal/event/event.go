package event

import (
	"context"
	"fmt"
	"sync"
)

// Type represents the type of an event
type Type string

// Metadata defines the type for event metadata
type Metadata interface{}

// Event represents a generic event in the system
type Event struct {
	Version  string      `json:"version"` // Event schema version (e.g., "1.0")
	Type     Type        `json:"type"`
	Payload  interface{} `json:"payload"`
	Metadata Metadata    `json:"metadata"`
}

// GetMetadataValue extracts a value from the event metadata safely
func (e Event) GetMetadataValue(key string) interface{} {
	if m, ok := e.Metadata.(map[string]interface{}); ok {
		return m[key]
	}
	return nil
}

// Common event types
const (
	LinkAttempted      Type = "link.attempted"
	LinkPendingCreated Type = "link.pending_created"
	LinkMerged         Type = "link.merged"
	PendingLinksSwept  Type = "link.pending_swept"

	BeeNameServed    Type = "beename.served"
	BeeNameSuggested Type = "beename.suggested"
	BeeNameAccepted  Type = "beename.accepted"
	BeeNameRejected  Type = "beename.rejected"
)

// LinkAttemptedPayloadV1 is published once per LinkAccount call.
// Outcome is "success" or the error kind.
type LinkAttemptedPayloadV1 struct {
	UserID         string `json:"user_id"`
	OriginPlatform string `json:"origin_platform"`
	TargetPlatform string `json:"target_platform"`
	Outcome        string `json:"outcome"`
}

// LinkPendingCreatedPayloadV1 describes a newly stored pending link
type LinkPendingCreatedPayloadV1 struct {
	HolderUserID   string `json:"holder_user_id"`
	OriginUsername string `json:"origin_username"`
	TargetPlatform string `json:"target_platform"`
	TargetUsername string `json:"target_username"`
}

// LinkMergedPayloadV1 names the surviving record and the one that was removed
type LinkMergedPayloadV1 struct {
	SurvivorID string `json:"survivor_id"`
	RemovedID  string `json:"removed_id"`
}

// PendingLinksSweptPayloadV1 reports a cleanup pass
type PendingLinksSweptPayloadV1 struct {
	Removed int64 `json:"removed"`
}

// BeeNamePayloadV1 carries the name an action applied to
type BeeNamePayloadV1 struct {
	Name string `json:"name"`
}

// NewLinkAttemptedEvent creates a link.attempted event
func NewLinkAttemptedEvent(userID, originPlatform, targetPlatform, outcome string) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    LinkAttempted,
		Payload: LinkAttemptedPayloadV1{
			UserID:         userID,
			OriginPlatform: originPlatform,
			TargetPlatform: targetPlatform,
			Outcome:        outcome,
		},
	}
}

// NewLinkPendingCreatedEvent creates a link.pending_created event
func NewLinkPendingCreatedEvent(holderUserID, originUsername, targetPlatform, targetUsername string) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    LinkPendingCreated,
		Payload: LinkPendingCreatedPayloadV1{
			HolderUserID:   holderUserID,
			OriginUsername: originUsername,
			TargetPlatform: targetPlatform,
			TargetUsername: targetUsername,
		},
	}
}

// NewLinkMergedEvent creates a link.merged event
func NewLinkMergedEvent(survivorID, removedID string) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    LinkMerged,
		Payload: LinkMergedPayloadV1{SurvivorID: survivorID, RemovedID: removedID},
	}
}

// NewPendingLinksSweptEvent creates a link.pending_swept event
func NewPendingLinksSweptEvent(removed int64) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    PendingLinksSwept,
		Payload: PendingLinksSweptPayloadV1{Removed: removed},
	}
}

// NewBeeNameEvent creates one of the beename.* events
func NewBeeNameEvent(eventType Type, name string) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    eventType,
		Payload: BeeNamePayloadV1{Name: name},
	}
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Bus defines the interface for an event bus
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler)
}

// MemoryBus is an in-memory implementation of the Event Bus
type MemoryBus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewMemoryBus creates a new MemoryBus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[Type][]Handler),
	}
}

// Publish runs every subscriber synchronously and joins their errors
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers, ok := b.handlers[event.Type]
	b.mu.RUnlock()

	if !ok {
		return nil
	}

	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf(LogMsgHandlerErrorFormat, len(errs), event.Type, errs)
	}

	return nil
}

// Subscribe subscribes a handler to an event type
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// NopBus drops every event. Services fall back to it when no bus is wired.
type NopBus struct{}

func (NopBus) Publish(context.Context, Event) error { return nil }
func (NopBus) Subscribe(Type, Handler)              {}
