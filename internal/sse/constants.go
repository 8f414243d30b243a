package sse

import "time"

// Buffer sizes
const (
	// BroadcastBufferSize is the buffer size for the broadcast channel
	BroadcastBufferSize = 100

	// ClientEventBuffer is the buffer size for each client's event channel
	ClientEventBuffer = 50

	// ClientChannelBuffer is the buffer size for register/unregister channels
	ClientChannelBuffer = 10
)

// SSE connection settings
const (
	// KeepaliveInterval is how often to send keepalive pings
	KeepaliveInterval = 30 * time.Second

	// QueryParamTypes filters the stream to a comma separated list of event types
	QueryParamTypes = "types"
)

// Event types for SSE
const (
	EventTypeBeeNameSuggested = "beename.suggested"
	EventTypeBeeNameAccepted  = "beename.accepted"
	EventTypeBeeNameRejected  = "beename.rejected"
	EventTypeLinkPending      = "link.pending_created"
	EventTypeLinkMerged       = "link.merged"

	// EventTypeConnected is the first event on every stream
	EventTypeConnected = "connected"

	// EventTypeKeepalive is the keepalive ping event type
	EventTypeKeepalive = "keepalive"
)

// Log messages
const (
	LogMsgClientConnected    = "SSE client connected"
	LogMsgClientDisconnected = "SSE client disconnected"
	LogMsgEventBroadcast     = "Broadcasting SSE event"
	LogMsgEventDropped       = "SSE broadcast buffer full, dropping event"
	LogMsgWriteError         = "Failed to write SSE event"
	LogMsgInvalidPayload     = "Invalid event payload for SSE"
	LogMsgSubscribed         = "SSE subscriber registered for event types"
)

// Error messages
const (
	ErrMsgStreamingUnsupported = "Streaming unsupported"
)
