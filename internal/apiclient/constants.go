package apiclient

import "time"

// =============================================================================
// Routes
// =============================================================================

const (
	PathHealth           = "/healthz"
	PathName             = "/api/v1/bee-name-generator/name"
	PathNameParam        = "/api/v1/bee-name-generator/name/{name}"
	PathSuggestionParam  = "/api/v1/bee-name-generator/suggestion/{name}"
	PathSuggestionAmount = "/api/v1/bee-name-generator/suggestion/{amount}"
	PathLink             = "/api/v1/link"
	PathLinkStatus       = "/api/v1/link/status"
	PathEvents           = "/api/v1/events"
)

// =============================================================================
// Transport
// =============================================================================

const (
	HeaderAPIKey = "X-API-Key"
	UserAgent    = "bee-name-generator-bot"

	DefaultTimeout      = 10 * time.Second
	DefaultRetryCount   = 3
	DefaultRetryWait    = 500 * time.Millisecond
	DefaultRetryMaxWait = 4 * time.Second
)

// =============================================================================
// Event Stream
// =============================================================================

const (
	streamInitialBackoff    = time.Second
	streamMaxBackoff        = time.Minute
	streamBackoffMultiplier = 2.0
	streamBufferSize        = 64 * 1024

	streamEventConnected = "connected"
	streamEventKeepalive = "keepalive"
)

// =============================================================================
// Messages
// =============================================================================

const (
	ErrMsgAPIPrefix     = "API error: "
	ErrMsgUnexpected    = "unexpected status %d"
	ErrMsgRequestFailed = "request to %s failed: %w"
	ErrMsgStreamClosed  = "event stream closed"

	LogMsgStreamConnected = "Connected to API event stream"
	LogMsgStreamFailed    = "API event stream connection failed"
	LogMsgStreamStopped   = "API event stream stopped"
	LogMsgStreamParse     = "Failed to parse stream event"
	LogMsgStreamHandler   = "Stream event handler failed"
)
