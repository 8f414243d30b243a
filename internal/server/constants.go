package server

import "time"

// HTTP error messages for middleware responses
const (
	ErrMsgUnauthorized    = "Unauthorized"
	ErrMsgTooManyRequests = "Too Many Requests"
)

// Security alert message templates
const (
	SecurityAlertFailedAuth = "SECURITY ALERT: Multiple failed authentication attempts"
	SecurityAlertHighRate   = "Rate limit exceeded"
)

// Log messages for server lifecycle and request handling
const (
	LogMsgServerStarting   = "Server starting"
	LogMsgRequestStarted   = "Request started"
	LogMsgRequestCompleted = "Request completed"
	LogMsgRequestHeaders   = "Request headers"
	LogMsgAuthFailed       = "Authentication failed"
)

// HTTP header names
const (
	HeaderAPIKey         = "X-API-Key"
	HeaderAuthorization  = "Authorization"
	HeaderForwardedFor   = "X-Forwarded-For"
	HeaderRetryAfter     = "Retry-After"
	HeaderContentType    = "X-Content-Type-Options"
	HeaderFrameOptions   = "X-Frame-Options"
	HeaderReferrerPolicy = "Referrer-Policy"
	HeaderCSP            = "Content-Security-Policy"
)

// Security header values
const (
	HeaderValueNoSniff    = "nosniff"
	HeaderValueDeny       = "DENY"
	HeaderValueNoReferrer = "no-referrer"
	HeaderValueCSPNone    = "default-src 'none'; frame-ancestors 'none'"
)

const bearerPrefix = "Bearer "

// Rate limiting
const (
	DefaultRateBurst         = 40
	FailedAuthAlertThreshold = 5
	MaxTrackedClients        = 10000
	ClientIdleTTL            = 10 * time.Minute
	MaxRequestBodyBytes      = 1 << 20
)

// Paths skipped by request logging
var quietPaths = []string{
	"/healthz",
	"/readyz",
	"/metrics",
}

// Header redaction marker
const (
	RedactedValue = "[REDACTED]"
)
