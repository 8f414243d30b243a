package metrics

// ============================================================================
// Metric Names
// ============================================================================

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Event metric names
const (
	MetricNameEventsPublished    = "events_published_total"
	MetricNameEventHandlerErrors = "event_handler_errors_total"
)

// Linking metric names
const (
	MetricNameLinkAttempts      = "link_attempts_total"
	MetricNamePendingLinks      = "pending_links_created_total"
	MetricNameAccountsMerged    = "accounts_merged_total"
	MetricNamePendingLinksSwept = "pending_links_swept_total"
	MetricNameVerifierLookups   = "verifier_lookups_total"
	MetricNameVerifierLatency   = "verifier_lookup_duration_seconds"
)

// Bee name metric names
const (
	MetricNameBeeNamesServed     = "bee_names_served_total"
	MetricNameBeeNameSuggestions = "bee_name_suggestions_total"
	MetricNameSSEClients         = "sse_clients_connected"
	MetricNameSSEEventsDropped   = "sse_events_dropped_total"
)

// ============================================================================
// Metric Help Text
// ============================================================================

const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"

	HelpTextEventsPublished    = "Total number of events published"
	HelpTextEventHandlerErrors = "Total number of event handler errors"

	HelpTextLinkAttempts      = "Account link attempts by target platform and outcome"
	HelpTextPendingLinks      = "Pending links created, by target platform"
	HelpTextAccountsMerged    = "User records merged by a confirmed link"
	HelpTextPendingLinksSwept = "Expired pending links removed by the cleanup job"
	HelpTextVerifierLookups   = "Platform username lookups by platform and outcome"
	HelpTextVerifierLatency   = "Platform username lookup latency in seconds"

	HelpTextBeeNamesServed     = "Total number of random bee names served"
	HelpTextBeeNameSuggestions = "Bee name suggestions by moderation action"
	HelpTextSSEClients         = "Number of connected event stream clients"
	HelpTextSSEEventsDropped   = "Events dropped because a stream buffer was full"
)

// ============================================================================
// Metric Label Names
// ============================================================================

const (
	LabelMethod   = "method"
	LabelPath     = "path"
	LabelStatus   = "status"
	LabelType     = "type"
	LabelPlatform = "platform"
	LabelOutcome  = "outcome"
	LabelAction   = "action"
)

// Label values
const (
	OutcomeSuccess  = "success"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"

	ActionSubmitted = "submitted"
	ActionAccepted  = "accepted"
	ActionRejected  = "rejected"

	// UnmatchedRoute labels requests chi could not route, keeping path cardinality bounded
	UnmatchedRoute = "unmatched"
)

// ============================================================================
// Histogram Buckets
// ============================================================================

// HTTPLatencyBuckets range from 1ms to 10s
var HTTPLatencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// VerifierLatencyBuckets cover third-party API calls, 10ms to 10s
var VerifierLatencyBuckets = []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// ============================================================================
// Log Messages
// ============================================================================

const (
	LogMsgEventPayloadDecodeFailed = "Event payload could not be decoded"
	LogMsgMetricsRecorded          = "Metrics recorded for event"
)
