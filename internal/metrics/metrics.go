package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Event Metrics
var (
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventsPublished,
			Help: HelpTextEventsPublished,
		},
		[]string{LabelType},
	)

	EventHandlerErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventHandlerErrors,
			Help: HelpTextEventHandlerErrors,
		},
		[]string{LabelType},
	)
)

// Linking Metrics
var (
	LinkAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameLinkAttempts,
			Help: HelpTextLinkAttempts,
		},
		[]string{LabelPlatform, LabelOutcome},
	)

	PendingLinksCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNamePendingLinks,
			Help: HelpTextPendingLinks,
		},
		[]string{LabelPlatform},
	)

	AccountsMerged = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameAccountsMerged,
			Help: HelpTextAccountsMerged,
		},
	)

	PendingLinksSwept = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNamePendingLinksSwept,
			Help: HelpTextPendingLinksSwept,
		},
	)

	VerifierLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameVerifierLookups,
			Help: HelpTextVerifierLookups,
		},
		[]string{LabelPlatform, LabelOutcome},
	)

	VerifierLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameVerifierLatency,
			Help:    HelpTextVerifierLatency,
			Buckets: VerifierLatencyBuckets,
		},
		[]string{LabelPlatform},
	)
)

// Bee Name Metrics
var (
	BeeNamesServed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameBeeNamesServed,
			Help: HelpTextBeeNamesServed,
		},
	)

	BeeNameSuggestions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameBeeNameSuggestions,
			Help: HelpTextBeeNameSuggestions,
		},
		[]string{LabelAction},
	)
)

// Event Stream Metrics
var (
	SSEClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameSSEClients,
			Help: HelpTextSSEClients,
		},
	)

	SSEEventsDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameSSEEventsDropped,
			Help: HelpTextSSEEventsDropped,
		},
	)
)
