package metrics

import "github.com/prometheus/client_golang/prometheus"

// Outcome labels used with IncCommand and IncRiotRequest.
const (
	OutcomeOK       = "ok"
	OutcomeInvalid  = "invalid"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

// Service holds all the Prometheus metrics for the application.
// By defining them all in one place, we ensure consistency in naming and labeling.
type Service struct {
	Commands           *prometheus.CounterVec
	CommandDuration    *prometheus.HistogramVec
	StatUpdates        *prometheus.CounterVec
	RiotRequests       *prometheus.CounterVec
	EventsPublished    prometheus.Counter
	EventsFailed       prometheus.Counter
	StartupTimeSeconds prometheus.Gauge
}
