package metrics

import "context"

// Metrics defines the interface for collecting application metrics.
// This decouples the application from the specific metrics implementation (e.g., Prometheus).
type Metrics interface {
	IncCommand(command, outcome string)
	ObserveCommandDuration(command string, duration float64)
	IncStatUpdates(game string)
	IncRiotRequest(endpoint, outcome string)
	IncEventsPublished()
	IncEventsFailed()
	SetStartupTime(duration float64)
}

// UsageStore persists how often each chat command was used. Unlike the
// Prometheus counters these survive restarts.
type UsageStore interface {
	Increment(ctx context.Context, key string)
	GetAll(ctx context.Context) (map[string]int, error)
}
