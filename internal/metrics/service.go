package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		Commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "statsage_commands_total",
			Help: "The total number of chat commands handled, by command and outcome.",
		}, []string{"command", "outcome"}),
		CommandDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "statsage_command_duration_seconds",
			Help:    "The duration of chat command handling.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"command"}),
		StatUpdates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "statsage_stat_updates_total",
			Help: "The total number of stat values written, by game.",
		}, []string{"game"}),
		RiotRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "statsage_riot_requests_total",
			Help: "The total number of Riot API requests, by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		EventsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "statsage_events_published_total",
			Help: "The total number of ledger events successfully published.",
		}),
		EventsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "statsage_events_failed_total",
			Help: "The total number of ledger events that failed to publish.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "statsage_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.Commands,
		s.CommandDuration,
		s.StatUpdates,
		s.RiotRequests,
		s.EventsPublished,
		s.EventsFailed,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncCommand(command, outcome string) {
	s.Commands.WithLabelValues(command, outcome).Inc()
}

func (s *Service) ObserveCommandDuration(command string, duration float64) {
	s.CommandDuration.WithLabelValues(command).Observe(duration)
}

func (s *Service) IncStatUpdates(game string) {
	s.StatUpdates.WithLabelValues(game).Inc()
}

func (s *Service) IncRiotRequest(endpoint, outcome string) {
	s.RiotRequests.WithLabelValues(endpoint, outcome).Inc()
}

func (s *Service) IncEventsPublished() {
	s.EventsPublished.Inc()
}

func (s *Service) IncEventsFailed() {
	s.EventsFailed.Inc()
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
