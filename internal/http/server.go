package http

import (
	"net/http"

	"github.com/e-mault/stat-sage/internal/commands"
	"github.com/e-mault/stat-sage/internal/config"
	"github.com/e-mault/stat-sage/internal/ledger"
	"github.com/e-mault/stat-sage/internal/metrics"
	"github.com/e-mault/stat-sage/internal/notifier"
	"github.com/e-mault/stat-sage/internal/pubsub"
)

func NewServer(dispatcher *commands.Dispatcher, ledgerSvc ledger.Service, usage metrics.UsageStore, notifier notifier.Notifier, events pubsub.PubSubClient, metricsSvc metrics.Metrics, metricsHandler http.Handler, cfg config.Config) *Server {
	server := &Server{
		Dispatcher:     dispatcher,
		Ledger:         ledgerSvc,
		Usage:          usage,
		Notifier:       notifier,
		Events:         events,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Router:         http.NewServeMux(),
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// e.g. Chain(s.MyHandler(), paramsMiddleware, authMiddleware)
	s.Router.Handle("/metrics", s.MetricsHandler)
	s.Router.Handle("GET /health", Chain(s.HealthCheckHandler(), paramsMiddleware))
	s.Router.Handle("POST /slack/command", Chain(s.SlashCommandHandler(), paramsMiddleware, requestIDMiddleware, s.slackVerifyMiddleware))
	s.Router.Handle("POST /pubsub/events", Chain(s.EventPushHandler(), paramsMiddleware, requestIDMiddleware))
	s.Router.Handle("GET /api/leaderboard", Chain(s.LeaderboardHandler(), paramsMiddleware))
	s.Router.Handle("GET /api/users/{userID}/stats", Chain(s.UserStatsHandler(), paramsMiddleware))
	s.Router.Handle("GET /api/users/{userID}/totals", Chain(s.UserTotalsHandler(), paramsMiddleware))
	s.Router.Handle("GET /api/usage", Chain(s.UsageHandler(), paramsMiddleware))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
