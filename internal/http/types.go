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

type Server struct {
	Dispatcher     *commands.Dispatcher
	Ledger         ledger.Service
	Usage          metrics.UsageStore
	Notifier       notifier.Notifier
	Events         pubsub.PubSubClient
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Cfg            config.Config
	Router         *http.ServeMux
}

// pushEnvelope is the body of a Pub/Sub push delivery.
type pushEnvelope struct {
	Subscription string `json:"subscription"`
	Message      struct {
		Data       string            `json:"data"`
		Attributes map[string]string `json:"attributes"`
		MessageID  string            `json:"messageId"`
	} `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}
