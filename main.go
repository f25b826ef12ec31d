package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/e-mault/stat-sage/internal/commands"
	"github.com/e-mault/stat-sage/internal/config"
	"github.com/e-mault/stat-sage/internal/database"
	server "github.com/e-mault/stat-sage/internal/http"
	"github.com/e-mault/stat-sage/internal/ledger"
	"github.com/e-mault/stat-sage/internal/metrics"
	"github.com/e-mault/stat-sage/internal/notifier/slack"
	"github.com/e-mault/stat-sage/internal/pubsub"
	"github.com/e-mault/stat-sage/internal/riot"
	"github.com/e-mault/stat-sage/internal/store"
)

func main() {
	// Start profiling timer
	startTime := time.Now()
	log.SetFormatter(log.JSONFormatter)
	cfg := config.Load()
	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	} else {
		log.Warn("Unknown log level, keeping default", "level", cfg.LogLevel)
	}

	var (
		ledgerStore ledger.Store
		usage       metrics.UsageStore
	)
	switch cfg.Store.Backend {
	case config.BackendFile:
		log.Info("Using file store", "path", cfg.Store.StatsFile)
		ledgerStore = store.NewFileStore(cfg.Store.StatsFile)
	default:
		db, dbTeardown, err := database.InitDB(cfg.Store.DBName, cfg.Turso.PrimaryURL, cfg.Turso.AuthToken)
		dbInitDuration := time.Since(startTime)
		log.Info("Database initialization time recorded", "duration_ms", dbInitDuration.Milliseconds())
		if err != nil {
			log.Fatalf("Failed to initialize database: %s", err)
		}
		defer func() {
			log.Info("Closing database connection")
			dbTeardown()
		}()
		ledgerStore = store.NewSQLStore(db)
		usage = metrics.NewUsageStore(db)
	}

	ctx := context.Background()
	events := pubsub.NewNoop()
	if cfg.ProjectID != "" {
		client, err := pubsub.New(ctx, cfg.ProjectID)
		if err != nil {
			log.Fatalf("Failed to initialize pubsub: %s", err)
		}
		events = client
	} else {
		log.Info("GCP_PROJECT not set, event publishing disabled")
	}
	defer events.Close()

	engine := ledger.NewEngine(ledgerStore)
	metricsSvc := metrics.NewService()
	metricsHandler := metrics.NewMetricsHandler()
	riotClient := riot.NewClient(cfg.Riot.APIKey, cfg.Riot.RegionalURL, cfg.Riot.PlatformURL, metricsSvc)
	notifier := slack.NewNotifier(cfg.Slack.Token, cfg.Slack.ChannelID)
	dispatcher := commands.New(engine, riotClient, notifier, metricsSvc, usage, events)

	s := server.NewServer(
		dispatcher,
		engine,
		usage,
		notifier,
		events,
		metricsSvc,
		metricsHandler,
		cfg,
	)

	// --- Record startup time ---
	startupDuration := time.Since(startTime)
	metricsSvc.SetStartupTime(startupDuration.Seconds())
	log.Info("Startup time recorded", "duration_ms", startupDuration.Milliseconds())

	// --- Graceful shutdown setup ---
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: s,
	}

	// Channel to listen for errors coming from the server
	serverErrors := make(chan error, 1)

	go func() {
		log.Info("Server started", "port", cfg.Port, "store", cfg.Store.Backend)
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-shutdown:
		log.Info("Shutdown signal received", "signal", sig)

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Server shutdown failed", "error", err)
		} else {
			log.Info("Server gracefully stopped")
		}
	}

	log.Info("Server process shutting down")
}
