/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the Chronos HR engine server.

STARTUP SEQUENCE:
  1. Parse flags, load configuration (defaults + file + CHRONOS_* env)
  2. Open the SQLite store
  3. Build the vacation store/manager, correction service, and tracker
  4. Start the break monitor
  5. Start the HTTP server with graceful shutdown

COMMAND-LINE FLAGS:
  -config  Optional YAML config file path

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Stop the break monitor
  4. Close the database

SEE ALSO:
  - config/config.go: configuration schema
  - api/server.go: router configuration
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/chronos/hr-engine/api"
	"github.com/chronos/hr-engine/config"
	"github.com/chronos/hr-engine/correction"
	"github.com/chronos/hr-engine/notify"
	"github.com/chronos/hr-engine/store/sqlite"
	"github.com/chronos/hr-engine/vacation"
	"github.com/chronos/hr-engine/worksession"
)

func main() {
	configPath := flag.String("config", "", "YAML config file path")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	db, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err))
	}
	defer db.Close()

	policy := vacation.Policy{
		AnnualAllowanceDays: cfg.Policy.AnnualAllowanceDays,
		TeamSize:            cfg.Policy.TeamSize,
		MinAvailability:     decimal.NewFromFloat(cfg.Policy.MinAvailability),
	}

	ctx := context.Background()
	vacations, err := vacation.NewStore(ctx, db, policy, logger)
	if err != nil {
		logger.Fatal("failed to load vacation store", zap.Error(err))
	}
	manager := vacation.NewManager(vacations, logger)

	client := correction.NewClient(cfg.Upstream.BaseURL,
		&http.Client{Timeout: cfg.Upstream.Timeout})
	corrections := correction.NewService(client, logger)

	tracker := worksession.NewTracker(db, logger)

	var notifier worksession.Notifier
	if cfg.SMTP.Enabled {
		notifier = notify.NewMailer(notify.Config{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
			To:       cfg.SMTP.To,
		}, logger)
	}

	monitor := worksession.NewBreakMonitor(db, notifier, logger)
	monitor.CheckInterval = cfg.Monitor.CheckInterval
	monitor.BreakThreshold = cfg.Monitor.BreakThreshold
	if cfg.Monitor.Enabled {
		monitor.Start()
		defer monitor.Stop()
	}

	handler := api.NewHandler(vacations, manager, corrections, tracker, db, logger)
	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting", zap.Int("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}
