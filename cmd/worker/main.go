package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"

	"rufay/internal/config"
	"rufay/internal/database"
	"rufay/internal/ledger"
	"rufay/internal/logger"
	"rufay/internal/temporal/activities"
	"rufay/internal/temporal/workflows"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("no .env file loaded")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal(err, "Failed to load configuration")
	}
	if err := logger.Setup(cfg.GetLoggerConfig()); err != nil {
		logger.Fatal(err, "Failed to set up logging")
	}
	if !cfg.TemporalEnabled() {
		log.Fatal().Msg("TEMPORAL_ADDRESS is required to run the worker")
	}

	db, err := database.Open(cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		logger.Fatal(err, "Failed to connect to database")
	}
	defer db.Close()

	log.Info().Str("driver", cfg.DatabaseDriver).Msg("Connected to database")

	temporalClient, err := client.Dial(client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    logger.NewTemporalLogger(logger.WithComponent("temporal")),
	})
	if err != nil {
		logger.Fatal(err, "Failed to create Temporal client")
	}
	defer temporalClient.Close()

	log.Info().Str("address", cfg.TemporalAddress).Msg("Connected to Temporal")

	w := worker.New(temporalClient, cfg.TemporalTaskQueue, worker.Options{})

	w.RegisterWorkflow(workflows.OnlineBookingHoldWorkflow)

	holdActivities := activities.NewHoldActivities(ledger.NewService(db))
	w.RegisterActivity(holdActivities.ExpireOnlineBooking)

	if err := w.Start(); err != nil {
		logger.Fatal(err, "Failed to start worker")
	}

	log.Info().Str("task_queue", cfg.TemporalTaskQueue).Msg("Worker started successfully")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down worker...")
	w.Stop()
	log.Info().Msg("Worker stopped")
}
