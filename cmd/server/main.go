package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"go.temporal.io/sdk/client"

	"rufay/internal/api"
	"rufay/internal/auth"
	"rufay/internal/config"
	"rufay/internal/database"
	"rufay/internal/flightsearch"
	"rufay/internal/ledger"
	"rufay/internal/logger"
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
	if cfg.JWTSecret == "" {
		logger.Fatal(errors.New("JWT_SECRET is empty"), "Refusing to start without a token secret")
	}

	db, err := database.Open(cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		logger.Fatal(err, "Failed to connect to database")
	}
	defer db.Close()

	if err := db.Migrate(context.Background()); err != nil {
		logger.Fatal(err, "Failed to migrate database")
	}
	log.Info().Str("driver", cfg.DatabaseDriver).Msg("Connected to database")

	opts := api.Options{
		Ledger:    ledger.NewService(db),
		Auth:      auth.NewService(db, auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL)),
		TaskQueue: cfg.TemporalTaskQueue,
		Hold:      cfg.OnlineBookingHold,
	}

	if cfg.TemporalEnabled() {
		temporalClient, err := client.Dial(client.Options{
			HostPort:  cfg.TemporalAddress,
			Namespace: cfg.TemporalNamespace,
			Logger:    logger.NewTemporalLogger(logger.WithComponent("temporal")),
		})
		if err != nil {
			logger.Fatal(err, "Failed to create Temporal client")
		}
		defer temporalClient.Close()
		opts.Temporal = temporalClient
		log.Info().Str("address", cfg.TemporalAddress).Msg("Connected to Temporal")
	} else {
		log.Warn().Msg("TEMPORAL_ADDRESS not set, online booking holds are disabled")
	}

	if gen, err := flightsearch.NewOpenAIGenerator(cfg.OpenAIAPIKey, cfg.OpenAIModel); err == nil {
		opts.Search = flightsearch.NewSearcher(gen, cfg.FlightSearchResults)
	} else {
		log.Warn().Err(err).Msg("Flight search disabled")
	}

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      api.NewRouter(api.NewHandler(opts)),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.ServerPort).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal(err, "Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
