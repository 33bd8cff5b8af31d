package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/cypherlabdev/prediction-tracker-service/internal/config"
	httpHandler "github.com/cypherlabdev/prediction-tracker-service/internal/handler/http"
	"github.com/cypherlabdev/prediction-tracker-service/internal/messaging"
	"github.com/cypherlabdev/prediction-tracker-service/internal/service"
	"github.com/cypherlabdev/prediction-tracker-service/internal/store"
	"github.com/cypherlabdev/prediction-tracker-service/pkg/conversion"
)

const defaultConfigPath = "config/config.yaml"

func main() {
	// Load .env if present
	_ = godotenv.Load()

	// Load configuration
	configPath := defaultConfigPath
	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		configPath = ""
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Setup logger
	logger := setupLogger(cfg.Logging)
	logger.Info().Msg("starting prediction-tracker-service")

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Create Redis stores
	redisClient := store.NewRedisClient(store.RedisConfig{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	matchStore := store.NewRedisMatchStore(redisClient, logger)
	subscriberStore := store.NewRedisSubscriberStore(redisClient, cfg.Redis.ReferenceTTL, logger)

	// Test Redis connection
	if err := matchStore.Ping(ctx); err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	logger.Info().Str("addr", cfg.Redis.Addr).Msg("connected to Redis")

	// Create conversion registry
	registry := conversion.NewDefaultRegistry()
	logger.Info().Int("rules", registry.Pairs()).Msg("conversion registry initialized")

	// Create service layer
	outcomeService := service.NewOutcomeService(matchStore, logger)
	matchService := service.NewMatchService(matchStore, subscriberStore, logger)
	queryService := service.NewQueryService(matchStore, subscriberStore, service.QueryConfig{
		DefaultDaysBack: cfg.Query.DefaultDaysBack,
		DatesLimit:      cfg.Query.DatesLimit,
	}, logger)
	conversionService := service.NewConversionService(registry, subscriberStore, logger)
	subscriptionService := service.NewSubscriptionService(subscriberStore, cfg.VIP.ToPlan(), logger)
	logger.Info().Msg("services initialized")

	// Create Kafka consumer
	consumer := messaging.NewKafkaConsumer(
		messaging.KafkaConsumerConfig{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.Topic,
			GroupID: cfg.Kafka.GroupID,
		},
		subscriptionService,
		logger,
	)
	defer consumer.Close()

	// Start Kafka consumer in goroutine
	go func() {
		if err := consumer.Start(ctx); err != nil {
			logger.Error().Err(err).Msg("Kafka consumer failed")
		}
	}()

	// Initialize HTTP handlers
	router := httpHandler.NewRouter(
		httpHandler.RouterConfig{
			AllowedOrigins: cfg.CORS.AllowedOrigins,
			RequestTimeout: cfg.Server.RequestTimeout,
		},
		httpHandler.Handlers{
			Outcomes: httpHandler.NewOutcomeHandler(outcomeService, queryService, logger),
			Matches:  httpHandler.NewMatchHandler(matchService, logger),
			VIP:      httpHandler.NewVIPHandler(subscriptionService, conversionService, logger),
		},
		matchStore,
		logger,
	)
	logger.Info().Msg("API routes registered")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start HTTP server in goroutine
	go func() {
		logger.Info().Int("port", cfg.Server.Port).Msg("starting HTTP server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("HTTP server failed")
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info().Msg("shutting down gracefully...")

	// Cancel context to stop consumer
	cancel()

	// Shutdown HTTP server
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("HTTP server shutdown failed")
	}

	logger.Info().Msg("shutdown complete")
}

// setupLogger configures the logger based on config
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	// Set log level
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	// Set format
	if cfg.Format == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}

	return log.Logger.With().Str("service", "prediction-tracker").Logger()
}
