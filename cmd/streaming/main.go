package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/povarna/generative-ai-agents/judge-arena/internal/setup"
	"github.com/povarna/generative-ai-agents/judge-arena/internal/setup/logger"
	"github.com/povarna/generative-ai-agents/judge-arena/internal/stream"
	"github.com/povarna/generative-ai-agents/judge-arena/internal/stream/redis"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load env
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("No .env file found")
	}

	cfg := setup.LoadConfig()

	// Setup logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = logger.NewConsole(cfg.LogLevel, os.Stderr)
	appLogger := log.Logger

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	deps, err := setup.Wire(ctx, cfg, &appLogger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to wire dependencies")
	}

	consumerName, _ := os.Hostname()
	if consumerName == "" {
		consumerName = "arena-worker"
	}

	streamCfg := &stream.StreamConfig{
		Provider:    os.Getenv("STREAM_PROVIDER"),
		RedisConfig: redis.NewRedisStreamConfig(cfg.RedisAddr, cfg.RedisPassword, consumerName),
	}

	consumer, err := stream.NewStreamConsumer(ctx, streamCfg, deps.Executor, &appLogger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create stream consumer")
	}

	// Setup consumer
	if err := consumer.Setup(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to setup consumer")
	}

	// Start consumer
	go func() {
		if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			appLogger.Error().Err(err).Msg("Consumer stopped with error")
		}
	}()

	// Wait for context to be done
	<-ctx.Done()
	appLogger.Info().Msg("Shutting down...")

	if err := consumer.Stop(); err != nil {
		appLogger.Error().Err(err).Msg("Failed to stop consumer")
	}

	log.Info().Msg("Judge Arena worker stopped")
}
