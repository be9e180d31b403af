package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/povarna/generative-ai-agents/judge-arena/internal/models"
	"github.com/povarna/generative-ai-agents/judge-arena/internal/stream/redis"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	judge := flag.String("judge", "", "Label of the judging model")
	query := flag.String("query", "", "Query sent to every registered model")
	requestID := flag.String("id", "", "Optional request identifier")
	stream := flag.String("stream", redis.DefaultRequestStream, "Stream name")
	flag.Parse()

	if *judge == "" || *query == "" {
		fmt.Fprintln(os.Stderr, "Usage: producer -judge '<label>' -query '<text>'")
		flag.PrintDefaults()
		os.Exit(1)
	}

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	req := models.ReportRequest{RequestID: *requestID, Judge: *judge, Query: *query}
	if err := run(req, *stream); err != nil {
		log.Error().Err(err).Msg("producer failed")
		os.Exit(1)
	}
}

func run(req models.ReportRequest, stream string) error {
	_ = godotenv.Load()

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	ctx := context.Background()
	client, err := redis.ConnectRedis(ctx, addr, os.Getenv("REDIS_PASSWORD"), 3, &log.Logger)
	if err != nil {
		return err
	}
	defer client.Close()

	id, err := redis.NewPublisher(client, stream).Publish(ctx, req)
	if err != nil {
		return err
	}

	log.Info().Str("stream", stream).Str("id", id).Str("judge", req.Judge).Msg("Published successfully!")
	return nil
}
