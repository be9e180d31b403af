package main

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/povarna/generative-ai-agents/judge-arena/internal/api"
	"github.com/povarna/generative-ai-agents/judge-arena/internal/mcpadapter"
	"github.com/povarna/generative-ai-agents/judge-arena/internal/setup"
	"github.com/povarna/generative-ai-agents/judge-arena/internal/setup/logger"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load env
	_ = godotenv.Load()

	cfg := setup.LoadConfig()

	// stdout carries the protocol, logs go to stderr
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = logger.NewConsole(cfg.LogLevel, os.Stderr)
	appLogger := log.Logger

	// Graceful shutdown on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Wire dependencies
	deps, err := setup.Wire(ctx, cfg, &appLogger)
	if err != nil {
		appLogger.Error().Err(err).Msg("Unable to load dependencies")
		os.Exit(1)
	}

	server := mcpadapter.NewServer(deps.Executor, mcpadapter.Catalog{
		Entries:      deps.Registry.Entries(),
		Queries:      deps.Arena.Queries,
		DefaultJudge: deps.Arena.Judge.DefaultLabel,
	}, api.Version)

	// Run over stdio
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		// EOF / "server is closing" is expected when stdin closes
		if errors.Is(err, io.EOF) || strings.Contains(err.Error(), "server is closing") {
			appLogger.Debug().Err(err).Msg("MCP server stopped")
			return
		}
		appLogger.Error().Err(err).Msg("Failed to run mcp server")
		os.Exit(1)
	}
}
