package main

import (
	"context"
	"flag"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/povarna/generative-ai-agents/judge-arena/internal/setup"
	"github.com/povarna/generative-ai-agents/judge-arena/internal/setup/logger"
	"github.com/povarna/generative-ai-agents/judge-arena/internal/tui"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	logFile := flag.String("log", "arena-tui.log", "Log file path, empty to discard logs")
	flag.Parse()

	_ = godotenv.Load()

	cfg := setup.LoadConfig()

	// the terminal belongs to the form, logs go to a file
	var logOut io.Writer = io.Discard
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			log.Fatal().Err(err).Str("file", *logFile).Msg("Failed to open log file")
		}
		defer f.Close()
		logOut = f
	}

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = logger.NewWithWriter(cfg.LogLevel, logOut)
	appLogger := log.Logger

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	deps, err := setup.Wire(ctx, cfg, &appLogger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to wire dependencies")
	}

	form := tui.NewForm(
		ctx,
		deps.Executor,
		deps.Registry.Labels(),
		deps.Arena.Queries,
		deps.Arena.Judge.DefaultLabel,
		&appLogger,
	)

	if _, err := tea.NewProgram(form, tea.WithAltScreen()).Run(); err != nil {
		log.Fatal().Err(err).Msg("Form exited with error")
	}
}
