package main

import (
	"context"
	"flag"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/povarna/generative-ai-agents/judge-arena/internal/batch"
	"github.com/povarna/generative-ai-agents/judge-arena/internal/setup"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	startTime := time.Now()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	input := flag.String("input", "", "Input JSONL file relative path, '-' for stdin")
	output := flag.String("output", "", "Output file relative path")
	format := flag.String("format", batch.FormatJSONL, "Output format. Supported formats: 'jsonl', 'table'")
	presets := flag.Bool("presets", false, "Run every configured preset query instead of reading -input")
	judge := flag.String("judge", "", "Judge label for preset runs and records without one")
	continueOnError := flag.Bool("continue-on-error", true, "Continue on rejected records")
	dryRun := flag.Bool("dry-run", false, "Validate input without querying models")

	flag.Parse()

	if *input == "" && !*presets {
		log.Fatal().Msg("one of -input or -presets is required")
	}
	formatValidator(format)

	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("No .env file found, using environment variables")
	}

	ctx, cancel := setupGracefulShutdown()
	defer cancel()

	cfg := setup.LoadConfig()

	deps, err := setup.Wire(ctx, cfg, &log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to wire dependencies")
	}

	defaultJudge := *judge
	if defaultJudge == "" {
		defaultJudge = deps.Arena.Judge.DefaultLabel
	}

	var records []batch.InputRecord
	if *presets {
		records = batch.PresetRecords(deps.Arena.Queries, defaultJudge)
		log.Info().Int("total", len(records)).Str("judge", defaultJudge).Msg("Using preset queries")
	} else {
		records = readRecords(ctx, *input, deps.Logger)
		log.Info().Int("total", len(records)).Msg("Input file parsed")
	}

	// Dry run validation
	if *dryRun {
		dryRunAndExit(records)
	}

	// Open output file
	var outputFile io.Writer
	if *output == "" {
		outputFile = os.Stdout
		log.Info().Msg("Writing to stdout")
	} else {
		f, err := os.Create(*output)
		if err != nil {
			log.Fatal().Err(err).Str("file", *output).Msg("Failed to create output file")
		}
		defer f.Close()
		outputFile = f
		log.Info().Str("file", *output).Msg("Writing to output file")
	}

	writer, err := batch.NewWriter(outputFile, *format, deps.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create writer")
	}

	processor := batch.NewProcessor(deps.Executor, defaultJudge, deps.Logger)
	results := processor.Process(ctx, records)

	successCount := 0
	errorCount := 0

	for result := range results {
		if err := writer.Write(result); err != nil {
			log.Error().Err(err).Int("line", result.LineNumber).Msg("Failed to write result")
		}

		if result.Err != nil {
			errorCount++
			if !*continueOnError {
				cancel()
				break
			}
			continue
		}
		successCount++
	}

	if err := writer.Close(); err != nil {
		log.Error().Err(err).Msg("Failed to flush output")
	}

	log.Info().
		Int("success", successCount).
		Int("errors", errorCount).
		Dur("duration", time.Since(startTime)).
		Msg("Batch processing complete")

	if errorCount > 0 && !*continueOnError {
		os.Exit(1)
	}
}

func readRecords(ctx context.Context, input string, logger *zerolog.Logger) []batch.InputRecord {
	var inputFile io.Reader
	if input == "-" {
		inputFile = os.Stdin
		log.Info().Msg("Reading from stdin")
	} else {
		f, err := os.Open(input)
		if err != nil {
			log.Fatal().Err(err).Str("file", input).Msg("Failed to open input file")
		}
		defer f.Close()
		inputFile = f
		log.Info().Str("file", input).Msg("Reading input file")
	}

	var records []batch.InputRecord
	for record := range batch.NewReader(inputFile, logger).ReadAll(ctx) {
		records = append(records, record)
	}
	return records
}

func setupGracefulShutdown() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Warn().Msg("Received interrupt signal, finishing current work...")
		cancel()
	}()

	return ctx, cancel
}

func formatValidator(format *string) {
	validFormats := map[string]bool{batch.FormatJSONL: true, batch.FormatTable: true}
	if !validFormats[*format] {
		log.Fatal().
			Str("format", *format).
			Msg("Invalid format. Supported: jsonl, table")
	}
}

func dryRunAndExit(records []batch.InputRecord) {
	errorCount := 0
	for _, record := range records {
		if record.Error != nil {
			log.Error().
				Int("line", record.LineNumber).
				Err(record.Error).
				Msg("Validation error")
			errorCount++
		}
	}

	if errorCount > 0 {
		log.Fatal().Int("errors", errorCount).Msg("Validation failed")
	}

	log.Info().Msg("Validation successful")
	os.Exit(0)
}
