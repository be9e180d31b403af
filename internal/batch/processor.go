package batch

import (
	"context"

	"github.com/povarna/generative-ai-agents/judge-arena/internal/models"
	"github.com/rs/zerolog"
)

type Reporter interface {
	Report(ctx context.Context, req models.ReportRequest) (models.Report, error)
}

// Result is the outcome of one input record. Err is set for invalid lines and
// rejected requests; Report is only meaningful when Err is nil.
type Result struct {
	LineNumber int
	Request    models.ReportRequest
	Report     models.Report
	Err        error
}

// Processor runs the report flow for each record in input order, one at a time.
type Processor struct {
	reporter     Reporter
	defaultJudge string
	logger       *zerolog.Logger
}

func NewProcessor(reporter Reporter, defaultJudge string, logger *zerolog.Logger) *Processor {
	return &Processor{
		reporter:     reporter,
		defaultJudge: defaultJudge,
		logger:       logger,
	}
}

func (p *Processor) Process(ctx context.Context, records []InputRecord) <-chan Result {
	out := make(chan Result)

	go func() {
		defer close(out)

		for _, record := range records {
			if ctx.Err() != nil {
				p.logger.Warn().Int("line", record.LineNumber).Msg("Processing cancelled")
				return
			}

			result := p.processOne(ctx, record)

			select {
			case out <- result:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}

func (p *Processor) processOne(ctx context.Context, record InputRecord) Result {
	result := Result{LineNumber: record.LineNumber, Request: record.Request}
	if record.Error != nil {
		result.Err = record.Error
		return result
	}

	if result.Request.Judge == "" {
		result.Request.Judge = p.defaultJudge
	}

	report, err := p.reporter.Report(ctx, result.Request)
	if err != nil {
		p.logger.Error().Err(err).Int("line", record.LineNumber).Str("judge", result.Request.Judge).Msg("Report rejected")
		result.Err = err
		return result
	}

	p.logger.Info().
		Int("line", record.LineNumber).
		Str("request_id", report.ID).
		Int("failed_models", len(report.FailedModels())).
		Msg("Report complete")

	result.Report = report
	return result
}
