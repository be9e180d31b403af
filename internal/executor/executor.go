package executor

//go:generate mockgen -source=executor.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/povarna/generative-ai-agents/judge-arena/internal/metrics"
	"github.com/povarna/generative-ai-agents/judge-arena/internal/models"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Dispatcher performs one completion round trip and never fails.
type Dispatcher interface {
	Query(ctx context.Context, prompt string, modelID string, opts models.Options) models.Completion
}

// Registry exposes the ordered set of arena models
type Registry interface {
	Entries() []models.ModelEntry
	IdentifierFor(label string) (string, error)
}

// Judge rates a set of responses using the model registered under judgeLabel
type Judge interface {
	Evaluate(ctx context.Context, judgeLabel string, query string, responses *models.ResponseSet) (string, error)
}

type Executor struct {
	registry    Registry
	dispatcher  Dispatcher
	judge       Judge
	opts        models.Options
	concurrency int
	metrics     *metrics.Metrics
	logger      *zerolog.Logger
}

// NewExecutor wires the orchestration flow. concurrency bounds the number of
// in-flight broadcast calls; values below 1 mean one call per model at once.
func NewExecutor(
	registry Registry,
	dispatcher Dispatcher,
	judge Judge,
	opts models.Options,
	concurrency int,
	m *metrics.Metrics,
	logger *zerolog.Logger,
) *Executor {
	return &Executor{
		registry:    registry,
		dispatcher:  dispatcher,
		judge:       judge,
		opts:        opts,
		concurrency: concurrency,
		metrics:     m,
		logger:      logger,
	}
}

// Broadcast sends query to every registered model and keys the answers by
// identifier in registry order.
func (e *Executor) Broadcast(ctx context.Context, query string) *models.ResponseSet {
	entries := e.registry.Entries()
	slots := make([]models.Completion, len(entries))

	limit := e.concurrency
	if limit < 1 {
		limit = len(entries)
	}

	var g errgroup.Group
	g.SetLimit(limit)
	for i, entry := range entries {
		g.Go(func() error {
			slots[i] = e.dispatcher.Query(ctx, query, entry.Identifier, e.opts)
			return nil
		})
	}
	_ = g.Wait()

	responses := models.NewResponseSet()
	for i, entry := range entries {
		c := slots[i]
		c.Model = entry.Identifier
		responses.Set(c)
	}

	return responses
}

func (e *Executor) Judge(ctx context.Context, judgeLabel string, query string, responses *models.ResponseSet) (string, error) {
	return e.judge.Evaluate(ctx, judgeLabel, query, responses)
}

// Report runs broadcast and judge for one query. The only error it returns is
// an unknown judge label, detected before any model is queried.
func (e *Executor) Report(ctx context.Context, req models.ReportRequest) (models.Report, error) {
	now := time.Now()

	id := req.RequestID
	if id == "" {
		id = uuid.NewString()
	}

	report := models.Report{
		ID:         id,
		Query:      req.Query,
		JudgeLabel: req.Judge,
		CreatedAt:  now,
	}

	judgeID, err := e.registry.IdentifierFor(req.Judge)
	if err != nil {
		e.metrics.ObserveReport(metrics.OutcomeRejected)
		e.logger.Error().Err(err).Str("requestID", id).Str("judge", req.Judge).Msg("judge not found")
		return report, err
	}
	report.JudgeIdentifier = judgeID

	e.logger.Info().Str("requestID", id).Str("judge", req.Judge).Msg("starting report")

	report.Responses = e.Broadcast(ctx, req.Query)

	judgement, err := e.Judge(ctx, req.Judge, req.Query, report.Responses)
	if err != nil {
		e.metrics.ObserveReport(metrics.OutcomeFailure)
		return report, fmt.Errorf("judge %s: %w", req.Judge, err)
	}
	report.Judgement = judgement

	report.Text = AssembleReport(req.Query, report.Responses, req.Judge, judgement)
	report.Duration = time.Since(now)

	e.metrics.ObserveReport(metrics.OutcomeSuccess)
	e.logger.Info().
		Str("requestID", id).
		Str("judge", req.Judge).
		Strs("failedModels", report.FailedModels()).
		Dur("duration", report.Duration).
		Msg("report completed")

	return report, nil
}

// AssembleReport renders the text shown to users. The output depends only on
// its inputs.
func AssembleReport(query string, responses *models.ResponseSet, judgeLabel string, judgement string) string {
	var b strings.Builder

	b.WriteString("Query: ")
	b.WriteString(query)
	b.WriteString("\n\nResponses:\n")

	if responses != nil {
		for _, c := range responses.Completions() {
			b.WriteString("\n### ")
			b.WriteString(c.Model)
			b.WriteString(":\n")
			b.WriteString(c.Text())
			b.WriteString("\n")
		}
	}

	b.WriteString("\n\nJudgement by ")
	b.WriteString(judgeLabel)
	b.WriteString(": \n")
	b.WriteString(judgement)

	return b.String()
}
