package judge

import (
	"bytes"
	"context"
	"fmt"
	"text/template"
	"time"

	"github.com/povarna/generative-ai-agents/judge-arena/internal/models"
	"github.com/rs/zerolog"
)

type Dispatcher interface {
	Query(ctx context.Context, prompt string, modelID string, opts models.Options) models.Completion
}

type Registry interface {
	IdentifierFor(label string) (string, error)
}

// promptData is the value the judge template is executed against.
type promptData struct {
	Query string
}

// Judge asks one registered model to rate the responses of the others.
type Judge struct {
	registry       Registry
	dispatcher     Dispatcher
	promptTemplate *template.Template
	opts           models.Options
	logger         *zerolog.Logger
}

func New(registry Registry, dispatcher Dispatcher, prompt string, opts models.Options, logger *zerolog.Logger) (*Judge, error) {
	tmpl, err := template.New("judge").Parse(prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse judge prompt template: %w", err)
	}

	// catch references to fields other than .Query at startup
	if err := tmpl.Execute(&bytes.Buffer{}, promptData{}); err != nil {
		return nil, fmt.Errorf("failed to execute judge prompt template: %w", err)
	}

	return &Judge{
		registry:       registry,
		dispatcher:     dispatcher,
		promptTemplate: tmpl,
		opts:           opts,
		logger:         logger,
	}, nil
}

// Evaluate resolves the judge label, builds the judging prompt and returns the
// judge model's reply verbatim. Only an unknown label is returned as an error;
// a failed judge call comes back as error text.
func (j *Judge) Evaluate(ctx context.Context, judgeLabel string, query string, responses *models.ResponseSet) (string, error) {
	judgeID, err := j.registry.IdentifierFor(judgeLabel)
	if err != nil {
		return "", err
	}

	prompt, err := j.BuildPrompt(judgeID, query, responses)
	if err != nil {
		return "", err
	}

	now := time.Now()
	completion := j.dispatcher.Query(ctx, prompt, judgeID, j.opts)

	j.logger.Info().
		Str("judge", judgeLabel).
		Str("model", judgeID).
		Int("candidates", candidates(judgeID, responses)).
		Bool("failed", completion.Failed()).
		Dur("duration", time.Since(now)).
		Msg("judge completed")

	return completion.Text(), nil
}

// BuildPrompt renders the template with the query and appends one
// "<identifier>: <response>" line per response not produced by judgeID.
func (j *Judge) BuildPrompt(judgeID string, query string, responses *models.ResponseSet) (string, error) {
	var buf bytes.Buffer
	if err := j.promptTemplate.Execute(&buf, promptData{Query: query}); err != nil {
		return "", fmt.Errorf("template execution failed: %w", err)
	}

	if responses == nil {
		return buf.String(), nil
	}

	for _, c := range responses.Completions() {
		if c.Model == judgeID {
			continue
		}
		buf.WriteString(c.Model)
		buf.WriteString(": ")
		buf.WriteString(c.Text())
		buf.WriteString("\n")
	}

	return buf.String(), nil
}

func candidates(judgeID string, responses *models.ResponseSet) int {
	if responses == nil {
		return 0
	}
	n := 0
	for _, id := range responses.Identifiers() {
		if id != judgeID {
			n++
		}
	}
	return n
}
