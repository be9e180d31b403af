package dispatch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/povarna/generative-ai-agents/judge-arena/internal/llm"
	"github.com/povarna/generative-ai-agents/judge-arena/internal/metrics"
	"github.com/povarna/generative-ai-agents/judge-arena/internal/models"
	"github.com/rs/zerolog"
)

var ErrNoRoute = errors.New("no provider configured for model")

// Dispatcher sends single prompts to the provider serving a model identifier.
// Failures never escape: they come back as a Completion carrying Err.
type Dispatcher struct {
	clients map[models.Provider]llm.LLMClient
	routes  map[string]models.Provider
	logger  *zerolog.Logger
	metrics *metrics.Metrics
}

func New(clients map[models.Provider]llm.LLMClient, entries []models.ModelEntry, logger *zerolog.Logger, m *metrics.Metrics) *Dispatcher {
	routes := make(map[string]models.Provider, len(entries))
	for _, e := range entries {
		routes[e.Identifier] = e.Provider
	}
	return &Dispatcher{
		clients: clients,
		routes:  routes,
		logger:  logger,
		metrics: m,
	}
}

// Complete returns the model's reply, or "Error querying model: <cause>".
func (d *Dispatcher) Complete(ctx context.Context, prompt string, modelID string, opts models.Options) string {
	return d.Query(ctx, prompt, modelID, opts).Text()
}

func (d *Dispatcher) Query(ctx context.Context, prompt string, modelID string, opts models.Options) models.Completion {
	start := time.Now()
	d.logger.Debug().Str("model", modelID).Int("promptLength", len(prompt)).Msg("dispatching prompt")

	content, err := d.invoke(ctx, prompt, modelID, opts)
	completion := models.Completion{
		Model:   modelID,
		Content: content,
		Err:     err,
		Latency: time.Since(start),
	}

	d.metrics.ObserveDispatch(modelID, completion.Failed(), completion.Latency)
	if err != nil {
		d.logger.Warn().Err(err).Str("model", modelID).Dur("latency", completion.Latency).Msg("model query failed")
	} else {
		d.logger.Info().Str("model", modelID).Dur("latency", completion.Latency).Msg("model query completed")
	}

	return completion
}

func (d *Dispatcher) invoke(ctx context.Context, prompt string, modelID string, opts models.Options) (content string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("client panic: %v", r)
		}
	}()

	if err := ctx.Err(); err != nil {
		return "", err
	}

	provider, ok := d.routes[modelID]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNoRoute, modelID)
	}
	client, ok := d.clients[provider]
	if !ok || client == nil {
		return "", fmt.Errorf("%w: %s (provider %s)", ErrNoRoute, modelID, provider)
	}

	resp, err := client.InvokeModel(ctx, llm.LLMRequest{
		Model:       modelID,
		Prompt:      prompt,
		MaxTokens:   opts.MaxOutputTokens,
		Temperature: opts.Temperature,
	})
	if err != nil {
		return "", err
	}
	if resp == nil {
		return "", llm.ErrNoContent
	}
	return resp.Content, nil
}
