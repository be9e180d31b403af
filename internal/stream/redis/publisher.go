package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/povarna/generative-ai-agents/judge-arena/internal/models"
	"github.com/redis/go-redis/v9"
)

// Publisher enqueues report requests on the request stream.
type Publisher struct {
	client StreamClient
	stream string
}

func NewPublisher(client StreamClient, stream string) *Publisher {
	return &Publisher{
		client: client,
		stream: stream,
	}
}

func (p *Publisher) Publish(ctx context.Context, req models.ReportRequest) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	id, err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: map[string]any{"payload": string(body)},
	}).Result()
	if err != nil {
		return "", fmt.Errorf("failed to publish to %s: %w", p.stream, err)
	}

	return id, nil
}
