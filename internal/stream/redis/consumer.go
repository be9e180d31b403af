package redis

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/povarna/generative-ai-agents/judge-arena/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

type Reporter interface {
	Report(ctx context.Context, req models.ReportRequest) (models.Report, error)
}

// Consumer turns report requests read from a consumer group into report
// entries on the result stream.
type Consumer struct {
	client       StreamClient
	stream       string
	groupID      string
	consumerName string
	resultStream string
	resultMaxLen int64
	reporter     Reporter
	logger       *zerolog.Logger
}

func NewConsumer(client StreamClient, cfg *RedisStreamConfig, reporter Reporter, logger *zerolog.Logger) *Consumer {
	return &Consumer{
		client:       client,
		stream:       cfg.Stream,
		groupID:      cfg.Group,
		consumerName: cfg.ConsumerName,
		resultStream: cfg.ResultStream,
		resultMaxLen: cfg.ResultMaxLen,
		reporter:     reporter,
		logger:       logger,
	}
}

func (c *Consumer) Setup(ctx context.Context) error {
	err := c.client.XGroupCreateMkStream(ctx, c.stream, c.groupID, "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return err
	}
	return nil
}

func (c *Consumer) Start(ctx context.Context) error {
	c.logger.Info().
		Str("stream", c.stream).
		Str("group", c.groupID).
		Str("consumer", c.consumerName).
		Msg("Consumer started")

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		streams, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    c.groupID,
			Consumer: c.consumerName,
			Streams:  []string{c.stream, ">"},
			Count:    1,
			Block:    2 * time.Second,
		}).Result()

		if err != nil {
			if errors.Is(err, redis.Nil) {
				// timeout, no message -> loop again
				continue
			}

			if ctx.Err() != nil {
				return ctx.Err()
			}

			c.logger.Error().Err(err).Msg("Failed to read from stream")
			continue
		}

		for _, s := range streams {
			for _, msg := range s.Messages {
				c.process(ctx, msg)
			}
		}
	}
}

func (c *Consumer) Stop() error {
	return nil
}

// resultEntry is the payload written to the result stream.
type resultEntry struct {
	RequestID string `json:"request_id"`
	Error     string `json:"error"`
}

func (c *Consumer) process(ctx context.Context, msg redis.XMessage) {
	c.logger.Info().Str("id", msg.ID).Msg("Message received")

	payload, ok := msg.Values["payload"].(string)
	if !ok {
		c.logger.Error().Str("id", msg.ID).Msg("Missing payload field")
		c.ack(ctx, msg.ID)
		return
	}

	var req models.ReportRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		c.logger.Error().Err(err).Str("id", msg.ID).Msg("Failed to decode message")
		c.ack(ctx, msg.ID) // bad message, ACK to skip it
		return
	}
	if req.RequestID == "" {
		req.RequestID = msg.ID
	}

	report, err := c.reporter.Report(ctx, req)
	if err != nil {
		c.logger.Warn().Err(err).Str("id", msg.ID).Str("judge", req.Judge).Msg("Report rejected")
		c.publish(ctx, req.RequestID, resultEntry{RequestID: req.RequestID, Error: err.Error()})
		c.ack(ctx, msg.ID)
		return
	}

	c.logger.Info().
		Str("id", msg.ID).
		Str("request_id", report.ID).
		Strs("failed_models", report.FailedModels()).
		Dur("duration", report.Duration).
		Msg("Report complete")

	c.publish(ctx, report.ID, report)
	c.ack(ctx, msg.ID)
}

func (c *Consumer) publish(ctx context.Context, requestID string, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		c.logger.Error().Err(err).Str("request_id", requestID).Msg("Failed to encode result")
		return
	}

	err = c.client.XAdd(ctx, &redis.XAddArgs{
		Stream: c.resultStream,
		MaxLen: c.resultMaxLen,
		Approx: true,
		Values: map[string]any{
			"request_id": requestID,
			"payload":    string(body),
		},
	}).Err()
	if err != nil {
		c.logger.Error().Err(err).Str("request_id", requestID).Msg("Failed to publish result")
	}
}

func (c *Consumer) ack(ctx context.Context, msgID string) {
	if err := c.client.XAck(ctx, c.stream, c.groupID, msgID).Err(); err != nil {
		c.logger.Error().Err(err).Str("id", msgID).Msg("Failed to ACK message")
	}
}
