package claude

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/povarna/generative-ai-agents/judge-arena/internal/llm"
)

func (c *Client) InvokeModel(ctx context.Context, request llm.LLMRequest) (*llm.LLMResponse, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(request.Model),
		MaxTokens: int64(request.MaxTokens),
		Messages: []anthropic.MessageParam{{
			Role: anthropic.MessageParamRoleUser,
			Content: []anthropic.ContentBlockParamUnion{
				anthropic.NewTextBlock(request.Prompt),
			},
		}},
	}
	params.Temperature = anthropic.Float(request.Temperature)

	message, err := c.Client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("unable to invoke claude model %s: %w", request.Model, err)
	}

	var text strings.Builder
	for _, content := range message.Content {
		if content.Type == "text" {
			text.WriteString(content.Text)
		}
	}
	if text.Len() == 0 {
		return nil, fmt.Errorf("model %s: %w", request.Model, llm.ErrNoContent)
	}

	return &llm.LLMResponse{
		Content:    text.String(),
		StopReason: string(message.StopReason),
	}, nil
}
