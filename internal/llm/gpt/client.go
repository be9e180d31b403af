package gpt

import (
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type Client struct {
	Client openai.Client
}

// NewClient builds a Chat Completions client. baseURL is optional and points the
// client at an OpenAI compatible endpoint.
func NewClient(apiKey string, baseURL string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	return &Client{
		Client: openai.NewClient(opts...),
	}, nil
}
