package llm

import "errors"

var ErrNoContent = errors.New("no content in response")

type LLMRequest struct {
	Model       string
	Prompt      string
	MaxTokens   int
	Temperature float64
}

type LLMResponse struct {
	Content    string
	StopReason string
}
