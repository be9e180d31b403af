package models

import (
	"time"
)

// ErrorPrefix starts the text that replaces a model response when the call failed.
const ErrorPrefix = "Error querying model: "

const (
	DefaultTemperature     = 0.7
	DefaultMaxOutputTokens = 500
)

type Provider string

const (
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
	ProviderBedrock   Provider = "bedrock"
)

// ModelEntry binds a human facing label to the identifier sent to the provider.
type ModelEntry struct {
	Label      string   `json:"label"`
	Identifier string   `json:"identifier"`
	Provider   Provider `json:"provider"`
}

// Options are the sampling settings sent with every completion request.
type Options struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"max_output_tokens"`
}

func DefaultOptions() Options {
	return Options{
		Temperature:     DefaultTemperature,
		MaxOutputTokens: DefaultMaxOutputTokens,
	}
}

// Completion is the outcome of one dispatch. Err is set instead of Content when
// the call failed.
type Completion struct {
	Model   string
	Content string
	Err     error
	Latency time.Duration
}

// Text renders the completion the way it appears in prompts and reports.
func (c Completion) Text() string {
	if c.Err != nil {
		return ErrorPrefix + c.Err.Error()
	}
	return c.Content
}

func (c Completion) Failed() bool {
	return c.Err != nil
}

// Input message

type ReportRequest struct {
	RequestID string `json:"request_id,omitempty"`
	Judge     string `json:"judge"`
	Query     string `json:"query"`
}

// Report is the outcome of one report run. Text is the artifact shown to users.
type Report struct {
	ID              string        `json:"id"`
	Query           string        `json:"query"`
	JudgeLabel      string        `json:"judge"`
	JudgeIdentifier string        `json:"judge_identifier"`
	Responses       *ResponseSet  `json:"responses"`
	Judgement       string        `json:"judgement"`
	Text            string        `json:"report"`
	CreatedAt       time.Time     `json:"created_at"`
	Duration        time.Duration `json:"duration_ns"`
}

// FailedModels lists the identifiers whose dispatch failed, in response order.
func (r Report) FailedModels() []string {
	var failed []string
	if r.Responses == nil {
		return failed
	}
	for _, c := range r.Responses.Completions() {
		if c.Failed() {
			failed = append(failed, c.Model)
		}
	}
	return failed
}
