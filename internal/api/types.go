package api

import "github.com/povarna/generative-ai-agents/judge-arena/internal/models"

type HealthResponse struct {
	Status  string `json:"status" description:"Service status"`
	Version string `json:"version" description:"API version"`
}

type BroadcastRequest struct {
	Query string `json:"query" description:"Prompt sent to every registered model"`
}

type BroadcastResponse struct {
	Query     string              `json:"query" description:"The prompt that was broadcast"`
	Responses *models.ResponseSet `json:"responses" description:"One response per model identifier in registry order"`
}

type JudgeRequest struct {
	Judge     string                 `json:"judge" description:"Label of the judging model"`
	Query     string                 `json:"query" description:"The original user query"`
	Responses []models.ModelResponse `json:"responses" description:"Responses to be rated"`
}

type JudgeResponse struct {
	Judge     string `json:"judge" description:"Label of the judging model"`
	Judgement string `json:"judgement" description:"The judge model's reply"`
}

type ReportRequest struct {
	RequestID string `json:"request_id,omitempty" description:"Optional caller supplied id"`
	Judge     string `json:"judge" description:"Label of the judging model"`
	Query     string `json:"query" description:"Prompt sent to every registered model"`
}

type QueriesResponse struct {
	Queries []string `json:"queries" description:"Preset queries"`
}
