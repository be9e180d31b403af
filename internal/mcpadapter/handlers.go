package mcpadapter

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/povarna/generative-ai-agents/judge-arena/internal/executor"
	"github.com/povarna/generative-ai-agents/judge-arena/internal/models"
)

var ErrEmptyQuery = errors.New("query must not be empty")

// CompareInput is the MCP tool input schema (matches HTTP API field names).
type CompareInput struct {
	RequestID string `json:"request_id,omitempty" jsonschema:"optional request identifier"`
	Judge     string `json:"judge,omitempty" jsonschema:"label of the judging model, defaults to the configured judge"`
	Query     string `json:"query" jsonschema:"prompt sent to every registered model"`
}

// CompareOutput flattens models.Report into a schema friendly shape.
type CompareOutput struct {
	ID           string                 `json:"id"`
	Judge        string                 `json:"judge"`
	Query        string                 `json:"query"`
	Responses    []models.ModelResponse `json:"responses"`
	Judgement    string                 `json:"judgement"`
	Report       string                 `json:"report"`
	FailedModels []string               `json:"failed_models,omitempty"`
}

type ListModelsInput struct{}

type ListModelsOutput struct {
	Models       []models.ModelEntry `json:"models"`
	Queries      []string            `json:"queries"`
	DefaultJudge string              `json:"default_judge"`
}

// Catalog describes what the arena offers to a client.
type Catalog struct {
	Entries      []models.ModelEntry
	Queries      []string
	DefaultJudge string
}

// NewCompareHandler returns a tool handler that uses the given executor.
// Pass the returned function to mcp.AddTool.
func NewCompareHandler(exec *executor.Executor, defaultJudge string) func(context.Context, *mcp.CallToolRequest, CompareInput) (*mcp.CallToolResult, CompareOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input CompareInput) (*mcp.CallToolResult, CompareOutput, error) {
		return CompareModels(ctx, exec, defaultJudge, input)
	}
}

// CompareModels runs the report flow. An unknown judge is returned as an error,
// which the SDK reports as a tool error.
func CompareModels(ctx context.Context, exec *executor.Executor, defaultJudge string, input CompareInput) (*mcp.CallToolResult, CompareOutput, error) {
	if input.Query == "" {
		return nil, CompareOutput{}, ErrEmptyQuery
	}

	judge := input.Judge
	if judge == "" {
		judge = defaultJudge
	}

	report, err := exec.Report(ctx, models.ReportRequest{
		RequestID: input.RequestID,
		Judge:     judge,
		Query:     input.Query,
	})
	if err != nil {
		return nil, CompareOutput{}, err
	}

	return nil, toCompareOutput(report), nil
}

func NewListModelsHandler(catalog Catalog) func(context.Context, *mcp.CallToolRequest, ListModelsInput) (*mcp.CallToolResult, ListModelsOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input ListModelsInput) (*mcp.CallToolResult, ListModelsOutput, error) {
		queries := catalog.Queries
		if queries == nil {
			queries = []string{}
		}
		return nil, ListModelsOutput{
			Models:       catalog.Entries,
			Queries:      queries,
			DefaultJudge: catalog.DefaultJudge,
		}, nil
	}
}

func toCompareOutput(report models.Report) CompareOutput {
	out := CompareOutput{
		ID:           report.ID,
		Judge:        report.JudgeLabel,
		Query:        report.Query,
		Judgement:    report.Judgement,
		Report:       report.Text,
		FailedModels: report.FailedModels(),
		Responses:    []models.ModelResponse{},
	}
	if report.Responses != nil {
		for _, c := range report.Responses.Completions() {
			out.Responses = append(out.Responses, models.ModelResponse{
				Model:    c.Model,
				Response: c.Text(),
				Failed:   c.Failed(),
			})
		}
	}
	return out
}

// NewServer registers the arena tools on a new MCP server.
func NewServer(exec *executor.Executor, catalog Catalog, version string) *mcp.Server {
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "judge-arena",
			Version: version,
		}, nil,
	)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "compare_models",
		Description: "Send a query to every registered model and let the selected judge model rate the answers on a scale of 10 and name a winner",
	}, NewCompareHandler(exec, catalog.DefaultJudge))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_models",
		Description: "List the registered models, the preset queries and the default judge",
	}, NewListModelsHandler(catalog))

	return server
}
