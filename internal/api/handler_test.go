package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/emicklei/go-restful/v3"
	"github.com/google/go-cmp/cmp"
	"github.com/povarna/generative-ai-agents/judge-arena/internal/api"
	"github.com/povarna/generative-ai-agents/judge-arena/internal/api/middleware"
	"github.com/povarna/generative-ai-agents/judge-arena/internal/dispatch"
	"github.com/povarna/generative-ai-agents/judge-arena/internal/executor"
	"github.com/povarna/generative-ai-agents/judge-arena/internal/judge"
	"github.com/povarna/generative-ai-agents/judge-arena/internal/llm"
	"github.com/povarna/generative-ai-agents/judge-arena/internal/metrics"
	"github.com/povarna/generative-ai-agents/judge-arena/internal/models"
	"github.com/povarna/generative-ai-agents/judge-arena/internal/registry"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

type testAPI struct {
	container *restful.Container
	calls     *int32
}

// setupTestAPI builds the real stack on top of a stub provider client that
// answers "answer from <model>" and fails for "broken-1".
func setupTestAPI(t *testing.T) testAPI {
	t.Helper()
	logger := zerolog.Nop()

	reg, err := registry.New([]models.ModelEntry{
		{Label: "Alpha", Identifier: "alpha-1", Provider: models.ProviderOpenAI},
		{Label: "Beta", Identifier: "beta-1", Provider: models.ProviderOpenAI},
		{Label: "Broken", Identifier: "broken-1", Provider: models.ProviderOpenAI},
	})
	if err != nil {
		t.Fatalf("registry.New() failed: %v", err)
	}

	var calls int32
	stub := llm.ClientFunc(func(ctx context.Context, request llm.LLMRequest) (*llm.LLMResponse, error) {
		atomic.AddInt32(&calls, 1)
		if request.Model == "broken-1" {
			return nil, errors.New("connection refused")
		}
		return &llm.LLMResponse{Content: "answer from " + request.Model}, nil
	})

	promRegistry := prometheus.NewRegistry()
	m := metrics.New(promRegistry)

	dispatcher := dispatch.New(map[models.Provider]llm.LLMClient{models.ProviderOpenAI: stub}, reg.Entries(), &logger, m)
	j, err := judge.New(reg, dispatcher, "Q: {{.Query}}\n", models.DefaultOptions(), &logger)
	if err != nil {
		t.Fatalf("judge.New() failed: %v", err)
	}
	exec := executor.NewExecutor(reg, dispatcher, j, models.DefaultOptions(), 2, m, &logger)

	handler := api.NewHandler(exec, reg, []string{"Explain Mars.", "Explain Web3."}, &logger)

	container := restful.NewContainer()
	container.Filter(middleware.RecoverPanic)
	api.RegisterRoutes(container, handler)
	api.RegisterOpenAPI(container)
	api.RegisterMetrics(container, promRegistry)

	return testAPI{container: container, calls: &calls}
}

func (a testAPI) do(t *testing.T, method string, path string, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	a.container.ServeHTTP(recorder, req)
	return recorder
}

func decode[T any](t *testing.T, recorder *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(recorder.Body.Bytes(), &v); err != nil {
		t.Fatalf("Failed to parse response %q: %v", recorder.Body.String(), err)
	}
	return v
}

func TestAPI_Health(t *testing.T) {
	a := setupTestAPI(t)

	recorder := a.do(t, http.MethodGet, "/api/v1/health", "")
	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", recorder.Code)
	}

	response := decode[api.HealthResponse](t, recorder)
	if response.Status != "ok" {
		t.Errorf("Expected status 'ok', got '%s'", response.Status)
	}
}

func TestAPI_ModelsAndQueries(t *testing.T) {
	a := setupTestAPI(t)

	entries := decode[[]models.ModelEntry](t, a.do(t, http.MethodGet, "/api/v1/models", ""))
	var labels []string
	for _, e := range entries {
		labels = append(labels, e.Label)
	}
	if diff := cmp.Diff([]string{"Alpha", "Beta", "Broken"}, labels); diff != "" {
		t.Errorf("models mismatch (-want +got):\n%s", diff)
	}

	queries := decode[api.QueriesResponse](t, a.do(t, http.MethodGet, "/api/v1/queries", ""))
	if diff := cmp.Diff([]string{"Explain Mars.", "Explain Web3."}, queries.Queries); diff != "" {
		t.Errorf("queries mismatch (-want +got):\n%s", diff)
	}
}

func TestAPI_Broadcast(t *testing.T) {
	a := setupTestAPI(t)

	recorder := a.do(t, http.MethodPost, "/api/v1/broadcast", `{"query":"Explain Mars."}`)
	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d. Body: %s", recorder.Code, recorder.Body.String())
	}

	var response struct {
		Query     string                 `json:"query"`
		Responses []models.ModelResponse `json:"responses"`
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}

	want := []models.ModelResponse{
		{Model: "alpha-1", Response: "answer from alpha-1"},
		{Model: "beta-1", Response: "answer from beta-1"},
		{Model: "broken-1", Response: "Error querying model: connection refused", Failed: true},
	}
	if diff := cmp.Diff(want, response.Responses); diff != "" {
		t.Errorf("responses mismatch (-want +got):\n%s", diff)
	}
}

func TestAPI_BadRequests(t *testing.T) {
	tests := []struct {
		name string
		path string
		body string
	}{
		{"broadcast empty query", "/api/v1/broadcast", `{"query":"  "}`},
		{"broadcast malformed", "/api/v1/broadcast", `{"query":`},
		{"judge empty judge", "/api/v1/judge", `{"judge":"","query":"q"}`},
		{"report empty judge", "/api/v1/report", `{"query":"q"}`},
		{"report empty query", "/api/v1/report", `{"judge":"Alpha","query":""}`},
		{"report empty body", "/api/v1/report", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := setupTestAPI(t)

			recorder := a.do(t, http.MethodPost, tt.path, tt.body)
			if recorder.Code != http.StatusBadRequest {
				t.Fatalf("Expected status 400, got %d. Body: %s", recorder.Code, recorder.Body.String())
			}
			errResp := decode[middleware.ErrorResponse](t, recorder)
			if errResp.Error != "Bad Request" || errResp.Message == "" {
				t.Errorf("unexpected error body: %+v", errResp)
			}
			if n := atomic.LoadInt32(a.calls); n != 0 {
				t.Errorf("Expected no model calls, got %d", n)
			}
		})
	}
}

func TestAPI_Judge(t *testing.T) {
	a := setupTestAPI(t)

	body := `{"judge":"Beta","query":"Explain Mars.","responses":[
		{"model":"alpha-1","response":"red"},
		{"model":"beta-1","response":"dusty"}
	]}`
	recorder := a.do(t, http.MethodPost, "/api/v1/judge", body)
	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d. Body: %s", recorder.Code, recorder.Body.String())
	}

	response := decode[api.JudgeResponse](t, recorder)
	if response.Judge != "Beta" || response.Judgement != "answer from beta-1" {
		t.Errorf("unexpected judge response: %+v", response)
	}
	if n := atomic.LoadInt32(a.calls); n != 1 {
		t.Errorf("Expected exactly one model call, got %d", n)
	}
}

func TestAPI_UnknownJudgeIsNotFound(t *testing.T) {
	tests := []struct {
		name string
		path string
		body string
	}{
		{"judge", "/api/v1/judge", `{"judge":"Gamma","query":"q","responses":[]}`},
		{"report", "/api/v1/report", `{"judge":"Gamma","query":"q"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := setupTestAPI(t)

			recorder := a.do(t, http.MethodPost, tt.path, tt.body)
			if recorder.Code != http.StatusNotFound {
				t.Fatalf("Expected status 404, got %d. Body: %s", recorder.Code, recorder.Body.String())
			}
			errResp := decode[middleware.ErrorResponse](t, recorder)
			if !strings.Contains(errResp.Message, "Gamma") {
				t.Errorf("Expected message to name the label, got %q", errResp.Message)
			}
			if n := atomic.LoadInt32(a.calls); n != 0 {
				t.Errorf("Expected no model calls for unknown judge, got %d", n)
			}
		})
	}
}

func TestAPI_Report(t *testing.T) {
	a := setupTestAPI(t)

	recorder := a.do(t, http.MethodPost, "/api/v1/report", `{"request_id":"req-7","judge":"Alpha","query":"Explain Mars."}`)
	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d. Body: %s", recorder.Code, recorder.Body.String())
	}

	report := decode[models.Report](t, recorder)
	if report.ID != "req-7" {
		t.Errorf("Expected id req-7, got %s", report.ID)
	}

	want := "Query: Explain Mars.\n\nResponses:\n" +
		"\n### alpha-1:\nanswer from alpha-1\n" +
		"\n### beta-1:\nanswer from beta-1\n" +
		"\n### broken-1:\nError querying model: connection refused\n" +
		"\n\nJudgement by Alpha: \nanswer from alpha-1"
	if report.Text != want {
		t.Errorf("report text mismatch:\n got %q\nwant %q", report.Text, want)
	}
	if report.Responses == nil || report.Responses.Len() != 3 {
		t.Errorf("Expected 3 responses in report")
	}
}

func TestAPI_OpenAPIAndMetrics(t *testing.T) {
	a := setupTestAPI(t)
	a.do(t, http.MethodPost, "/api/v1/report", `{"judge":"Alpha","query":"q"}`)

	doc := a.do(t, http.MethodGet, api.OpenAPIPath, "")
	if doc.Code != http.StatusOK {
		t.Fatalf("Expected openapi status 200, got %d", doc.Code)
	}
	for _, path := range []string{"/api/v1/report", "/api/v1/broadcast", "/api/v1/judge", "Judge Arena API"} {
		if !strings.Contains(doc.Body.String(), path) {
			t.Errorf("Expected openapi document to mention %s", path)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	recorder := httptest.NewRecorder()
	a.container.ServeHTTP(recorder, req)
	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected metrics status 200, got %d", recorder.Code)
	}
	for _, name := range []string{"arena_dispatch_total", "arena_reports_total", "arena_dispatch_duration_seconds"} {
		if !strings.Contains(recorder.Body.String(), name) {
			t.Errorf("Expected metrics output to contain %s", name)
		}
	}
}
