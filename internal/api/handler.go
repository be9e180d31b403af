package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/emicklei/go-restful/v3"
	"github.com/povarna/generative-ai-agents/judge-arena/internal/api/middleware"
	"github.com/povarna/generative-ai-agents/judge-arena/internal/executor"
	"github.com/povarna/generative-ai-agents/judge-arena/internal/models"
	"github.com/povarna/generative-ai-agents/judge-arena/internal/registry"
	"github.com/rs/zerolog"
)

const Version = "1.0.0"

type Handler struct {
	executor *executor.Executor
	registry *registry.Registry
	queries  []string
	logger   *zerolog.Logger
}

func NewHandler(executor *executor.Executor, registry *registry.Registry, queries []string, logger *zerolog.Logger) *Handler {
	return &Handler{
		executor: executor,
		registry: registry,
		queries:  queries,
		logger:   logger,
	}
}

// Health handler GET API /api/v1/health
func (h *Handler) Health(req *restful.Request, resp *restful.Response) {
	_ = resp.WriteHeaderAndEntity(http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: Version,
	})
}

// GET /api/v1/models
func (h *Handler) Models(req *restful.Request, resp *restful.Response) {
	_ = resp.WriteHeaderAndEntity(http.StatusOK, h.registry.Entries())
}

// GET /api/v1/queries
func (h *Handler) Queries(req *restful.Request, resp *restful.Response) {
	queries := h.queries
	if queries == nil {
		queries = []string{}
	}
	_ = resp.WriteHeaderAndEntity(http.StatusOK, QueriesResponse{Queries: queries})
}

// POST /api/v1/broadcast
// Body: BroadcastRequest
// Returns: BroadcastResponse
func (h *Handler) Broadcast(req *restful.Request, resp *restful.Response) {
	var request BroadcastRequest
	if err := req.ReadEntity(&request); err != nil {
		h.logger.Error().Err(err).Msg("Failed to parse request body")
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(request.Query) == "" {
		middleware.HandleError(resp, middleware.ErrEmptyQuery, http.StatusBadRequest)
		return
	}

	responses := h.executor.Broadcast(req.Request.Context(), request.Query)

	_ = resp.WriteHeaderAndEntity(http.StatusOK, BroadcastResponse{
		Query:     request.Query,
		Responses: responses,
	})
}

// POST /api/v1/judge
// Body: JudgeRequest
// Returns: JudgeResponse
func (h *Handler) Judge(req *restful.Request, resp *restful.Response) {
	var request JudgeRequest
	if err := req.ReadEntity(&request); err != nil {
		h.logger.Error().Err(err).Msg("Failed to parse request body")
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}
	if request.Judge == "" {
		middleware.HandleError(resp, middleware.ErrEmptyJudge, http.StatusBadRequest)
		return
	}

	responses := models.FromModelResponses(request.Responses)
	judgement, err := h.executor.Judge(req.Request.Context(), request.Judge, request.Query, responses)
	if err != nil {
		h.writeJudgeError(resp, request.Judge, err)
		return
	}

	_ = resp.WriteHeaderAndEntity(http.StatusOK, JudgeResponse{
		Judge:     request.Judge,
		Judgement: judgement,
	})
}

// POST /api/v1/report
// Body: ReportRequest
// Returns: models.Report
func (h *Handler) Report(req *restful.Request, resp *restful.Response) {
	var request ReportRequest
	if err := req.ReadEntity(&request); err != nil {
		h.logger.Error().Err(err).Msg("Failed to parse request body")
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}
	if request.Judge == "" {
		middleware.HandleError(resp, middleware.ErrEmptyJudge, http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(request.Query) == "" {
		middleware.HandleError(resp, middleware.ErrEmptyQuery, http.StatusBadRequest)
		return
	}

	h.logger.Info().
		Str("request_id", request.RequestID).
		Str("judge", request.Judge).
		Msg("Start report")

	report, err := h.executor.Report(req.Request.Context(), models.ReportRequest{
		RequestID: request.RequestID,
		Judge:     request.Judge,
		Query:     request.Query,
	})
	if err != nil {
		h.writeJudgeError(resp, request.Judge, err)
		return
	}

	h.logger.Info().
		Str("request_id", report.ID).
		Strs("failed_models", report.FailedModels()).
		Dur("duration", report.Duration).
		Msg("Report complete")

	_ = resp.WriteHeaderAndEntity(http.StatusOK, report)
}

func (h *Handler) writeJudgeError(resp *restful.Response, judge string, err error) {
	if errors.Is(err, registry.ErrUnknownLabel) {
		h.logger.Warn().Str("judge", judge).Msg("Judge not found")
		middleware.HandleError(resp, err, http.StatusNotFound)
		return
	}
	h.logger.Error().Err(err).Str("judge", judge).Msg("Judge failed")
	middleware.HandleError(resp, err, http.StatusInternalServerError)
}
