package api

import (
	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	"github.com/emicklei/go-restful/v3"
	"github.com/go-openapi/spec"
	"github.com/povarna/generative-ai-agents/judge-arena/internal/api/middleware"
	"github.com/povarna/generative-ai-agents/judge-arena/internal/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const OpenAPIPath = "/api/v1/openapi.json"

func RegisterRoutes(container *restful.Container, handler *Handler) {
	ws := new(restful.WebService)

	ws.
		Path("/api/v1").
		Consumes(restful.MIME_JSON).
		Produces(restful.MIME_JSON)

	// Health endpoint
	ws.
		Route(ws.GET("health").
			To(handler.Health).
			Doc("Health check").
			Metadata(restfulspec.KeyOpenAPITags, []string{"health"}).
			Writes(HealthResponse{}).
			Returns(200, "OK", HealthResponse{}))

	ws.
		Route(ws.GET("/models").
			To(handler.Models).
			Doc("List registered models in registry order").
			Metadata(restfulspec.KeyOpenAPITags, []string{"arena"}).
			Writes([]models.ModelEntry{}).
			Returns(200, "OK", []models.ModelEntry{}))

	ws.
		Route(ws.GET("/queries").
			To(handler.Queries).
			Doc("List preset queries").
			Metadata(restfulspec.KeyOpenAPITags, []string{"arena"}).
			Writes(QueriesResponse{}).
			Returns(200, "OK", QueriesResponse{}))

	ws.
		Route(ws.POST("/broadcast").
			To(handler.Broadcast).
			Doc("Send a query to every registered model").
			Metadata(restfulspec.KeyOpenAPITags, []string{"arena"}).
			Reads(BroadcastRequest{}).
			Writes(BroadcastResponse{}).
			Returns(200, "OK", BroadcastResponse{}).
			Returns(400, "Bad Request", middleware.ErrorResponse{}))

	ws.
		Route(ws.POST("/judge").
			To(handler.Judge).
			Doc("Ask one model to rate a set of responses").
			Metadata(restfulspec.KeyOpenAPITags, []string{"arena"}).
			Reads(JudgeRequest{}).
			Writes(JudgeResponse{}).
			Returns(200, "OK", JudgeResponse{}).
			Returns(400, "Bad Request", middleware.ErrorResponse{}).
			Returns(404, "Judge Not Found", middleware.ErrorResponse{}))

	ws.
		Route(ws.POST("/report").
			To(handler.Report).
			Doc("Broadcast a query and judge the responses").
			Metadata(restfulspec.KeyOpenAPITags, []string{"arena"}).
			Reads(ReportRequest{}).
			Writes(models.Report{}).
			Returns(200, "OK", models.Report{}).
			Returns(400, "Bad Request", middleware.ErrorResponse{}).
			Returns(404, "Judge Not Found", middleware.ErrorResponse{}).
			Returns(500, "Internal Server Error", middleware.ErrorResponse{}))

	container.Add(ws)
}

// RegisterOpenAPI serves the generated document for every web service already
// added to the container.
func RegisterOpenAPI(container *restful.Container) {
	config := restfulspec.Config{
		WebServices:                   container.RegisteredWebServices(),
		APIPath:                       OpenAPIPath,
		PostBuildSwaggerObjectHandler: enrichSwaggerObject,
	}

	container.Add(restfulspec.NewOpenAPIService(config))
}

func RegisterMetrics(container *restful.Container, gatherer prometheus.Gatherer) {
	container.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
}

func enrichSwaggerObject(swo *spec.Swagger) {
	swo.Info = &spec.Info{
		InfoProps: spec.InfoProps{
			Title:       "Judge Arena API",
			Description: "Broadcast a query to several LLMs and let one of them judge the answers",
			Version:     Version,
		},
	}
	swo.Tags = []spec.Tag{
		{TagProps: spec.TagProps{Name: "health", Description: "Health checks"}},
		{TagProps: spec.TagProps{Name: "arena", Description: "Broadcast, judge and report operations"}},
	}
}
