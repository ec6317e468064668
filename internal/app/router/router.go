package router

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"leadconversion/internal/app/handlers"
	"leadconversion/internal/app/middleware"
	"leadconversion/internal/pkg/otel"
	"leadconversion/internal/service/interfaces"
)

const basePath = "/IntegrationServices/LeadConversion"

func SetupRouter(serviceName string, svc interfaces.LeadConversionServiceInterface) *gin.Engine {
	server := gin.Default()
	server.Use(otelgin.Middleware(serviceName))
	server.Use(middleware.AttachRequestID())
	server.Use(middleware.RecordMetrics(otel.GetMeter(serviceName)))

	healthCheckHandler := handlers.NewHealthCheckHandler()
	leadConversionHandler := handlers.NewLeadConversionHandler(svc)

	group := server.Group(basePath)
	group.GET("/HealthCheck", healthCheckHandler.HealthCheck)
	group.POST("/ConvertLead", leadConversionHandler.ConvertLead)
	group.GET("/Conversions/:leadId", leadConversionHandler.ConversionSummary)

	return server
}
