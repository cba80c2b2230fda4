package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"padron/internal/handler"
	"padron/internal/middleware"
)

// Handlers groups the HTTP handlers mounted by Setup.
type Handlers struct {
	Import     *handler.ImportHandler
	ObraSocial *handler.ObraSocialHandler
	Health     *handler.HealthHandler
	Metrics    http.Handler
}

// Setup configures the Gin engine with all routes and middleware.
func Setup(h Handlers, allowedOrigins []string, log zerolog.Logger) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(allowedOrigins))

	// Health checks and metrics
	r.GET("/healthz", h.Health.Liveness)
	r.GET("/readyz", h.Health.Readiness)
	if h.Metrics != nil {
		r.GET("/metrics", gin.WrapH(h.Metrics))
	}

	v1 := r.Group("/api/v1")

	imports := v1.Group("/imports")
	imports.POST("", h.Import.Upload)
	imports.GET("/history", h.Import.History)
	imports.GET("/:id", h.Import.Get)
	imports.DELETE("/:id", h.Import.Discard)
	imports.PUT("/:id/mapping", h.Import.UpdateMapping)
	imports.GET("/:id/suggestions", h.Import.Suggestions)
	imports.POST("/:id/convert", h.Import.Convert)
	imports.POST("/:id/commit", h.Import.Commit)
	imports.GET("/:id/progress", h.Import.Progress)
	imports.GET("/:id/export", h.Import.Export)
	imports.GET("/:id/source", h.Import.Source)

	v1.GET("/obras-sociales", h.ObraSocial.List)

	return r
}
