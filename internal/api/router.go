package api

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "transit-analytics/docs"
	"transit-analytics/internal/api/handler"
	"transit-analytics/internal/config"
	"transit-analytics/pkg/utils"
)

// Router builds the gin engine with all analysis routes registered.
func Router(cfg config.Config, logger zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(Logger(logger))

	corsCfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "X-Request-Id"},
		MaxAge:       12 * time.Hour,
	}
	if cfg.CORSAllowed == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = []string{cfg.CORSAllowed}
	}
	r.Use(cors.New(corsCfg))

	h := &handler.Handler{
		Logger:         logger,
		Outputs:        utils.NewOutputManager(cfg.OutputDir),
		DefaultWorkers: cfg.Workers,
	}

	r.GET("/healthz", handler.Healthz)

	v1 := r.Group("/api/v1")
	{
		v1.POST("/analyses", h.CreateAnalysis)
		v1.GET("/analyses", h.ListAnalyses)
		v1.GET("/analyses/:id", h.GetAnalysis)
		v1.GET("/analyses/:id/errors", h.GetAnalysisErrors)
		v1.GET("/analyses/:id/summary", h.GetAnalysisSummary)
		v1.GET("/analyses/:id/reports", h.ListAnalysisReports)
		v1.GET("/analyses/:id/reports/:file", h.DownloadReport)
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}
