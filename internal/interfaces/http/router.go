// Package http wires the gin route tree and the HTTP server lifecycle.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/ChemReg-Ledger/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ChemReg-Ledger/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/ChemReg-Ledger/internal/interfaces/http/handlers"
	"github.com/turtacn/ChemReg-Ledger/internal/interfaces/http/middleware"
)

// RouterConfig aggregates the handlers and middleware dependencies of the
// full route tree. Nil handlers leave their routes unregistered so partial
// deployments (no object storage, no search cluster) still boot.
type RouterConfig struct {
	LookupHandler    *handlers.LookupHandler
	InventoryHandler *handlers.InventoryHandler
	BatchHandler     *handlers.BatchHandler
	ExportHandler    *handlers.ExportHandler
	HealthHandler    *handlers.HealthHandler

	CORS *middleware.CORSConfig

	Logger           logging.Logger
	Metrics          *prometheus.AppMetrics
	MetricsCollector prometheus.MetricsCollector
}

// NewRouter builds the complete route tree.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Logger == nil {
		cfg.Logger = logging.NewNopLogger()
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.RequestLogging(cfg.Logger, cfg.Metrics))

	cors := middleware.DefaultCORSConfig()
	if cfg.CORS != nil {
		cors = *cfg.CORS
	}
	r.Use(middleware.CORS(cors))

	if cfg.HealthHandler != nil {
		r.GET("/healthz", cfg.HealthHandler.Liveness)
		r.GET("/readyz", cfg.HealthHandler.Readiness)
	}
	if cfg.MetricsCollector != nil {
		r.GET("/metrics", gin.WrapH(cfg.MetricsCollector.Handler()))
	}

	api := r.Group("/api/v1")

	if cfg.LookupHandler != nil {
		api.POST("/lookups/:cas", cfg.LookupHandler.Lookup)
	}

	if cfg.InventoryHandler != nil {
		api.POST("/inventory", cfg.InventoryHandler.Add)
		api.GET("/inventory", cfg.InventoryHandler.List)
		api.GET("/inventory/summary", cfg.InventoryHandler.Summary)
		api.GET("/inventory/search", cfg.InventoryHandler.Search)
		api.GET("/inventory/:cas", cfg.InventoryHandler.Get)
		api.DELETE("/inventory/:cas", cfg.InventoryHandler.Delete)
		api.POST("/inventory/:cas/emission", cfg.InventoryHandler.CalculateEmission)
	}

	if cfg.BatchHandler != nil {
		api.POST("/inventory/batch", cfg.BatchHandler.Submit)
		api.GET("/inventory/batch/:jobID", cfg.BatchHandler.Progress)
	}

	if cfg.ExportHandler != nil {
		api.POST("/exports/ledger", cfg.ExportHandler.Export)
		api.GET("/exports/ledger", cfg.ExportHandler.Download)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, handlers.ErrorResponse{
			Code:    "COMMON_003",
			Message: "route not found",
		})
	})

	return r
}
