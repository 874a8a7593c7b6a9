package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/netsentry/netsentry/internal/api/handlers"
	"github.com/netsentry/netsentry/internal/api/middleware"
	"github.com/netsentry/netsentry/internal/permission"
	"github.com/netsentry/netsentry/internal/pipeline"
	"github.com/netsentry/netsentry/internal/settings"
)

// Register wires the local API the dashboard UI consumes.
func Register(router *gin.Engine, db *gorm.DB, pipe *pipeline.Pipeline, store *settings.Store, gate *permission.Gate) {
	router.Use(middleware.RequestID(), middleware.RequestLogger())

	dashboard := handlers.NewDashboardHandler(pipe)
	settingsHandler := handlers.NewSettingsHandler(store, gate)
	providers := handlers.NewProviderHandler(db)

	api := router.Group("/api")
	{
		api.GET("/alerts", dashboard.GetAlerts)
		api.GET("/stats", dashboard.GetStats)
		api.GET("/threats", dashboard.GetThreats)
		api.POST("/block-ip", dashboard.BlockIP)
		api.GET("/health", dashboard.Health)

		api.GET("/settings", settingsHandler.GetSettings)
		api.PUT("/settings", settingsHandler.UpdateSettings)
		api.POST("/settings/request-permission", settingsHandler.RequestPermission)

		api.GET("/notification-providers", providers.List)
		api.POST("/notification-providers", providers.Create)
		api.PUT("/notification-providers/:id", providers.Update)
		api.DELETE("/notification-providers/:id", providers.Delete)
	}

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
