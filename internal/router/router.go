package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kubesentry-dev/kubesentry/internal/handlers"
	"github.com/kubesentry-dev/kubesentry/internal/store"
	"github.com/kubesentry-dev/kubesentry/internal/types"
)

func NewRouter(s *store.Store, logger *zap.Logger) *gin.Engine {
	r := gin.Default()

	// Add CORS middleware
	corsConfig := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}

	if types.WildcardOrigins() {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = types.AllowedOrigins
		corsConfig.AllowCredentials = true
	}

	r.Use(cors.New(corsConfig))

	incidentHandler := handlers.NewIncidentHandler(s, logger)
	notificationHandler := handlers.NewNotificationHandler(s, logger)

	api := r.Group("/api/v1")
	{
		api.GET("/health", handlers.HealthCheck)

		incidents := api.Group("/incidents")
		{
			incidents.POST("", incidentHandler.Create)
			incidents.GET("", incidentHandler.List)
			incidents.GET("/:incident_id", incidentHandler.Get)
			incidents.PUT("/:incident_id", incidentHandler.Update)
			incidents.DELETE("/:incident_id", incidentHandler.Delete)
		}

		notifications := api.Group("/notifications")
		{
			notifications.POST("", notificationHandler.Create)
			notifications.GET("", notificationHandler.List)
			notifications.GET("/:notification_id", notificationHandler.Get)
			notifications.DELETE("/:notification_id", notificationHandler.Delete)
		}
	}

	return r
}
