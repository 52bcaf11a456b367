package server

import (
  "github.com/gin-gonic/gin"
  "github.com/gin-contrib/cors"
  "go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
  "github.com/framecut/framecut-backend/internal/handlers"
  "github.com/framecut/framecut-backend/internal/middleware"
)

type RouterConfig struct {
  AuthHandler           *handlers.AuthHandler
  AuthMiddleware        *middleware.AuthMiddleware
  WorkspaceHandler      *handlers.WorkspaceHandler
  MediaHandler          *handlers.MediaHandler
  TimelineHandler       *handlers.TimelineHandler
  RecommendationHandler *handlers.RecommendationHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
  router := gin.Default()
  router.Use(otelgin.Middleware("framecut-backend"))

  // Cors
  router.Use(cors.New(cors.Config{
    AllowOrigins: []string{
      "http://localhost:80",
      "http://localhost:3000",
      "http://localhost:5174",
    },
    AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
    AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
    AllowCredentials: true,
  }))

// ===============
// || Public    ||
// ===============
  router.GET("/healthcheck", handlers.HealthCheck)
  api := router.Group("/api")
  {
    api.POST("/auth/register", cfg.AuthHandler.Register)
    api.POST("/auth/login", cfg.AuthHandler.Login)
  }

// ===============
// || Protected ||
// ===============
  protected := api.Group("/")
  protected.Use(cfg.AuthMiddleware.RequireAuth())
  // Workspaces
  protected.GET("/workspaces", cfg.WorkspaceHandler.List)
  protected.POST("/workspaces", cfg.WorkspaceHandler.Create)
  // Media
  protected.POST("/workspaces/:workspaceID/media", cfg.MediaHandler.Upload)
  protected.GET("/workspaces/:workspaceID/media", cfg.MediaHandler.List)
  protected.GET("/workspaces/:workspaceID/media/:mediaID", cfg.MediaHandler.Get)
  protected.DELETE("/workspaces/:workspaceID/media/:mediaID", cfg.MediaHandler.Delete)
  protected.POST("/workspaces/:workspaceID/media/:mediaID/label", cfg.MediaHandler.Label)
  protected.GET("/workspaces/:workspaceID/media/:mediaID/clips", cfg.MediaHandler.ListClips)
  protected.POST("/workspaces/:workspaceID/media/:mediaID/clips", cfg.MediaHandler.CreateClip)
  protected.GET("/workspaces/:workspaceID/media/:mediaID/playback", cfg.MediaHandler.Playback)
  // Timelines
  protected.POST("/workspaces/:workspaceID/timelines", cfg.TimelineHandler.Create)
  protected.GET("/workspaces/:workspaceID/timelines", cfg.TimelineHandler.List)
  protected.GET("/workspaces/:workspaceID/timelines/:timelineID", cfg.TimelineHandler.Get)
  protected.GET("/workspaces/:workspaceID/timelines/:timelineID/clips", cfg.TimelineHandler.ListClips)
  protected.POST("/workspaces/:workspaceID/timelines/:timelineID/clips", cfg.TimelineHandler.AppendClip)
  protected.DELETE("/workspaces/:workspaceID/timelines/:timelineID/clips/:clipID", cfg.TimelineHandler.RemoveClip)
  // Recommendations
  protected.POST("/workspaces/:workspaceID/media/:mediaID/recommendations", cfg.RecommendationHandler.GenerateForMedia)
  protected.GET("/workspaces/:workspaceID/media/:mediaID/recommendations", cfg.RecommendationHandler.ListForMedia)
  protected.POST("/workspaces/:workspaceID/timelines/:timelineID/recommendations", cfg.RecommendationHandler.GenerateForTimeline)
  protected.GET("/workspaces/:workspaceID/timelines/:timelineID/recommendations", cfg.RecommendationHandler.ListForTimeline)
  protected.POST("/workspaces/:workspaceID/recommendations/media/:recID/accept", cfg.RecommendationHandler.AcceptMedia)
  protected.POST("/workspaces/:workspaceID/recommendations/media/:recID/dismiss", cfg.RecommendationHandler.DismissMedia)
  protected.POST("/workspaces/:workspaceID/recommendations/timeline/:recID/accept", cfg.RecommendationHandler.AcceptTimeline)
  protected.POST("/workspaces/:workspaceID/recommendations/timeline/:recID/dismiss", cfg.RecommendationHandler.DismissTimeline)

  return router
}
