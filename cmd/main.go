package main

import (
  "context"
  "fmt"
  "os"
  "time"
  "github.com/framecut/framecut-backend/internal/logger"
  "github.com/framecut/framecut-backend/internal/utils"
  "github.com/framecut/framecut-backend/internal/db"
  "github.com/framecut/framecut-backend/internal/observability"
  "github.com/framecut/framecut-backend/internal/recommend"
  "github.com/framecut/framecut-backend/internal/repos"
  "github.com/framecut/framecut-backend/internal/services"
  "github.com/framecut/framecut-backend/internal/handlers"
  "github.com/framecut/framecut-backend/internal/middleware"
  "github.com/framecut/framecut-backend/internal/server"
)

func main() {
  // Logger
  logMode := os.Getenv("LOG_MODE")
  if logMode == "" {
    logMode = "development"
  }
  log, err := logger.New(logMode)
  if err != nil {
    fmt.Printf("Failed to init logger: %v\n", err)
    os.Exit(1)
  }
  defer log.Sync()

  // Tracing
  shutdownOTel := observability.InitOTel(context.Background(), log, observability.OtelConfig{
    ServiceName: "framecut-backend",
    Environment: os.Getenv("APP_ENV"),
    Version:     os.Getenv("APP_VERSION"),
  })
  if shutdownOTel != nil {
    defer func() {
      ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
      defer cancel()
      _ = shutdownOTel(ctx)
    }()
  }

  // Env
  log.Info("Loading environment variables from main...")
  jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
  accessTokenTTL := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)

  // Postgres
  postgresService, err := db.NewPostgresService(log)
  if err != nil {
    log.Error("Postgres init failed", "error", err)
    os.Exit(1)
  }
  if err = postgresService.AutoMigrateAll(); err != nil {
    log.Warn("Postgres auto migration failed", "error", err)
  }
  thePG := postgresService.DB()

  // Repos
  log.Info("Setting up Repos from main...")
  userRepo := repos.NewUserRepo(thePG, log)
  workspaceRepo := repos.NewWorkspaceRepo(thePG, log)
  mediaRepo := repos.NewMediaRepo(thePG, log)
  mediaClipRepo := repos.NewMediaClipRepo(thePG, log)
  timelineRepo := repos.NewTimelineRepo(thePG, log)
  timelineClipRepo := repos.NewTimelineClipRepo(thePG, log)
  labelRepo := repos.NewLabelRepo(thePG, log)
  recRepo := repos.NewRecommendationRepo(thePG, log)

  // Services
  log.Info("Setting up Services from main...")
  bucketService, err := services.NewBucketService(log)
  if err != nil {
    log.Error("Could not init BucketService", "error", err)
    os.Exit(1)
  }
  videoProvider, err := services.NewVideoIntelligenceProviderService(log)
  if err != nil {
    log.Error("Could not init VideoIntelligenceProviderService", "error", err)
    os.Exit(1)
  }
  defer videoProvider.Close()
  recCache := services.NewRecommendationCache(log)
  engine := recommend.NewEngine(log)

  authService := services.NewAuthService(thePG, log, userRepo, workspaceRepo, jwtSecretKey, time.Duration(accessTokenTTL)*time.Second)
  mediaService := services.NewMediaService(thePG, log, mediaRepo, mediaClipRepo, labelRepo, bucketService)
  timelineService := services.NewTimelineService(thePG, log, timelineRepo, timelineClipRepo, mediaRepo)
  ingestService := services.NewLabelIngestService(thePG, log, mediaRepo, labelRepo, bucketService, videoProvider)
  recommendationService := services.NewRecommendationService(
    thePG,
    log,
    engine,
    mediaRepo,
    mediaClipRepo,
    timelineRepo,
    timelineClipRepo,
    labelRepo,
    recRepo,
    recCache,
  )

  // Handlers
  log.Info("Setting up handlers from main...")
  authHandler := handlers.NewAuthHandler(authService)
  workspaceHandler := handlers.NewWorkspaceHandler(workspaceRepo)
  mediaHandler := handlers.NewMediaHandler(mediaService, ingestService, workspaceRepo)
  timelineHandler := handlers.NewTimelineHandler(timelineService, workspaceRepo)
  recommendationHandler := handlers.NewRecommendationHandler(recommendationService, workspaceRepo)

  // Middleware
  log.Info("Setting up middleware from main...")
  authMiddleware := middleware.NewAuthMiddleware(log, authService)

  // Router
  log.Info("Setting up router from main...")
  router := server.NewRouter(server.RouterConfig{
    AuthHandler:           authHandler,
    AuthMiddleware:        authMiddleware,
    WorkspaceHandler:      workspaceHandler,
    MediaHandler:          mediaHandler,
    TimelineHandler:       timelineHandler,
    RecommendationHandler: recommendationHandler,
  })

  port := utils.GetEnv("PORT", "8080", log)
  fmt.Printf("Server listening on :%s\n", port)
  if err := router.Run(":" + port); err != nil {
    log.Warn("Server failed", "error", err)
  }
}
