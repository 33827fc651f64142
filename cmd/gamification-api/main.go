package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/studyquest/gamification-api/api/swagger"
	"github.com/studyquest/gamification-api/internal/handler"
	"github.com/studyquest/gamification-api/internal/middleware"
	"github.com/studyquest/gamification-api/internal/repository"
	"github.com/studyquest/gamification-api/internal/service"
	"github.com/studyquest/gamification-api/pkg/cache"
	"github.com/studyquest/gamification-api/pkg/config"
	"github.com/studyquest/gamification-api/pkg/database"
	"github.com/studyquest/gamification-api/pkg/logger"
	corsmiddleware "github.com/studyquest/gamification-api/pkg/middleware/cors"
	reqidmiddleware "github.com/studyquest/gamification-api/pkg/middleware/requestid"
)

// @title StudyQuest Gamification API
// @version 0.1.0
// @description Weekly achievement selection, progress tracking and point wagering
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, selection caching disabled", "error", err)
		redisClient = nil
	}

	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck

	selectionRepo := repository.NewSelectionRepository(db)
	usageRepo := repository.NewUsageRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	gradeRepo := repository.NewGradeRepository(db)
	metricsRepo := repository.NewMetricsRepository(db, logr)

	catalogSvc, err := service.NewCatalogService(service.DefaultCatalog(), logr)
	if err != nil {
		logr.Sugar().Fatalw("failed to build achievement catalog", "error", err)
	}

	metricsSvc := service.NewMetricsService()
	tokenSvc := service.NewTokenService(cfg.JWT)

	selectionSvc := service.NewSelectionService(
		selectionRepo,
		usageRepo,
		catalogSvc,
		cacheRepo,
		cfg.Gamification.SelectionCacheTTL,
		nil,
		metricsSvc,
		logr,
	)
	progressSvc := service.NewProgressService(metricsRepo, selectionSvc, logr)
	pointsSvc := service.NewPointsService(
		profileRepo,
		gradeRepo,
		metricsRepo,
		selectionSvc,
		progressSvc,
		validator.New(),
		cfg.Gamification,
		metricsSvc,
		logr,
	)

	catalogHandler := handler.NewCatalogHandler(catalogSvc)
	selectionHandler := handler.NewSelectionHandler(selectionSvc, progressSvc)
	pointsHandler := handler.NewPointsHandler(pointsSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))
	r.Use(middleware.WithResponseMeta())

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.JWT(tokenSvc))
	{
		gamification := api.Group("/gamification")
		gamification.GET("/achievements", catalogHandler.List)
		gamification.GET("/selection", selectionHandler.Get)
		gamification.POST("/selection/refresh", selectionHandler.Refresh)
		gamification.GET("/selection/availability", selectionHandler.Availability)
		gamification.GET("/selection/usage", selectionHandler.Usage)
		gamification.GET("/progress", selectionHandler.Progress)
		gamification.GET("/points", pointsHandler.Available)
		gamification.GET("/points/grades", pointsHandler.GradesXP)
		gamification.POST("/points/wager", pointsHandler.Wager)
		gamification.POST("/points/award", pointsHandler.Award)
		gamification.GET("/streaks", pointsHandler.Streaks)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
