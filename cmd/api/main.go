package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/eduverse-labs/eduverse-api/api/swagger"
	"github.com/eduverse-labs/eduverse-api/internal/handler"
	"github.com/eduverse-labs/eduverse-api/internal/middleware"
	"github.com/eduverse-labs/eduverse-api/internal/repository"
	"github.com/eduverse-labs/eduverse-api/internal/service"
	"github.com/eduverse-labs/eduverse-api/pkg/cache"
	"github.com/eduverse-labs/eduverse-api/pkg/config"
	"github.com/eduverse-labs/eduverse-api/pkg/database"
	"github.com/eduverse-labs/eduverse-api/pkg/logger"
	corsmiddleware "github.com/eduverse-labs/eduverse-api/pkg/middleware/cors"
	reqidmiddleware "github.com/eduverse-labs/eduverse-api/pkg/middleware/requestid"
	"github.com/eduverse-labs/eduverse-api/pkg/storage"
)

// @title EduVerse API
// @version 0.1.0
// @description E-learning marketplace API: accounts, sessions, courses and media uploads
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

	store, err := storage.NewLocalStorage(cfg.Uploads.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init upload storage", "error", err)
	}

	userRepo := repository.NewUserRepository(db)
	courseRepo := repository.NewCourseRepository(db)

	authSvc := service.NewAuthService(userRepo, logr, service.AuthConfig{
		Secret:          cfg.JWT.Secret,
		Expiry:          cfg.JWT.Expiration,
		RefreshInterval: cfg.Session.RefreshInterval,
	})
	courseSvc := service.NewCourseService(courseRepo, nil, cfg.Cache.CourseListTTL, logr)
	if cfg.Cache.Enabled {
		redisCli, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, course cache disabled", "error", err)
		} else {
			defer redisCli.Close() //nolint:errcheck
			courseSvc = service.NewCourseService(courseRepo, redisCli, cfg.Cache.CourseListTTL, logr)
		}
	}
	userSvc := service.NewUserService(userRepo, logr)
	metricsSvc := service.NewMetricsService()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	handlers := handler.Handlers{
		Auth:    handler.NewAuthHandler(authSvc),
		Profile: handler.NewProfileHandler(userSvc),
		Course:  handler.NewCourseHandler(courseSvc),
		Upload:  handler.NewUploadHandler(store, cfg.Uploads.MaxFileSizeBytes),
		Metrics: handler.NewMetricsHandler(metricsSvc),
	}
	handler.RegisterRoutes(r, cfg.APIPrefix, handlers, authSvc)

	r.Static("/media", store.BaseDir())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", handlers.Metrics.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Info("server starting", zap.String("addr", addr), zap.String("env", cfg.Env))
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
