package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/campus-sched/admin-api/api/swagger"
	"github.com/campus-sched/admin-api/internal/handler"
	"github.com/campus-sched/admin-api/internal/middleware"
	"github.com/campus-sched/admin-api/internal/models"
	"github.com/campus-sched/admin-api/internal/repository"
	"github.com/campus-sched/admin-api/internal/service"
	"github.com/campus-sched/admin-api/pkg/cache"
	"github.com/campus-sched/admin-api/pkg/config"
	"github.com/campus-sched/admin-api/pkg/database"
	"github.com/campus-sched/admin-api/pkg/logger"
	corsmiddleware "github.com/campus-sched/admin-api/pkg/middleware/cors"
	reqidmiddleware "github.com/campus-sched/admin-api/pkg/middleware/requestid"
)

// @title Campus Scheduling Admin API
// @version 1.0.0
// @description Administrative API for rooms, subjects and faculty
// @BasePath /api
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to database", "error", err)
	}
	defer db.Close()

	validate := validator.New()

	var cacheRepo *repository.CacheRepository
	if cfg.Cache.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, instructor cache disabled", "error", err)
		} else {
			defer redisClient.Close()
			cacheRepo = repository.NewCacheRepository(redisClient, logr)
		}
	}

	userRepo := repository.NewUserRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	facultyRepo := repository.NewFacultyRepository(db)

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
	})
	roomSvc := service.NewRoomService(roomRepo, validate, logr)
	subjectSvc := service.NewSubjectService(subjectRepo, validate, logr)

	var facultySvc *service.FacultyService
	if cacheRepo != nil {
		facultySvc = service.NewFacultyService(facultyRepo, cacheRepo, validate, logr, cfg.Cache.TTL)
	} else {
		facultySvc = service.NewFacultyService(facultyRepo, nil, validate, logr, cfg.Cache.TTL)
	}

	metricsSvc := service.NewMetricsService()

	authHandler := handler.NewAuthHandler(authSvc)
	roomHandler := handler.NewRoomHandler(roomSvc)
	subjectHandler := handler.NewSubjectHandler(subjectSvc)
	facultyHandler := handler.NewFacultyHandler(facultySvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.GET("/me", middleware.JWT(authSvc), authHandler.Me)

	admin := api.Group("/admin", middleware.JWT(authSvc), middleware.RequireRoles(models.RoleAdmin))
	admin.GET("/rooms", roomHandler.List)
	admin.POST("/rooms", roomHandler.Create)
	admin.GET("/rooms/export", roomHandler.Export)
	admin.PUT("/rooms/:id", roomHandler.Update)
	admin.DELETE("/rooms/:id", roomHandler.Delete)

	admin.GET("/subjects", subjectHandler.List)
	admin.POST("/subjects", subjectHandler.Create)
	admin.PUT("/subjects/:id", subjectHandler.Update)
	admin.DELETE("/subjects/:id", subjectHandler.Delete)

	admin.GET("/faculty", facultyHandler.List)
	admin.POST("/faculty", facultyHandler.Create)
	admin.PUT("/faculty/:id", facultyHandler.Update)
	admin.DELETE("/faculty/:id", facultyHandler.Delete)

	admin.GET("/instructors", facultyHandler.Instructors)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
