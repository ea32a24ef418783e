package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/skillswap-app/session-api/api/swagger"
	"github.com/skillswap-app/session-api/internal/handler"
	"github.com/skillswap-app/session-api/internal/middleware"
	"github.com/skillswap-app/session-api/internal/models"
	"github.com/skillswap-app/session-api/internal/repository"
	"github.com/skillswap-app/session-api/internal/service"
	"github.com/skillswap-app/session-api/pkg/cache"
	"github.com/skillswap-app/session-api/pkg/config"
	"github.com/skillswap-app/session-api/pkg/database"
	"github.com/skillswap-app/session-api/pkg/logger"
	corsmiddleware "github.com/skillswap-app/session-api/pkg/middleware/cors"
	reqidmiddleware "github.com/skillswap-app/session-api/pkg/middleware/requestid"
)

// @title SkillSwap Session API
// @version 1.0.0
// @description Peer skill-exchange session engine
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
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, continuing without cache", "error", err)
		redisClient = nil
	}

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	sessionRepo := repository.NewSessionRequestRepository(db)
	availabilityRepo := repository.NewAvailabilityRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	skillRepo := repository.NewSkillRepository(db)
	userRepo := repository.NewUserRepository(db)

	var cacheRepo *repository.CacheRepository
	if redisClient != nil {
		cacheRepo = repository.NewCacheRepository(redisClient, logr)
		defer cacheRepo.Close() //nolint:errcheck
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dispatchQueue := service.NewNotificationDispatchQueue(cfg.Notifications, metricsSvc, logr)
	dispatchQueue.Start(ctx)
	defer dispatchQueue.Stop()

	authSvc := service.NewAuthService(userRepo, validate, logr, cfg.JWT)
	skillSvc := service.NewSkillService(skillRepo, logr)
	availabilitySvc := service.NewAvailabilityService(availabilityRepo, validate, logr, cfg.Availability.DefaultTimezone)
	// A typed nil cache pointer inside the interface would dodge the
	// service's nil checks, so pass an untyped nil when redis is down.
	var notificationSvc *service.NotificationService
	if cacheRepo != nil {
		notificationSvc = service.NewNotificationService(notificationRepo, cacheRepo, dispatchQueue, metricsSvc, cfg.Notifications, logr)
	} else {
		notificationSvc = service.NewNotificationService(notificationRepo, nil, dispatchQueue, metricsSvc, cfg.Notifications, logr)
	}
	sessionSvc := service.NewSessionService(sessionRepo, skillRepo, availabilityRepo, notificationSvc, validate, logr, cfg.Availability.DefaultTimezone)
	reviewSvc := service.NewReviewService(reviewRepo, sessionRepo, validate, logr)

	authHandler := handler.NewAuthHandler(authSvc)
	sessionHandler := handler.NewSessionHandler(sessionSvc)
	availabilityHandler := handler.NewAvailabilityHandler(availabilitySvc)
	reviewHandler := handler.NewReviewHandler(reviewSvc)
	notificationHandler := handler.NewNotificationHandler(notificationSvc)
	skillHandler := handler.NewSkillHandler(skillSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.POST("/auth/login", authHandler.Login)

	authed := api.Group("")
	authed.Use(middleware.JWT(authSvc))
	{
		authed.POST("/sessions", sessionHandler.Create)
		authed.GET("/sessions/mine", sessionHandler.ListMine)
		authed.POST("/sessions/:id/respond", sessionHandler.Respond)
		authed.POST("/sessions/:id/schedule", sessionHandler.Schedule)
		authed.GET("/sessions/:id/availability", sessionHandler.ProviderAvailability)
		authed.GET("/sessions/:id/reviews", reviewHandler.ListForSession)

		authed.GET("/availability", availabilityHandler.ListMine)
		authed.POST("/availability", availabilityHandler.Create)
		authed.DELETE("/availability/:id", availabilityHandler.Delete)

		authed.POST("/reviews", reviewHandler.Create)

		authed.GET("/notifications", notificationHandler.List)
		authed.GET("/notifications/unread-count", notificationHandler.UnreadCount)
		authed.POST("/notifications/:id/read", notificationHandler.MarkRead)
		authed.POST("/notifications/read-all", notificationHandler.MarkAllRead)

		authed.GET("/skills", skillHandler.List)
		authed.GET("/skills/:id", skillHandler.Get)

		admin := authed.Group("/admin")
		admin.Use(middleware.RequireRoles(models.RoleAdmin))
		admin.GET("/sessions", sessionHandler.ListAll)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
