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

	_ "github.com/govtalent/pool-admin-api/api/swagger"
	"github.com/govtalent/pool-admin-api/internal/handler"
	"github.com/govtalent/pool-admin-api/internal/middleware"
	"github.com/govtalent/pool-admin-api/internal/models"
	"github.com/govtalent/pool-admin-api/internal/repository"
	"github.com/govtalent/pool-admin-api/internal/service"
	"github.com/govtalent/pool-admin-api/pkg/cache"
	"github.com/govtalent/pool-admin-api/pkg/config"
	"github.com/govtalent/pool-admin-api/pkg/database"
	"github.com/govtalent/pool-admin-api/pkg/logger"
	corsmiddleware "github.com/govtalent/pool-admin-api/pkg/middleware/cors"
	reqidmiddleware "github.com/govtalent/pool-admin-api/pkg/middleware/requestid"
	"github.com/govtalent/pool-admin-api/pkg/storage"
)

// @title Pool Admin API
// @version 0.1.0
// @description Admin backend for government recruitment pools
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to database", "error", err)
	}
	defer db.Close()

	validate := validator.New()
	metrics := service.NewMetricsService()

	var cacheSvc *service.CacheService
	if cfg.Cache.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Fatalw("failed to connect to redis", "error", err)
		}
		cacheRepo := repository.NewCacheRepository(redisClient, logr)
		defer cacheRepo.Close() //nolint:errcheck
		cacheSvc = service.NewCacheService(cacheRepo, metrics, cfg.Cache.DefaultTTL, logr, true)
	}

	poolRepo := repository.NewPoolRepository(db)
	userRepo := repository.NewUserRepository(db)
	taxonomyRepo := repository.NewTaxonomyRepository(db)
	candidateRepo := repository.NewCandidateRepository(db)
	changeLogRepo := repository.NewChangeLogRepository(db)

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		TokenSecret: cfg.JWT.Secret,
		TokenExpiry: cfg.JWT.Expiration,
		Issuer:      cfg.JWT.Issuer,
	})
	editorSvc := service.NewPoolEditorService(poolRepo, logr,
		service.WithEditorSessionTTL(cfg.Editor.SessionTTL),
		service.WithEditorMetrics(metrics),
	)
	editorSvc.StartSweeper(ctx, cfg.Editor.SweepInterval)

	poolSvc := service.NewPoolService(poolRepo, validate, logr,
		service.WithSessionInvalidator(editorSvc.InvalidatePool),
		service.WithChangeLogStore(changeLogRepo),
	)
	taxonomySvc := service.NewTaxonomyService(taxonomyRepo, cacheSvc, logr)
	candidateSvc := service.NewCandidateService(candidateRepo, logr)

	var exportSvc *service.ExportService
	if cfg.Exports.Enabled {
		store, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
		if err != nil {
			logr.Sugar().Fatalw("failed to init export storage", "error", err)
		}
		signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)
		exportRepo := repository.NewExportJobRepository(db)
		exportSvc = service.NewExportService(exportRepo, candidateRepo, poolRepo, store, signer, service.ExportConfig{
			APIPrefix:  cfg.APIPrefix,
			Workers:    cfg.Exports.WorkerConcurrency,
			MaxRetries: cfg.Exports.WorkerRetries,
		}, logr, metrics)
		exportSvc.Start(ctx)
		exportSvc.StartCleanup(ctx, cfg.Exports.CleanupInterval)
		defer exportSvc.Stop()
	}

	authHandler := handler.NewAuthHandler(authSvc)
	poolHandler := handler.NewPoolHandler(poolSvc)
	editorHandler := handler.NewPoolEditorHandler(editorSvc)
	candidateHandler := handler.NewCandidateHandler(candidateSvc)
	taxonomyHandler := handler.NewTaxonomyHandler(taxonomySvc)
	exportHandler := handler.NewExportHandler(exportSvc)
	metricsHandler := handler.NewMetricsHandler(metrics)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.POST("/auth/login", authHandler.Login)
	if cfg.Exports.Enabled {
		// Download auth is carried by the signed token itself.
		api.GET("/exports/download/:token", exportHandler.Download)
	}

	protected := api.Group("")
	protected.Use(middleware.JWT(authSvc))
	protected.GET("/auth/me", authHandler.Me)

	operators := middleware.RequireRoles(models.RoleAdmin, models.RolePoolOperator)
	admins := middleware.RequireRoles(models.RoleAdmin)

	pools := protected.Group("/pools")
	{
		pools.GET("", poolHandler.List)
		pools.POST("", operators, poolHandler.Create)
		pools.GET("/:id", poolHandler.Get)
		pools.DELETE("/:id", operators, poolHandler.Delete)
		pools.POST("/:id/publish", operators, poolHandler.Publish)
		pools.POST("/:id/close", operators, poolHandler.Close)
		pools.POST("/:id/extend", operators, poolHandler.Extend)
		pools.POST("/:id/archive", operators, poolHandler.Archive)
		pools.POST("/:id/unarchive", operators, poolHandler.Unarchive)
		pools.POST("/:id/duplicate", operators, poolHandler.Duplicate)
		pools.GET("/:id/change-logs", poolHandler.ChangeLogs)

		pools.GET("/:id/edit", operators, editorHandler.EditView)
		pools.POST("/:id/edit/sections/:section/open", operators, editorHandler.OpenSection)
		pools.POST("/:id/edit/sections/:section/cancel", operators, editorHandler.CancelSection)
		pools.PUT("/:id/edit/sections/:section", operators, editorHandler.SaveSection)

		pools.GET("/:id/candidates", candidateHandler.List)
		if cfg.Exports.Enabled {
			pools.POST("/:id/exports", operators, exportHandler.Enqueue)
			pools.GET("/:id/exports", exportHandler.ListByPool)
		}
	}

	candidates := protected.Group("/candidates")
	{
		candidates.GET("/:id", candidateHandler.Get)
		candidates.PUT("/:id", operators, candidateHandler.Update)
	}

	if cfg.Exports.Enabled {
		protected.GET("/exports/:id", exportHandler.Get)
	}

	taxonomy := protected.Group("/taxonomy")
	{
		taxonomy.GET("/classifications", taxonomyHandler.ListClassifications)
		taxonomy.PUT("/classifications/:id", admins, taxonomyHandler.SaveClassification)
		taxonomy.POST("/classifications", admins, taxonomyHandler.SaveClassification)
		taxonomy.DELETE("/classifications/:id", admins, taxonomyHandler.DeleteClassification)
		taxonomy.GET("/departments", taxonomyHandler.ListDepartments)
		taxonomy.PUT("/departments/:id", admins, taxonomyHandler.SaveDepartment)
		taxonomy.POST("/departments", admins, taxonomyHandler.SaveDepartment)
		taxonomy.DELETE("/departments/:id", admins, taxonomyHandler.DeleteDepartment)
		taxonomy.GET("/skill-families", taxonomyHandler.ListSkillFamilies)
		taxonomy.PUT("/skill-families/:id", admins, taxonomyHandler.SaveSkillFamily)
		taxonomy.POST("/skill-families", admins, taxonomyHandler.SaveSkillFamily)
		taxonomy.DELETE("/skill-families/:id", admins, taxonomyHandler.DeleteSkillFamily)
		taxonomy.GET("/skills", taxonomyHandler.ListSkills)
		taxonomy.PUT("/skills/:id", admins, taxonomyHandler.SaveSkill)
		taxonomy.POST("/skills", admins, taxonomyHandler.SaveSkill)
		taxonomy.DELETE("/skills/:id", admins, taxonomyHandler.DeleteSkill)
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
