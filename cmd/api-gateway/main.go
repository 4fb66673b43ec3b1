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
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/certtrack/certtrack-api/api/swagger"
	"github.com/certtrack/certtrack-api/internal/handler"
	"github.com/certtrack/certtrack-api/internal/middleware"
	"github.com/certtrack/certtrack-api/internal/repository"
	"github.com/certtrack/certtrack-api/internal/service"
	"github.com/certtrack/certtrack-api/pkg/cache"
	"github.com/certtrack/certtrack-api/pkg/config"
	"github.com/certtrack/certtrack-api/pkg/database"
	"github.com/certtrack/certtrack-api/pkg/export"
	"github.com/certtrack/certtrack-api/pkg/logger"
	corsmiddleware "github.com/certtrack/certtrack-api/pkg/middleware/cors"
	reqidmiddleware "github.com/certtrack/certtrack-api/pkg/middleware/requestid"
	"github.com/certtrack/certtrack-api/pkg/storage"
)

// @title CertTrack API
// @version 1.0.0
// @description Certification catalog and funding portal
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	metricsSvc := service.NewMetricsService()

	var cacheSvc *service.CacheService
	if cfg.Catalog.CacheEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		} else {
			defer redisClient.Close()
			cacheRepo := repository.NewCacheRepository(redisClient, logr)
			cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Catalog.CacheTTL, logr, true)
		}
	}

	userRepo := repository.NewUserRepository(db)
	certRepo := repository.NewCertificationRepository(db)
	userCertRepo := repository.NewUserCertificationRepository(db)
	externalRepo := repository.NewExternalCertificationRepository(db)
	applicationRepo := repository.NewApplicationRepository(db)
	suggestionRepo := repository.NewSuggestionRepository(db)
	settingRepo := repository.NewSettingRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)
	sheetsRepo := repository.NewSheetsRepository(cfg.Sheets.CellRange, cfg.Sheets.Timeout)

	authSvc := service.NewAuthService(userRepo, nil, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "certtrack-api",
	})

	var states service.UserStateManager
	if cfg.UserState.Driver == "file" {
		fileStore, err := repository.NewFileUserStateRepository(cfg.UserState.Dir)
		if err != nil {
			logr.Sugar().Fatalw("failed to init user state store", "error", err)
		}
		states = service.NewFileUserStateService(fileStore, certRepo, nil, logr)
	} else {
		states = service.NewUserStateService(userCertRepo, userCertRepo, externalRepo, applicationRepo, certRepo, nil, logr)
	}

	catalogSvc := service.NewCatalogService(certRepo, states, cacheSvc, service.CatalogConfig{
		CacheTTL:        cfg.Catalog.CacheTTL,
		DefaultPageSize: cfg.Catalog.DefaultPageSize,
		PageSizes:       cfg.Catalog.PageSizes,
	}, logr)

	importSvc := service.NewImportService(sheetsRepo, certRepo, catalogSvc, userRepo, metricsSvc, logr)
	applicationSvc := service.NewApplicationService(applicationRepo, userRepo, logr)
	suggestionSvc := service.NewSuggestionService(suggestionRepo, certRepo, catalogSvc, userRepo, nil, logr)
	analyticsSvc := service.NewAnalyticsService(analyticsRepo, cacheSvc, metricsSvc, cfg.Analytics.CacheTTL, logr)
	settingsSvc := service.NewSettingsService(settingRepo, nil, logr)

	proofStore, err := storage.NewLocalStorage(cfg.Proofs.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init proof storage", "error", err)
	}
	signer := storage.NewSignedURLSigner(cfg.Proofs.SignedURLSecret, cfg.Proofs.SignedURLTTL)
	proofSvc := service.NewProofService(proofStore, signer, states, service.ProofConfig{
		MaxFileSizeBytes: cfg.Proofs.MaxFileSizeBytes,
		AllowedMIMEs:     cfg.Proofs.AllowedMIMEs,
	}, logr)

	exportSvc := service.NewExportService(catalogSvc, states, export.NewCSVExporter(), export.NewPDFExporter(), logr)

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

	handler.RegisterRoutes(r, cfg.APIPrefix, authSvc, handler.Handlers{
		Auth:      handler.NewAuthHandler(authSvc),
		Catalog:   handler.NewCatalogHandler(catalogSvc),
		UserState: handler.NewUserStateHandler(states),
		Suggest:   handler.NewSuggestionHandler(suggestionSvc),
		Admin:     handler.NewAdminHandler(importSvc, applicationSvc, analyticsSvc, settingsSvc),
		Export:    handler.NewExportHandler(exportSvc),
		Proof:     handler.NewProofHandler(proofSvc),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
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
