package main

import (
	"context"
	"errors"
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

	_ "github.com/classtrack/gradebook-api/api/swagger"
	"github.com/classtrack/gradebook-api/internal/handler"
	"github.com/classtrack/gradebook-api/internal/middleware"
	"github.com/classtrack/gradebook-api/internal/repository"
	"github.com/classtrack/gradebook-api/internal/service"
	"github.com/classtrack/gradebook-api/pkg/cache"
	"github.com/classtrack/gradebook-api/pkg/config"
	"github.com/classtrack/gradebook-api/pkg/database"
	"github.com/classtrack/gradebook-api/pkg/export"
	"github.com/classtrack/gradebook-api/pkg/jobs"
	"github.com/classtrack/gradebook-api/pkg/logger"
	corsmiddleware "github.com/classtrack/gradebook-api/pkg/middleware/cors"
	reqidmiddleware "github.com/classtrack/gradebook-api/pkg/middleware/requestid"
	"github.com/classtrack/gradebook-api/pkg/storage"
)

// @title ClassTrack Gradebook API
// @version 1.0.0
// @description Gradebook calculation engine: weighted grades, scales, curves and class analytics
// @BasePath /
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
		// The engine recomputes on demand; a missing cache only costs speed.
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		redisClient = nil
	}

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Gradebook.CacheTTL, logr, redisClient != nil)

	gradeRepo := repository.NewGradeRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	scaleRepo := repository.NewScaleRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	studentRepo := repository.NewStudentRepository(db)

	summarySvc := service.NewSummaryService(gradeRepo, categoryRepo, scaleRepo, settingsRepo, assignmentRepo, studentRepo, cacheSvc, metricsSvc, logr, cfg.Gradebook)

	warmupQueue := jobs.NewQueue("summary-warmup", func(ctx context.Context, job jobs.Job) error {
		classID, ok := job.Payload.(string)
		if !ok {
			return fmt.Errorf("unexpected warmup payload %T", job.Payload)
		}
		return summarySvc.WarmupClass(ctx, classID)
	}, jobs.QueueConfig{Workers: cfg.Gradebook.WarmupWorkers, Logger: logr})

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	warmupQueue.Start(rootCtx)
	defer warmupQueue.Stop()

	curveSvc := service.NewCurveService(gradeRepo, summarySvc, warmupQueue, validate, logr)
	gradeSvc := service.NewGradeService(gradeRepo, assignmentRepo, summarySvc, validate, logr)
	categorySvc := service.NewCategoryService(categoryRepo, summarySvc, validate, logr)
	scaleSvc := service.NewScaleService(scaleRepo, settingsRepo, summarySvc, validate, logr)
	analyticsSvc := service.NewAnalyticsService(summarySvc, gradeRepo, assignmentRepo, cacheSvc, metricsSvc, logr)

	exportStorage, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init export storage", "error", err)
	}
	signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)
	reportSvc := service.NewReportService(summarySvc, studentRepo, export.NewCSVExporter(), export.NewPDFExporter(), exportStorage, signer, logr)

	summaryHandler := handler.NewSummaryHandler(summarySvc)
	gradeHandler := handler.NewGradeHandler(gradeSvc)
	categoryHandler := handler.NewCategoryHandler(categorySvc)
	scaleHandler := handler.NewScaleHandler(scaleSvc)
	curveHandler := handler.NewCurveHandler(curveSvc, reportSvc)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsSvc)
	reportHandler := handler.NewReportHandler(reportSvc)

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
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		classes := api.Group("/classes/:classId")
		{
			classes.GET("/students/:studentId/summary", summaryHandler.Student)
			classes.GET("/summaries", summaryHandler.Class)

			classes.GET("/grades", gradeHandler.List)
			classes.POST("/grades", gradeHandler.Upsert)
			classes.DELETE("/grades/:gradeId", gradeHandler.Delete)

			classes.GET("/categories", categoryHandler.List)
			classes.POST("/categories", categoryHandler.Create)
			classes.PUT("/categories/:categoryId", categoryHandler.Update)
			classes.DELETE("/categories/:categoryId", categoryHandler.Delete)

			classes.GET("/scale", scaleHandler.Get)
			classes.PUT("/scale", scaleHandler.Replace)
			classes.PUT("/settings", scaleHandler.UpdateSettings)

			classes.POST("/curves", curveHandler.Apply)
			classes.GET("/analytics", analyticsHandler.Class)
			classes.POST("/reports", reportHandler.ClassReport)
		}
		api.GET("/analytics/system", analyticsHandler.System)
		api.GET("/reports/download", reportHandler.Download)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-rootCtx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Warnw("forced shutdown", "error", err)
	}
	if err := cacheRepo.Close(); err != nil {
		logr.Sugar().Warnw("failed to close redis", "error", err)
	}
}
