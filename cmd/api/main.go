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

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/sahidx/saroyar-sub004/api/swagger"
	"github.com/sahidx/saroyar-sub004/internal/grading"
	"github.com/sahidx/saroyar-sub004/internal/handler"
	"github.com/sahidx/saroyar-sub004/internal/middleware"
	"github.com/sahidx/saroyar-sub004/internal/repository"
	"github.com/sahidx/saroyar-sub004/internal/service"
	"github.com/sahidx/saroyar-sub004/pkg/cache"
	"github.com/sahidx/saroyar-sub004/pkg/config"
	"github.com/sahidx/saroyar-sub004/pkg/database"
	"github.com/sahidx/saroyar-sub004/pkg/jobs"
	"github.com/sahidx/saroyar-sub004/pkg/logger"
	reqidmiddleware "github.com/sahidx/saroyar-sub004/pkg/middleware/requestid"
)

// @title Coaching Center Results API
// @version 1.0.0
// @description Monthly result aggregation, grading and ranking for coaching-center batches.
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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

	if err := run(ctx, cfg, logr); err != nil {
		logr.Fatal("server stopped with error", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logr *zap.Logger) error {
	tieBreak, err := grading.ParseTieBreakPolicy(cfg.Results.TieBreak)
	if err != nil {
		return err
	}

	db, err := database.Open(cfg.Database)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, db); err != nil {
			return err
		}
		logr.Info("schema applied", zap.String("driver", cfg.Database.Driver))
	}

	redisClient, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, caching disabled", zap.Error(err))
		redisClient = nil
	}
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	validate := validator.New()
	metrics := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Results.CacheTTL, logr, redisClient != nil)

	batchRepo := repository.NewBatchRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	examRepo := repository.NewExamRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	holidayRepo := repository.NewHolidayRepository(db)
	bonusRepo := repository.NewBonusRepository(db)
	resultRepo := repository.NewMonthlyResultRepository(db)
	userRepo := repository.NewUserRepository(db)

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	})
	calendarSvc := service.NewCalendarService(holidayRepo, cfg.Calendar.WeekendDays, validate, logr)
	rosterSvc := service.NewRosterService(batchRepo, studentRepo, validate, logr)
	examSvc := service.NewExamService(examRepo, batchRepo, studentRepo, validate, logr)
	attendanceSvc := service.NewAttendanceService(attendanceRepo, studentRepo, calendarSvc, validate, logr)
	bonusSvc := service.NewBonusService(bonusRepo, studentRepo, validate, logr)

	deps := service.MonthlyResultDeps{
		Roster:     studentRepo,
		Batches:    batchRepo,
		Exams:      examRepo,
		Attendance: attendanceSvc,
		Bonuses:    bonusRepo,
		Calendar:   calendarSvc,
		Results:    resultRepo,
		Cache:      cacheSvc,
		Metrics:    metrics,
	}
	resultCfg := service.MonthlyResultConfig{
		TieBreak: tieBreak,
		Locale:   cfg.Results.Locale,
		CacheTTL: cfg.Results.CacheTTL,
		Timeout:  cfg.Results.GenerationTimeout,
	}

	// the worker is bound once the service exists; no job runs before queue.Start
	var worker *service.MonthlyResultWorker
	queue := jobs.NewQueue("monthly-results", func(ctx context.Context, job jobs.Job) error {
		return worker.Handle(ctx, job)
	}, jobs.QueueConfig{
		Workers:    cfg.Results.WorkerConcurrency,
		MaxRetries: cfg.Results.WorkerRetries,
		RetryDelay: 5 * time.Second,
		JobTimeout: cfg.Results.GenerationTimeout,
		Logger:     logr,
	})
	deps.Queue = queue
	resultSvc := service.NewMonthlyResultService(deps, resultCfg, validate, logr)
	worker = service.NewMonthlyResultWorker(resultSvc, logr)
	queue.Start(ctx)
	defer queue.Stop()

	if cfg.Results.ScheduleEnabled {
		scheduler, err := service.NewResultScheduler(resultSvc, cfg.Results.Schedule, 0, logr)
		if err != nil {
			return fmt.Errorf("invalid RESULTS_SCHEDULE: %w", err)
		}
		scheduler.Start()
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			scheduler.Stop(stopCtx)
		}()
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsMiddleware(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	health := handler.NewHealthHandler(map[string]handler.Pinger{
		"database": db,
		"cache":    handler.PingFunc(cacheRepo.Ping),
	}, logr)
	r.GET("/health", health.Health)
	r.GET("/ready", health.Ready)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handler.RegisterRoutes(r.Group(cfg.APIPrefix), authSvc, handler.Handlers{
		Auth:       handler.NewAuthHandler(authSvc),
		Batches:    handler.NewBatchHandler(rosterSvc),
		Exams:      handler.NewExamHandler(examSvc),
		Attendance: handler.NewAttendanceHandler(attendanceSvc),
		Bonuses:    handler.NewBonusHandler(bonusSvc),
		Calendar:   handler.NewCalendarHandler(calendarSvc),
		Results:    handler.NewResultHandler(resultSvc),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "db_driver", cfg.Database.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID", "Content-Disposition"},
		AllowCredentials: len(origins) > 0,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}
