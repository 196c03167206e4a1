package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/smart-campus-api/api/swagger"
	"github.com/noah-isme/smart-campus-api/internal/faceclient"
	"github.com/noah-isme/smart-campus-api/internal/handler"
	"github.com/noah-isme/smart-campus-api/internal/repository"
	"github.com/noah-isme/smart-campus-api/internal/router"
	"github.com/noah-isme/smart-campus-api/internal/service"
	"github.com/noah-isme/smart-campus-api/internal/textgen"
	"github.com/noah-isme/smart-campus-api/pkg/cache"
	"github.com/noah-isme/smart-campus-api/pkg/config"
	"github.com/noah-isme/smart-campus-api/pkg/database"
	"github.com/noah-isme/smart-campus-api/pkg/logger"
)

// @title Smart Campus API
// @version 1.0.0
// @description Attendance intelligence, timetables and smart daily routines
// @BasePath /
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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()
	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, suggestion cache disabled", zap.Error(err))
		redisClient = nil
	}

	loc := cfg.Location()
	validate := validator.New()
	metrics := service.NewMetricsService()

	students := repository.NewStudentRepository(db)
	terms := repository.NewTermRepository(db)
	subjects := repository.NewSubjectRepository(db)
	schedules := repository.NewClassScheduleRepository(db)
	attendance := repository.NewAttendanceRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, "smart-campus", logr)
	defer cacheRepo.Close() //nolint:errcheck

	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Suggestions.CacheTTL, logr, cfg.Suggestions.CacheEnabled && cacheRepo.Enabled())
	classifier := service.NewAttendanceClassifier(cfg.Attendance.TargetPercent, cfg.Attendance.CriticalPercent)
	summarySvc := service.NewAttendanceSummaryService(students, subjects, schedules, attendance, classifier, logr)
	timetableSvc := service.NewTimetableService(students, subjects, schedules, schedules, attendance, logr)

	var generator service.TextGenerator
	if cfg.Suggestions.Enabled {
		generator = textgen.New(cfg.Suggestions.BaseURL, cfg.Suggestions.Model, cfg.Suggestions.APIKey, cfg.Suggestions.Timeout)
	}
	suggestionSvc := service.NewTaskSuggestionService(generator, cfg.Suggestions.Enabled, cacheSvc, cfg.Suggestions.CacheTTL, metrics, logr)

	window, err := service.NewSlotWindow(cfg.Routine.WindowStart, cfg.Routine.WindowEnd, cfg.Routine.SlotMinutes)
	if err != nil {
		logr.Fatal("invalid routine window", zap.Error(err))
	}
	routineSvc := service.NewRoutineService(students, terms, timetableSvc, summarySvc, suggestionSvc, service.RoutineConfig{
		Window:    window,
		AlertLead: cfg.Routine.AlertLead,
	}, logr)

	faces := faceclient.New(cfg.Face.BaseURL, cfg.Face.Timeout)
	attendanceSvc := service.NewAttendanceService(schedules, students, attendance, faces, cfg.Face.MaxUploadBytes, validate, metrics, logr)
	overviewSvc := service.NewTeacherOverviewService(timetableSvc, students, attendance, logr)
	studentSvc := service.NewStudentService(students, validate, logr)
	exportSvc := service.NewExportService(students, summarySvc, timetableSvc, loc, logr)
	tokenSvc := service.NewTokenService(service.TokenConfig{
		Secret:   cfg.JWT.Secret,
		Issuer:   cfg.JWT.Issuer,
		Audience: cfg.JWT.Audience,
	})

	clock := handler.NewClock(loc)
	components := map[string]handler.Pinger{"postgres": db}
	if redisClient != nil {
		components["redis"] = handler.PingFunc(func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}
	if cfg.Face.BaseURL != "" {
		components["face_service"] = handler.PingFunc(faces.Health)
	}

	engine := router.New(router.Options{
		APIPrefix:      cfg.APIPrefix,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Logger:         logr,
		Metrics:        metrics,
		Tokens:         tokenSvc,
		Extra: func(r *gin.Engine) {
			if cfg.Env != config.EnvProduction {
				r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
			}
		},
	}, router.Handlers{
		Students: handler.NewStudentHandler(studentSvc, routineSvc, summarySvc, timetableSvc, exportSvc, clock),
		Teachers: handler.NewTeacherHandler(timetableSvc, overviewSvc, exportSvc, clock),
		Classes:  handler.NewClassHandler(attendanceSvc, cfg.Face.MaxUploadBytes, clock),
		Metrics:  handler.NewMetricsHandler(metrics, components),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Info("server starting",
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.Env),
			zap.Bool("suggestions_enabled", cfg.Suggestions.Enabled),
			zap.String("timezone", loc.String()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	logr.Info("shutting down", zap.String("signal", sig.String()))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}
