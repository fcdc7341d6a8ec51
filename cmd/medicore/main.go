package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/medicore/medicore/internal/config"
	v1 "github.com/medicore/medicore/internal/handler/v1"
	"github.com/medicore/medicore/internal/middleware"
	"github.com/medicore/medicore/internal/repository"
	"github.com/medicore/medicore/internal/service"
	"github.com/medicore/medicore/pkg/auth"
	"github.com/medicore/medicore/pkg/database"
	"github.com/medicore/medicore/pkg/logger"
	"github.com/medicore/medicore/pkg/metrics"
	"github.com/medicore/medicore/pkg/tracer"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("loading config: " + err.Error())
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		panic("building logger: " + err.Error())
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Fatal("server exited with error", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	tp, err := tracer.Init(cfg.Tracing)
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			log.Warn("tracer shutdown failed", zap.Error(err))
		}
	}()

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return err
	}
	if err := database.Migrate(db, log); err != nil {
		return err
	}

	collector := metrics.NewCollector("medicore")
	if sqlDB, err := db.DB(); err == nil {
		collector.DBConnections.Set(float64(sqlDB.Stats().OpenConnections))
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	dictRepo := repository.NewDictionaryRepository(db)
	categoryRepo := repository.NewTemplateCategoryRepository(db)
	templateRepo := repository.NewTemplateRepository(db)
	patientRepo := repository.NewPatientRepository(db)
	caseRepo := repository.NewCaseRepository(db)
	archiveRepo := repository.NewArchiveRepository(db)
	measurementRepo := repository.NewMeasurementRepository(db)

	// Services
	jwtManager := auth.NewJWTManager(cfg.JWT)
	auditSvc := service.NewAuditService(auditRepo, log, collector)
	defer auditSvc.Shutdown()

	authSvc := service.NewAuthService(userRepo, jwtManager, log)
	dictSvc := service.NewDictionaryService(dictRepo, log, collector)
	templateSvc := service.NewTemplateService(categoryRepo, templateRepo, log, collector)
	archiveSvc := service.NewArchiveService(archiveRepo, log, collector)
	caseSvc := service.NewCaseService(caseRepo, archiveRepo, log, collector)
	patientSvc := service.NewPatientService(patientRepo, log)
	measurementSvc := service.NewMeasurementService(measurementRepo, caseRepo, templateRepo, dictRepo, log, collector)
	reportingSvc := service.NewReportingService(patientRepo, caseRepo, templateRepo, dictRepo, measurementRepo, log)

	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(
		middleware.Recovery(log),
		middleware.RequestID(),
		middleware.RequestLogger(log),
		middleware.Metrics(collector),
	)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "version": cfg.App.Version})
	})
	router.GET("/metrics", gin.WrapH(metrics.MetricsHandler()))

	public := router.Group("/api/v1")
	api := router.Group("/api/v1")
	api.Use(
		middleware.Auth(jwtManager, cfg.JWT.Required),
		middleware.Audit(auditSvc),
	)
	v1.Register(public, api, &v1.Handlers{
		Auth:       v1.NewAuthHandler(authSvc),
		Dictionary: v1.NewDictionaryHandler(dictSvc),
		Template:   v1.NewTemplateHandler(templateSvc),
		Archive:    v1.NewArchiveHandler(archiveSvc),
		Case:       v1.NewCaseHandler(caseSvc),
		Patient:    v1.NewPatientHandler(patientSvc),
		Data:       v1.NewDataHandler(measurementSvc),
		Reporting:  v1.NewReportingHandler(reportingSvc),
	})

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening",
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.App.Environment),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return err
	}

	log.Info("server stopped")
	return nil
}
