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

	_ "github.com/grupo16/tutoring-center-api/api/swagger"
	"github.com/grupo16/tutoring-center-api/internal/gateway"
	"github.com/grupo16/tutoring-center-api/internal/handler"
	"github.com/grupo16/tutoring-center-api/internal/middleware"
	"github.com/grupo16/tutoring-center-api/internal/models"
	"github.com/grupo16/tutoring-center-api/internal/repository"
	"github.com/grupo16/tutoring-center-api/internal/service"
	"github.com/grupo16/tutoring-center-api/pkg/cache"
	"github.com/grupo16/tutoring-center-api/pkg/config"
	"github.com/grupo16/tutoring-center-api/pkg/database"
	"github.com/grupo16/tutoring-center-api/pkg/export"
	"github.com/grupo16/tutoring-center-api/pkg/logger"
	corsmiddleware "github.com/grupo16/tutoring-center-api/pkg/middleware/cors"
	reqidmiddleware "github.com/grupo16/tutoring-center-api/pkg/middleware/requestid"
)

// @title Tutoring Center API
// @version 1.0.0
// @description Administrative backend: enrollments, attendance, licenses, make-up classes, billing and PagoFacil QR payments
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
		logr.Sugar().Fatalw("failed to connect to redis", "error", err)
	}
	defer redisClient.Close()

	validate := validator.New()

	var metricsSvc *service.MetricsService
	if cfg.Metrics.Enabled {
		metricsSvc = service.NewMetricsService()
	}

	userRepo := repository.NewUserRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	licenseRepo := repository.NewLicenseRepository(db)
	reprogrammingRepo := repository.NewReprogrammingRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	classReportRepo := repository.NewClassReportRepository(db)

	tokenCache := gateway.NewRedisTokenCache(redisClient)
	pagofacil := gateway.NewClient(cfg.Gateway, tokenCache, logr)

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		TokenSecret: cfg.JWT.Secret,
		TokenExpiry: cfg.JWT.Expiration,
		Issuer:      cfg.JWT.Issuer,
	})
	saleSvc := service.NewSaleService(saleRepo, enrollmentRepo, validate, logr)
	enrollmentSvc := service.NewEnrollmentService(enrollmentRepo, userRepo, validate, logr).WithSales(saleSvc)
	attendanceSvc := service.NewAttendanceService(attendanceRepo, enrollmentRepo, licenseRepo, validate, logr)
	licenseSvc := service.NewLicenseService(licenseRepo, attendanceRepo, validate, logr)
	reprogrammingSvc := service.NewReprogrammingService(reprogrammingRepo, licenseRepo, attendanceRepo, validate, logr)
	receipts := export.NewReceiptExporter("Centro de Tutorias Grupo 16")
	paymentSvc := service.NewPaymentService(
		paymentRepo, saleRepo, pagofacil, receipts,
		cfg.Gateway.TxnPrefix, cfg.Gateway.CallbackURL,
		validate, logr,
	).WithMetrics(metricsSvc)
	scheduleSvc := service.NewScheduleService(scheduleRepo, userRepo, validate, logr)
	classReportSvc := service.NewClassReportService(classReportRepo, enrollmentRepo, validate, logr)

	authHandler := handler.NewAuthHandler(authSvc)
	enrollmentHandler := handler.NewEnrollmentHandler(enrollmentSvc)
	attendanceHandler := handler.NewAttendanceHandler(attendanceSvc)
	licenseHandler := handler.NewLicenseHandler(licenseSvc)
	reprogrammingHandler := handler.NewReprogrammingHandler(reprogrammingSvc)
	saleHandler := handler.NewSaleHandler(saleSvc)
	paymentHandler := handler.NewPaymentHandler(paymentSvc)
	scheduleHandler := handler.NewScheduleHandler(scheduleSvc)
	classReportHandler := handler.NewClassReportHandler(classReportSvc)
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
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	if cfg.Metrics.Enabled {
		r.GET("/metrics", metricsHandler.Prometheus)
	}
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	api.POST("/auth/login", authHandler.Login)
	// The gateway posts settlement notifications here without a JWT.
	api.POST("/pagos/callback", paymentHandler.Callback)

	auth := api.Group("")
	auth.Use(middleware.JWT(authSvc))

	auth.GET("/auth/me", authHandler.Me)

	staff := middleware.RequireRoles(models.RoleOwner, models.RoleTutor)
	ownerOnly := middleware.RequireRoles(models.RoleOwner)
	anyRole := middleware.RequireRoles(models.RoleOwner, models.RoleTutor, models.RoleStudent)

	enrollments := auth.Group("/inscripciones")
	enrollments.GET("", anyRole, enrollmentHandler.List)
	enrollments.GET("/:id", anyRole, enrollmentHandler.Get)
	enrollments.POST("", ownerOnly, enrollmentHandler.Create)
	enrollments.PUT("/:id/retirar", ownerOnly, enrollmentHandler.Withdraw)
	enrollments.PUT("/:id/finalizar", ownerOnly, enrollmentHandler.Finish)

	attendance := auth.Group("/asistencias")
	attendance.GET("", anyRole, attendanceHandler.List)
	attendance.GET("/:id", anyRole, attendanceHandler.Get)
	attendance.POST("", staff, attendanceHandler.Create)
	attendance.PUT("/:id", staff, attendanceHandler.Update)
	attendance.DELETE("/:id", ownerOnly, attendanceHandler.Delete)

	licenses := auth.Group("/licencias")
	licenses.GET("", anyRole, licenseHandler.List)
	licenses.GET("/:id", anyRole, licenseHandler.Get)
	licenses.POST("", anyRole, licenseHandler.Create)
	licenses.PUT("/:id/aprobar", staff, licenseHandler.Approve)
	licenses.PUT("/:id/rechazar", staff, licenseHandler.Reject)
	licenses.DELETE("/:id", ownerOnly, licenseHandler.Delete)

	reprogrammings := auth.Group("/reprogramaciones")
	reprogrammings.GET("", anyRole, reprogrammingHandler.List)
	reprogrammings.GET("/:id", anyRole, reprogrammingHandler.Get)
	reprogrammings.POST("", staff, reprogrammingHandler.Create)
	reprogrammings.PUT("/:id/realizar", staff, reprogrammingHandler.MarkDone)
	reprogrammings.PUT("/:id/cancelar", staff, reprogrammingHandler.Cancel)
	reprogrammings.DELETE("/:id", ownerOnly, reprogrammingHandler.Delete)

	sales := auth.Group("/ventas")
	sales.GET("", anyRole, saleHandler.List)
	sales.GET("/resumen", ownerOnly, saleHandler.Summary)
	sales.GET("/export", ownerOnly, saleHandler.Export)
	sales.GET("/:id", anyRole, saleHandler.Get)
	sales.POST("", ownerOnly, saleHandler.Create)

	payments := auth.Group("/pagos")
	payments.GET("", staff, paymentHandler.List)
	payments.GET("/:id", staff, paymentHandler.Get)
	payments.POST("", ownerOnly, paymentHandler.Create)
	payments.POST("/qr", staff, paymentHandler.InitiateQR)
	payments.GET("/:id/estado", staff, paymentHandler.QueryStatus)
	payments.GET("/:id/recibo", anyRole, paymentHandler.Receipt)

	schedules := auth.Group("/horarios")
	schedules.GET("", anyRole, scheduleHandler.List)
	schedules.POST("", ownerOnly, scheduleHandler.Create)
	schedules.DELETE("/:id", ownerOnly, scheduleHandler.Delete)

	reports := auth.Group("/informes")
	reports.GET("", anyRole, classReportHandler.List)
	reports.GET("/:id", anyRole, classReportHandler.Get)
	reports.POST("", staff, classReportHandler.Create)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
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
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("forced shutdown", "error", err)
	}
	logr.Sugar().Infow("server stopped")
}
