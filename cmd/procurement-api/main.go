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

	_ "github.com/hospshop/procurement-api/api/swagger"
	"github.com/hospshop/procurement-api/internal/handler"
	"github.com/hospshop/procurement-api/internal/middleware"
	"github.com/hospshop/procurement-api/internal/models"
	"github.com/hospshop/procurement-api/internal/repository"
	"github.com/hospshop/procurement-api/internal/service"
	"github.com/hospshop/procurement-api/pkg/cache"
	"github.com/hospshop/procurement-api/pkg/config"
	"github.com/hospshop/procurement-api/pkg/database"
	"github.com/hospshop/procurement-api/pkg/logger"
	corsmiddleware "github.com/hospshop/procurement-api/pkg/middleware/cors"
	reqidmiddleware "github.com/hospshop/procurement-api/pkg/middleware/requestid"
	"github.com/hospshop/procurement-api/pkg/storage"
)

// @title hospshop Procurement API
// @version 1.0.0
// @description Quotation workflow for medical equipment procurement
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

	validate := validator.New()
	metrics := service.NewMetricsService()

	var cacheSvc *service.CacheService
	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
	} else {
		defer redisClient.Close()
		cacheRepo := repository.NewCacheRepository(redisClient, logr)
		cacheSvc = service.NewCacheService(cacheRepo, metrics, cfg.Quotations.ComparisonCacheTTL, logr, true)
	}

	userRepo := repository.NewUserRepository(db)
	supplierRepo := repository.NewSupplierRepository(db)
	quotationRepo := repository.NewQuotationRepository(db)
	proposalRepo := repository.NewProposalRepository(db)
	awardRepo := repository.NewAwardRepository(db)
	contractRepo := repository.NewContractRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	deliveryRepo := repository.NewDeliveryRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	supplierSvc := service.NewSupplierService(supplierRepo, validate, logr)

	notificationSvc := service.NewNotificationService(service.NotificationServiceParams{
		Email:     buildEmailNotifier(cfg.Notifications, logr),
		WhatsApp:  buildWhatsAppNotifier(cfg.Notifications),
		Logs:      notificationRepo,
		Suppliers: supplierRepo,
		Logger:    logr,
		Enabled:   cfg.Notifications.Enabled,
		Workers:   cfg.Notifications.WorkerConcurrency,
		Retries:   cfg.Notifications.WorkerRetries,
	})

	quotationSvc := service.NewQuotationService(quotationRepo, notificationSvc, validate, logr, service.QuotationConfig{
		DefaultResponseDays: cfg.Quotations.DefaultResponseDays,
	})
	proposalSvc := service.NewProposalService(service.ProposalServiceParams{
		Proposals: proposalRepo,
		Requests:  quotationRepo,
		Cache:     cacheSvc,
		Metrics:   metrics,
		Validator: validate,
		Logger:    logr,
		Config:    service.ProposalConfig{DefaultValidityDays: cfg.Quotations.DefaultValidityDays},
	})
	comparisonSvc := service.NewComparisonService(quotationRepo, proposalRepo, supplierRepo, cacheSvc, logr, service.ComparisonConfig{
		CacheTTL: cfg.Quotations.ComparisonCacheTTL,
	})
	awardSvc := service.NewAwardService(service.AwardServiceParams{
		Awards:    awardRepo,
		Requests:  quotationRepo,
		Proposals: proposalRepo,
		Announcer: notificationSvc,
		Cache:     cacheSvc,
		Metrics:   metrics,
		Validator: validate,
		Logger:    logr,
	})
	paymentSvc := service.NewPaymentService(paymentRepo, supplierRepo, validate, logr)
	deliverySvc := service.NewDeliveryService(deliveryRepo, supplierRepo, validate, logr)

	var contractSvc *service.ContractService
	if cfg.Contracts.Enabled {
		contractFiles, err := storage.NewLocalStorage(cfg.Contracts.StorageDir)
		if err != nil {
			logr.Sugar().Fatalw("failed to init contract storage", "error", err)
		}
		contractSvc = service.NewContractService(service.ContractServiceParams{
			Contracts: contractRepo,
			Awards:    awardRepo,
			Requests:  quotationRepo,
			Proposals: proposalRepo,
			Suppliers: supplierRepo,
			Files:     contractFiles,
			Logger:    logr,
		})
	}

	var reportSvc *service.ReportService
	if cfg.Reports.Enabled {
		reportFiles, err := storage.NewLocalStorage(cfg.Reports.StorageDir)
		if err != nil {
			logr.Sugar().Fatalw("failed to init report storage", "error", err)
		}
		reportSvc = service.NewReportService(service.ReportServiceParams{
			Quotations: quotationRepo,
			Awards:     awardRepo,
			Files:      reportFiles,
			Logger:     logr,
		})
	}

	dashboardSvc := service.NewDashboardService(service.DashboardServiceParams{
		Quotations: quotationRepo,
		Suppliers:  supplierRepo,
		Deliveries: deliveryRepo,
		Payments:   paymentRepo,
		Cache:      cacheSvc,
		Logger:     logr,
		Config:     service.DashboardConfig{CacheTTL: cfg.Dashboard.CacheTTL},
	})

	queueCtx, stopQueue := context.WithCancel(context.Background())
	notificationSvc.Start(queueCtx)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	metricsHandler := handler.NewMetricsHandler(metrics)
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	authHandler := handler.NewAuthHandler(authSvc)
	supplierHandler := handler.NewSupplierHandler(supplierSvc)
	quotationHandler := handler.NewQuotationHandler(quotationSvc)
	proposalHandler := handler.NewProposalHandler(proposalSvc)
	awardHandler := handler.NewAwardHandler(awardSvc, comparisonSvc)
	paymentHandler := handler.NewPaymentHandler(paymentSvc)
	deliveryHandler := handler.NewDeliveryHandler(deliverySvc)

	api := r.Group(cfg.APIPrefix)
	api.POST("/auth/login", authHandler.Login)

	authed := api.Group("")
	authed.Use(middleware.JWT(authSvc))

	authed.GET("/auth/me", authHandler.Me)
	authed.POST("/auth/change-password", authHandler.ChangePassword)

	writers := middleware.RequireRoles(models.RoleAdmin, models.RoleOperator)

	authed.GET("/suppliers", supplierHandler.List)
	authed.GET("/suppliers/:id", supplierHandler.Get)
	authed.POST("/suppliers", writers, supplierHandler.Create)
	authed.PUT("/suppliers/:id", writers, supplierHandler.Update)

	authed.GET("/quotations", quotationHandler.List)
	authed.GET("/quotations/stats", quotationHandler.Stats)
	authed.GET("/quotations/:id", quotationHandler.Get)
	authed.POST("/quotations", writers, quotationHandler.Create)

	authed.GET("/quotations/:id/proposals", proposalHandler.ListByRequest)
	authed.POST("/quotations/:id/proposals", writers, proposalHandler.Submit)
	authed.GET("/proposals/:id", proposalHandler.Get)

	authed.GET("/quotations/:id/comparison", awardHandler.Comparison)
	authed.GET("/quotations/:id/award", awardHandler.GetDecision)
	authed.POST("/quotations/:id/award", writers, awardHandler.SelectWinner)

	if contractSvc != nil {
		contractHandler := handler.NewContractHandler(contractSvc)
		authed.GET("/quotations/:id/contract", contractHandler.GetByRequest)
		authed.POST("/quotations/:id/contract", writers, contractHandler.Generate)
	}

	authed.GET("/payments/due", paymentHandler.Due)
	authed.GET("/payments/overdue", paymentHandler.Overdue)
	authed.GET("/payments/:id", paymentHandler.Get)
	authed.POST("/payments", writers, paymentHandler.Create)
	authed.POST("/payments/installments/:id/pay", writers, paymentHandler.PayInstallment)

	authed.GET("/deliveries/pending", deliveryHandler.ListPending)
	authed.GET("/deliveries/:id", deliveryHandler.Get)
	authed.GET("/deliveries/:id/tracking", deliveryHandler.Tracking)
	authed.POST("/deliveries", writers, deliveryHandler.Create)
	authed.POST("/deliveries/:id/schedule", writers, deliveryHandler.Schedule)
	authed.PATCH("/deliveries/:id/status", writers, deliveryHandler.UpdateStatus)

	if reportSvc != nil {
		reportHandler := handler.NewReportHandler(reportSvc)
		authed.GET("/reports/quotations", reportHandler.Quotations)
		authed.GET("/reports/savings", reportHandler.Savings)
	}

	if cfg.Dashboard.Enabled {
		dashboardHandler := handler.NewDashboardHandler(dashboardSvc)
		authed.GET("/dashboard/stats", dashboardHandler.Stats)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
	stopQueue()
	notificationSvc.Stop()
}

func buildEmailNotifier(cfg config.NotificationConfig, logr *zap.Logger) service.Notifier {
	if cfg.Provider == "smtp" && cfg.SMTPHost != "" {
		return service.NewSMTPNotifier(service.SMTPConfig{
			Host:        cfg.SMTPHost,
			Port:        cfg.SMTPPort,
			User:        cfg.SMTPUser,
			Password:    cfg.SMTPPassword,
			FromAddress: cfg.FromAddress,
		})
	}
	return service.NewNoopNotifier(logr)
}

func buildWhatsAppNotifier(cfg config.NotificationConfig) service.Notifier {
	if cfg.WhatsAppAPIURL == "" {
		return nil
	}
	return service.NewWhatsAppNotifier(cfg.WhatsAppAPIURL, cfg.WhatsAppAPIKey)
}
