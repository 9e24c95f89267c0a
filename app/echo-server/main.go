package main

import (
	"context"
	"fmt"
	"linkPulse/app/echo-server/router"
	"linkPulse/business/conversion"
	"linkPulse/business/fraud"
	"linkPulse/business/reports"
	"linkPulse/business/tracking"
	"linkPulse/internal/middleware"
	psqlRepo "linkPulse/internal/repository/postgres"
	redisRepo "linkPulse/internal/repository/redis"
	"linkPulse/internal/rest"
	"linkPulse/pkg/config"
	"linkPulse/pkg/database"
	redisdb "linkPulse/pkg/database/redis"
	"linkPulse/pkg/logger"
	"linkPulse/pkg/metrics"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	logger.Info("Starting LinkPulse", "version", cfg.App.Version)

	db, err := database.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	if err := database.Migrate(db); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}

	logger.Info("Database connected successfully")

	// Offer policy cache is optional: a missing Redis degrades to repo-only
	// snapshot loads.
	var policyCache tracking.PolicyCache
	if cfg.Redis.Enabled {
		redisClient, err := redisdb.NewRedisClient(cfg)
		if err != nil {
			logger.Warn("Redis unavailable, offer policy cache disabled", "error", err)
		} else {
			defer redisdb.CloseRedisClient(redisClient)
			ttl := time.Duration(cfg.Tracking.PolicyCacheTTLSeconds) * time.Second
			policyCache = redisRepo.NewPolicyCache(redisClient, ttl)
			logger.Info("Offer policy cache enabled", "ttl", ttl.String())
		}
	}

	metrics.Init()

	// Init repo
	offerRepo := psqlRepo.NewOfferRepository(db)
	affiliateRepo := psqlRepo.NewAffiliateRepository(db)
	clickRepo := psqlRepo.NewClickRepository(db)
	conversionRepo := psqlRepo.NewConversionRepository(db)
	fraudRepo := psqlRepo.NewFraudRepository(db)

	// Init service
	fraudService := fraud.NewFraudService(fraudRepo, cfg.Tracking.FraudQueueSize)
	fraudService.Start()

	trackingService := tracking.NewTrackingService(offerRepo, affiliateRepo, clickRepo, policyCache, fraudService)
	conversionService := conversion.NewConversionService(offerRepo, clickRepo, conversionRepo)
	reportsService := reports.NewReportsService(offerRepo, clickRepo, conversionRepo)

	// Init handler
	clickHandler := rest.NewClickHandler(trackingService)
	conversionHandler := rest.NewConversionHandler(conversionService)
	reportsHandler := rest.NewReportsHandler(reportsService)

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// HTTP error handler
	e.HTTPErrorHandler = middleware.ErrorHandler

	// Global middleware
	e.Use(echomiddleware.Recover())

	// Setup routes
	router.SetTrackingRoutes(e, clickHandler, conversionHandler)

	api := e.Group("/api/v1")
	router.SetReportsRoutes(api, reportsHandler)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown server
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	// Drain the async fraud logger before exit
	fraudService.Stop()

	logger.Info("Server stopped")
}
