package main

import (
	"catalog-service/internal/handler"
	"catalog-service/internal/middleware"
	"catalog-service/internal/scheduler"
	"catalog-service/internal/service"
	"catalog-service/pkg/config"
	"catalog-service/pkg/database"
	"catalog-service/pkg/jwtutil"
	"catalog-service/pkg/logger"
	"catalog-service/prometheus"

	"github.com/benbjohnson/clock"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger with config
	logger.InitLogger(cfg)
	log := logger.GetLogger()
	log.Info("Starting catalog service...", zap.String("environment", cfg.Server.Env))

	// Initialize database
	if err := database.InitDB(cfg); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	// Initialize JWT utility
	jwtutil.Initialize(&cfg.JWT)
	log.Info("JWT utility initialized")

	// Wire services
	db := database.GetDB()
	clk := clock.New()
	authService := service.NewAuthService(db, log)
	catalogService := service.NewCatalogService(db, clk, log)

	authHandler := handler.NewAuthHandler(authService)
	catalogHandler := handler.NewCatalogHandler(catalogService)

	// Start the daily reindex scheduler
	if cfg.Scheduler.Enabled {
		reindexScheduler, err := scheduler.New(catalogService, cfg.Scheduler.ReindexSpec, log)
		if err != nil {
			log.Fatal("Failed to create reindex scheduler", zap.Error(err))
		}
		reindexScheduler.Start()
		defer reindexScheduler.Stop()
	}

	// Initialize Echo framework
	e := echo.New()

	// Apply global middleware - order matters
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestIDMiddleware)
	e.Use(logger.Middleware(log))
	e.Use(prometheus.MetricsMiddleware())

	// Public routes - no authentication required
	e.GET("/health", handler.HealthCheck)
	e.GET("/metrics", handler.MetricsHandler)

	// Authentication routes
	auth := e.Group("/auth")
	auth.POST("/login", authHandler.Login)

	// Catalog routes - all require a valid bearer token; the tenant id comes
	// from the token claims, never from the request
	catalogs := e.Group("/catalogs")
	catalogs.Use(middleware.AuthMiddleware)
	catalogs.GET("", catalogHandler.ListCatalogs)
	catalogs.POST("", catalogHandler.CreateCatalog)
	catalogs.PUT("/:id", catalogHandler.UpdateCatalog)
	catalogs.DELETE("/:id", catalogHandler.DeleteCatalog)
	catalogs.POST("/bulk_delete", catalogHandler.BulkDeleteCatalogs)
	catalogs.POST("/index_all", catalogHandler.IndexAllCatalogs)
	catalogs.POST("/index_selected", catalogHandler.IndexSelectedCatalogs)

	// Start server
	port := cfg.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}
}
