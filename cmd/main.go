package main

import (
	"net/http"

	"github.com/FadhilPratama/cvstm-babat-admin/internal/handler"
	mid "github.com/FadhilPratama/cvstm-babat-admin/internal/middleware"
	"github.com/FadhilPratama/cvstm-babat-admin/pkg/config"
	"github.com/FadhilPratama/cvstm-babat-admin/pkg/database"
	"github.com/FadhilPratama/cvstm-babat-admin/pkg/jwtutil"
	"github.com/FadhilPratama/cvstm-babat-admin/pkg/logger"
	"github.com/FadhilPratama/cvstm-babat-admin/prometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		// Can't use structured logger yet since it's not initialized
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	if err := logger.InitLogger(appConfig); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting storehub",
		zap.String("environment", appConfig.Server.Env),
		zap.String("port", appConfig.Server.Port))

	// Initialize JWT utility
	jwtutil.Initialize(&appConfig.JWT)
	log.Info("JWT utility initialized")

	// Initialize Prometheus metrics
	prometheus.InitMetrics(appConfig)
	log.Info("Prometheus metrics initialized",
		zap.String("metrics_prefix", appConfig.Metrics.Prefix))

	// Initialize database
	if err := database.InitDB(appConfig); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	// Initialize Echo instance
	e := echo.New()

	// Middleware
	e.Use(middleware.Recover())
	e.Use(mid.RequestIDMiddleware)
	e.Use(mid.MetricsMiddleware)

	// Metrics endpoint
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Auth routes
	authAPI := e.Group("/api/auth")
	authAPI.POST("/register", handler.Register)
	authAPI.POST("/login", handler.Login)

	// Store routes - every mutation requires the owner's JWT
	storeAPI := e.Group("/api/stores", mid.AuthMiddleware)
	storeAPI.POST("", handler.CreateStore)
	storeAPI.GET("", handler.ListStores)
	storeAPI.GET("/:storeId", handler.GetStore)
	storeAPI.PATCH("/:storeId", handler.UpdateStore)
	storeAPI.DELETE("/:storeId", handler.DeleteStore)

	// Banner routes - reads are public, mutations owner-only
	e.GET("/api/stores/:storeId/banners", handler.ListBanners)
	e.GET("/api/stores/:storeId/banners/:bannerId", handler.GetBanner)
	e.POST("/api/stores/:storeId/banners", handler.CreateBanner, mid.AuthMiddleware)
	e.PATCH("/api/stores/:storeId/banners/:bannerId", handler.UpdateBanner, mid.AuthMiddleware)
	e.DELETE("/api/stores/:storeId/banners/:bannerId", handler.DeleteBanner, mid.AuthMiddleware)

	// Category routes - reads are public, mutations owner-only
	e.GET("/api/stores/:storeId/categories", handler.ListCategories)
	e.GET("/api/stores/:storeId/categories/:categoryId", handler.GetCategory)
	e.POST("/api/stores/:storeId/categories", handler.CreateCategory, mid.AuthMiddleware)
	e.PATCH("/api/stores/:storeId/categories/:categoryId", handler.UpdateCategory, mid.AuthMiddleware)
	e.DELETE("/api/stores/:storeId/categories/:categoryId", handler.DeleteCategory, mid.AuthMiddleware)

	// Product routes - reads are public, mutations owner-only
	e.GET("/api/stores/:storeId/products", handler.ListProducts)
	e.GET("/api/stores/:storeId/products/:productId", handler.GetProduct)
	e.POST("/api/stores/:storeId/products", handler.CreateProduct, mid.AuthMiddleware)
	e.PATCH("/api/stores/:storeId/products/:productId", handler.UpdateProduct, mid.AuthMiddleware)
	e.DELETE("/api/stores/:storeId/products/:productId", handler.DeleteProduct, mid.AuthMiddleware)

	// Start server
	port := appConfig.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil && err != http.ErrServerClosed {
		log.Fatal("Server error", zap.Error(err))
	}
}
