// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"transita/internal/domain/auth"
	"transita/internal/domain/catalogs/store"
	"transita/internal/domain/inventories"
	"transita/internal/domain/manual"
	"transita/internal/domain/reports"
	"transita/internal/domain/settings"
	"transita/internal/domain/transfers"
	"transita/internal/infrastructure/http/v1/handlers"
	"transita/internal/infrastructure/http/v1/middleware"
	"transita/internal/infrastructure/storage/postgres"
	"transita/pkg/logger"
)

// RouterConfig holds the wired services the router exposes.
type RouterConfig struct {
	Pool   *postgres.Pool
	Logger *logger.Logger

	JWTValidator middleware.JWTValidator

	AuthService      *auth.Service
	StoreService     *store.Service
	TransferService  *transfers.Service
	InventoryService *inventories.Service
	ManualService    *manual.Service
	ReportService    *reports.Service
	SettingsService  *settings.Service
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints (no auth required)
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	baseHandler := handlers.NewBaseHandler()

	api := router.Group("/api/v1")
	{
		authHandler := handlers.NewAuthHandler(baseHandler, cfg.AuthService)

		// Public auth endpoints
		public := api.Group("/auth")
		public.POST("/login", authHandler.Login)
		public.POST("/refresh", authHandler.Refresh)

		// Everything else requires a valid token
		protected := api.Group("")
		protected.Use(middleware.Auth(cfg.JWTValidator))

		protectedAuth := protected.Group("/auth")
		protectedAuth.POST("/register", middleware.RequireAdmin(), authHandler.Register)
		protectedAuth.POST("/logout", authHandler.Logout)
		protectedAuth.GET("/profile", authHandler.Profile)

		// User administration is admin only
		userHandler := handlers.NewUserHandler(baseHandler, cfg.AuthService)
		users := protected.Group("/users")
		users.Use(middleware.RequireAdmin())
		userHandler.RegisterRoutes(users)

		storeHandler := handlers.NewStoreHandler(baseHandler, cfg.StoreService)
		storeHandler.RegisterRoutes(protected.Group("/stores"))

		transferHandler := handlers.NewTransferHandler(baseHandler, cfg.TransferService)
		transferHandler.RegisterRoutes(protected.Group("/transfers"))

		inventoryHandler := handlers.NewInventoryHandler(baseHandler, cfg.InventoryService)
		inventoryHandler.RegisterRoutes(protected.Group("/inventories"))

		manualHandler := handlers.NewManualTransferHandler(baseHandler, cfg.ManualService)
		manualHandler.RegisterRoutes(protected.Group("/manual-transfers"))

		statsHandler := handlers.NewStatsHandler(baseHandler, cfg.ReportService)
		protected.GET("/stats/transfers", statsHandler.Transfers)

		settingsHandler := handlers.NewSettingsHandler(baseHandler, cfg.SettingsService)
		settingsGroup := protected.Group("/settings")
		settingsGroup.GET("/import-folder", settingsHandler.GetImportFolder)
		settingsGroup.PUT("/import-folder", settingsHandler.SetImportFolder)
	}

	return router
}
