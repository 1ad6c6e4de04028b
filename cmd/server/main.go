// Package main is the entry point for the transita API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"transita/internal/domain/auth"
	"transita/internal/domain/catalogs/store"
	"transita/internal/domain/inventories"
	"transita/internal/domain/manual"
	"transita/internal/domain/reports"
	"transita/internal/domain/settings"
	"transita/internal/domain/transfers"
	"transita/internal/infrastructure/barcode"
	v1 "transita/internal/infrastructure/http/v1"
	"transita/internal/infrastructure/storage/postgres"
	"transita/internal/infrastructure/storage/postgres/auth_repo"
	"transita/internal/infrastructure/storage/postgres/inventory_repo"
	"transita/internal/infrastructure/storage/postgres/manual_repo"
	"transita/internal/infrastructure/storage/postgres/report_repo"
	"transita/internal/infrastructure/storage/postgres/settings_repo"
	"transita/internal/infrastructure/storage/postgres/store_repo"
	"transita/internal/infrastructure/storage/postgres/transfer_repo"
	"transita/pkg/logger"
)

func main() {
	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting transita server")

	// --- Database ---
	poolCfg := postgres.DefaultPoolConfig(mustEnv("DATABASE_URL"))
	if maxConns := getEnvInt("DB_MAX_CONNS", 0); maxConns > 0 {
		poolCfg.MaxConns = int32(maxConns)
	}

	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	txManager := postgres.NewTxManager(pool)

	auditService, err := postgres.NewAuditService(txManager)
	if err != nil {
		log.Fatalw("failed to initialize audit service", "error", err)
	}

	// --- Auth ---
	jwtSecret := mustEnv("JWT_SECRET")
	jwtService := auth.NewJWTService(auth.DefaultJWTConfig(jwtSecret))

	authService := auth.NewService(
		auth_repo.NewUserRepo(txManager),
		auth_repo.NewTokenRepo(txManager),
		jwtService,
		auth.DefaultServiceConfig(),
	)

	// --- Domain services ---
	storeService := store.NewService(store_repo.New(txManager))

	barcodeClient := barcode.NewClient(barcode.Config{
		BaseURL: getEnv("BARCODE_API_URL", ""),
		APIKey:  getEnv("BARCODE_API_KEY", ""),
		Timeout: getEnvDuration("BARCODE_API_TIMEOUT", 10*time.Second),
	})

	transferService := transfers.NewService(
		transfer_repo.New(txManager),
		storeService,
		barcodeClient,
		auditService,
		txManager,
	)

	inventoryService := inventories.NewService(inventory_repo.New(txManager), storeService)
	manualService := manual.NewService(manual_repo.New(txManager), storeService, txManager)
	reportService := reports.NewService(report_repo.New(txManager))
	settingsService := settings.NewService(settings_repo.New(txManager))

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Pool:             pool,
		Logger:           log,
		JWTValidator:     jwtService,
		AuthService:      authService,
		StoreService:     storeService,
		TransferService:  transferService,
		InventoryService: inventoryService,
		ManualService:    manualService,
		ReportService:    reportService,
		SettingsService:  settingsService,
	})

	// --- HTTP server ---
	port := getEnv("APP_PORT", "8080")
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func mustEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		fmt.Printf("required environment variable %s not set\n", key)
		os.Exit(1)
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
