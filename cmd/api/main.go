// cmd/api/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/nweoo/zaycho-be/internal/adapters/db"
	redis_a "github.com/nweoo/zaycho-be/internal/adapters/redis_adapter"
	"github.com/nweoo/zaycho-be/internal/core/ports"
	"github.com/nweoo/zaycho-be/internal/core/services"
	"github.com/nweoo/zaycho-be/internal/handlers"
	"github.com/nweoo/zaycho-be/internal/handlers/middleware"
	"github.com/nweoo/zaycho-be/internal/pkg/config"
	"github.com/nweoo/zaycho-be/internal/pkg/logger"
)

// Build information injected at compile time
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	slogger := logger.SetupLogger("debug", "json")

	slogger.Info("starting zaycho shop backend",
		slog.String("version", Version),
		slog.String("build_time", BuildTime),
	)

	cfg, err := config.Load(slogger.Logger)
	if err != nil {
		slogger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Reconfigure logger with loaded settings
	slogger = logger.SetupLogger(cfg.App.LogLevel, cfg.App.LogFormat)
	slogger.Info("configuration loaded",
		slog.String("environment", cfg.App.Environment),
		slog.String("log_level", cfg.App.LogLevel),
	)

	ctx := context.Background()

	deps, err := initializeDependencies(ctx, cfg, slogger.Logger)
	if err != nil {
		slogger.Error("failed to initialize dependencies", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer deps.cleanup()

	if cfg.App.Environment != "production" {
		if err := runMigrations(ctx, cfg, slogger.Logger); err != nil {
			slogger.Error("failed to run migrations", slog.String("error", err.Error()))
		}
	}

	server := setupHTTPServer(cfg, deps, slogger)

	serverErrors := make(chan error, 1)
	go func() {
		slogger.Info("starting HTTP server",
			slog.String("address", cfg.GetServerAddress()),
		)
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slogger.Error("server error", slog.String("error", err.Error()))
		}
	case sig := <-shutdown:
		slogger.Info("shutdown signal received",
			slog.String("signal", sig.String()),
		)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slogger.Error("failed to gracefully shutdown server", slog.String("error", err.Error()))
			server.Close()
		}

		slogger.Info("server shutdown complete")
	}
}

// dependencies holds all application dependencies
type dependencies struct {
	database         ports.Database
	redisClient      *redis.Client
	redisCache       ports.CacheRepository
	asynqInspector   *asynq.Inspector
	inventoryService *services.InventoryService
	invoiceService   *services.InvoiceService
	inventoryHandler *handlers.InventoryHandler
	invoiceHandler   *handlers.InvoiceHandler
	healthHandler    *handlers.HealthHandler
	dashboardHandler *handlers.DashboardHandler
	exportHandler    *handlers.ExportHandler
}

func (d *dependencies) cleanup() {
	if d.database != nil {
		d.database.Close()
	}
	if d.redisClient != nil {
		d.redisClient.Close()
	}
	if d.asynqInspector != nil {
		d.asynqInspector.Close()
	}
}

func initializeDependencies(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*dependencies, error) {
	deps := &dependencies{}

	logger.Info("connecting to database",
		slog.String("host", cfg.Database.Host),
		slog.String("database", cfg.Database.Name),
	)

	database, err := db.NewDatabase(ctx, &db.Config{
		Host:               cfg.Database.Host,
		Port:               cfg.Database.Port,
		User:               cfg.Database.User,
		Password:           cfg.Database.Password,
		Database:           cfg.Database.Name,
		SSLMode:            cfg.Database.SSLMode,
		MaxConnections:     cfg.Database.MaxConnections,
		MinConnections:     cfg.Database.MinConnections,
		MaxConnLifetime:    cfg.Database.MaxConnLifetime,
		MaxConnIdleTime:    cfg.Database.MaxConnIdleTime,
		HealthCheckPeriod:  cfg.Database.HealthCheckPeriod,
		ConnectTimeout:     cfg.Database.ConnectTimeout,
		EnableQueryLogging: cfg.Database.EnableQueryLogging,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	deps.database = database

	logger.Info("connecting to Redis",
		slog.String("host", cfg.Redis.Host),
		slog.String("port", cfg.Redis.Port),
	)

	redisClient := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		MaxRetries:   cfg.Redis.MaxRetries,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	})

	if err := redisClient.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	deps.redisClient = redisClient

	deps.redisCache = redis_a.NewCache(redisClient, cfg.Redis.TTL, logger)

	deps.asynqInspector = asynq.NewInspector(asynq.RedisClientOpt{
		Addr:     cfg.Asynq.RedisAddr,
		Password: cfg.Asynq.RedisPassword,
		DB:       cfg.Asynq.RedisDB,
	})

	inventoryRepo := db.NewInventoryRepository(database, logger)
	invoiceRepo := db.NewInvoiceRepository(database, logger)

	deps.inventoryService = services.NewInventoryService(inventoryRepo, deps.redisCache, logger)
	deps.invoiceService = services.NewInvoiceService(invoiceRepo, deps.redisCache, logger)

	deps.inventoryHandler = handlers.NewInventoryHandler(deps.inventoryService, logger)
	deps.invoiceHandler = handlers.NewInvoiceHandler(deps.invoiceService, logger)
	deps.healthHandler = handlers.NewHealthHandler(
		database,
		redisClient,
		deps.asynqInspector,
		cfg,
		logger,
	)
	deps.dashboardHandler = handlers.NewDashboardHandler(database, deps.redisCache, logger)
	deps.exportHandler = handlers.NewExportHandler(database, deps.redisCache, logger)

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

func setupHTTPServer(cfg *config.Config, deps *dependencies, slogger *logger.Logger) *http.Server {
	mux := http.NewServeMux()

	registerRoutes(mux, deps)

	// Middleware apply in reverse order (innermost first)
	var handler http.Handler = mux

	if cfg.App.Environment != "test" {
		handler = middleware.RequestID(handler)
		handler = middleware.Logger(slogger)(handler)
		handler = middleware.Recovery(slogger.Logger)(handler)
	}

	if cfg.Security.RateLimitRequests > 0 {
		handler = middleware.RateLimit(cfg.Security.RateLimitRequests, cfg.Security.RateLimitDuration)(handler)
	}

	if len(cfg.Security.AllowedOrigins) > 0 {
		handler = middleware.CORS(cfg.Security.AllowedOrigins)(handler)
	}

	if cfg.Security.SecureHeaders {
		handler = middleware.SecureHeaders(handler)
	}

	return &http.Server{
		Addr:           cfg.GetServerAddress(),
		Handler:        handler,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
		ErrorLog:       slog.NewLogLogger(slogger.Handler(), slog.LevelError),
	}
}

func registerRoutes(mux *http.ServeMux, deps *dependencies) {
	apiV1 := "/api/v1"

	// Health and readiness
	mux.HandleFunc("GET /health", deps.healthHandler.Health)
	mux.HandleFunc("GET /ready", deps.healthHandler.Readiness)

	// Inventory
	mux.HandleFunc("GET "+apiV1+"/inventory", deps.inventoryHandler.ListInventory)
	mux.HandleFunc("POST "+apiV1+"/inventory", deps.inventoryHandler.CreateInventory)
	mux.HandleFunc("PATCH "+apiV1+"/inventory", deps.inventoryHandler.UpdateQuantity)
	mux.HandleFunc("DELETE "+apiV1+"/inventory", deps.inventoryHandler.DeleteInventory)
	mux.HandleFunc("GET "+apiV1+"/inventory/categories", deps.inventoryHandler.ListCategories)
	mux.HandleFunc("GET "+apiV1+"/inventory/{itemId}", deps.inventoryHandler.GetInventory)

	// Invoices
	mux.HandleFunc("GET "+apiV1+"/invoices", deps.invoiceHandler.ListInvoices)
	mux.HandleFunc("POST "+apiV1+"/invoices", deps.invoiceHandler.CreateInvoice)
	mux.HandleFunc("GET "+apiV1+"/invoices/{invoiceNumber}", deps.invoiceHandler.GetInvoice)

	// Exports
	mux.HandleFunc("GET "+apiV1+"/export/excel", deps.exportHandler.ExportExcel)
	mux.HandleFunc("GET "+apiV1+"/export/json", deps.exportHandler.ExportJSON)

	// Dashboard
	mux.HandleFunc("GET "+apiV1+"/dashboard", deps.dashboardHandler.GetDashboard)
}

func runMigrations(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("running database migrations")

	migrationConfig := &db.MigrationConfig{
		DatabaseURL: cfg.GetDatabaseURL(),
		SourcePath:  cfg.Database.MigrationPath,
		TableName:   "schema_migrations",
	}

	return db.RunMigrationsWithRetry(ctx, migrationConfig, logger, 3)
}
