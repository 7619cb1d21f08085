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

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	coreport "github.com/amirhossein-jamali/credit-ledger/internal/domain/port/core"
	creditUseCase "github.com/amirhossein-jamali/credit-ledger/internal/domain/usecase/credit"
	userUseCase "github.com/amirhossein-jamali/credit-ledger/internal/domain/usecase/user"
	"github.com/amirhossein-jamali/credit-ledger/internal/infrastructure/adapter/api/handler"
	"github.com/amirhossein-jamali/credit-ledger/internal/infrastructure/adapter/api/routes"
	"github.com/amirhossein-jamali/credit-ledger/internal/infrastructure/adapter/database"
	"github.com/amirhossein-jamali/credit-ledger/internal/infrastructure/adapter/database/migration"
	"github.com/amirhossein-jamali/credit-ledger/internal/infrastructure/adapter/logger"
	"github.com/amirhossein-jamali/credit-ledger/internal/infrastructure/adapter/metrics"
	redisAdapter "github.com/amirhossein-jamali/credit-ledger/internal/infrastructure/adapter/redis"
	"github.com/amirhossein-jamali/credit-ledger/internal/infrastructure/adapter/repository"
	"github.com/amirhossein-jamali/credit-ledger/internal/infrastructure/adapter/scheduler"
	timeProvider "github.com/amirhossein-jamali/credit-ledger/internal/infrastructure/adapter/time"
	"github.com/amirhossein-jamali/credit-ledger/internal/infrastructure/config"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	appLogger, err := logger.NewZapLogger(logger.Options{
		Production: cfg.IsProduction(),
		Level:      cfg.Logger.Level,
		Encoding:   cfg.Logger.Format,
	})
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = appLogger.Flush() }()

	if err := run(cfg, appLogger); err != nil {
		appLogger.Error("Service terminated with error", map[string]any{
			"error": err.Error(),
		})
		_ = appLogger.Flush()
		os.Exit(1)
	}
}

func run(cfg *config.Config, appLogger coreport.Logger) error {
	ctx := context.Background()
	tp := timeProvider.NewRealTimeProvider()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	ledgerMetrics := metrics.NewLedgerMetrics(registry)

	dbManager := database.NewManager(database.FromAppConfig(cfg), appLogger, tp, ledgerMetrics)
	if _, err := dbManager.Connect(ctx); err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer func() {
		if err := dbManager.Close(); err != nil {
			appLogger.Error("Failed to close database", map[string]any{"error": err.Error()})
		}
	}()

	if err := dbManager.Migrate(ctx); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	userRepo := repository.NewUserRepository(dbManager.DB(), appLogger, dbManager.ErrorMapper())
	creditRepo := repository.NewCreditRepository(
		dbManager.DB(),
		tp,
		appLogger,
		dbManager.ErrorMapper(),
		dbManager.TxRetryConfig(),
	)

	userUseCaseImpl := userUseCase.NewUserUseCase(userRepo, tp, appLogger)
	creditUseCaseImpl := creditUseCase.NewCreditUseCase(creditRepo, tp, appLogger, ledgerMetrics)

	if cfg.Seed.DefaultUsers {
		if err := migration.CreateDefaultUsers(ctx, userUseCaseImpl); err != nil {
			appLogger.Error("Failed to create default users", map[string]any{
				"error": err.Error(),
			})
		}
	}

	var bonusScheduler *scheduler.DailyBonusScheduler
	if cfg.Scheduler.Enabled {
		locker, closeLocker, err := newRunLocker(ctx, cfg, appLogger)
		if err != nil {
			return err
		}
		defer closeLocker()

		bonusScheduler, err = scheduler.NewDailyBonusScheduler(
			scheduler.Config{
				Spec:        cfg.Scheduler.Spec,
				BonusAmount: cfg.Scheduler.BonusAmount,
				RunTimeout:  cfg.Scheduler.RunTimeout,
			},
			creditUseCaseImpl,
			locker,
			tp,
			appLogger,
			ledgerMetrics,
		)
		if err != nil {
			return fmt.Errorf("create scheduler: %w", err)
		}
		if err := bonusScheduler.Start(); err != nil {
			return fmt.Errorf("start scheduler: %w", err)
		}
		defer bonusScheduler.Stop()
	}

	creditHandler := handler.NewCreditHandler(creditUseCaseImpl, appLogger)
	var schedulerStatus handler.SchedulerStatus
	if bonusScheduler != nil {
		schedulerStatus = bonusScheduler
	}
	healthHandler := handler.NewHealthHandler(dbManager.HealthChecker(), schedulerStatus, appLogger)

	router := gin.New()
	routes.SetupMiddlewares(router, appLogger, cfg.Server.AllowedOrigins, ledgerMetrics)
	routes.SetupRoutes(router, creditHandler, healthHandler,
		promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		appLogger.Info("Starting server", map[string]any{
			"addr": server.Addr,
			"env":  cfg.Environment,
		})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		appLogger.Info("Shutting down server...", map[string]any{"signal": sig.String()})
	case err := <-serverErr:
		return fmt.Errorf("http server: %w", err)
	}

	// no new bonus run may start while the server drains
	if bonusScheduler != nil {
		bonusScheduler.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", map[string]any{
			"error": err.Error(),
		})
	}

	appLogger.Info("Server exited gracefully", nil)
	return nil
}

// newRunLocker returns a Redis-backed locker when Redis is configured,
// otherwise a local one
func newRunLocker(ctx context.Context, cfg *config.Config, appLogger coreport.Logger) (scheduler.RunLocker, func(), error) {
	client, err := redisAdapter.NewClient(ctx, cfg.Redis)
	if err != nil {
		return nil, nil, err
	}
	if client == nil {
		appLogger.Info("Redis not configured, daily bonus runs on every instance", nil)
		return scheduler.NewNoopLocker(), func() {}, nil
	}

	appLogger.Info("Daily bonus guarded by Redis lock", map[string]any{
		"addr":   cfg.Redis.Addr,
		"expiry": cfg.Scheduler.LockExpiry.String(),
	})
	closeFn := func() {
		if err := client.Close(); err != nil {
			appLogger.Warn("Failed to close redis client", map[string]any{"error": err.Error()})
		}
	}
	return scheduler.NewRedisLocker(client, cfg.Redis.KeyPrefix, cfg.Scheduler.LockExpiry), closeFn, nil
}
