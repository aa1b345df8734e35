package main

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dalfonso89/node-currency-converter/internal/api"
	"github.com/dalfonso89/node-currency-converter/internal/cache"
	"github.com/dalfonso89/node-currency-converter/internal/config"
	"github.com/dalfonso89/node-currency-converter/internal/logger"
	"github.com/dalfonso89/node-currency-converter/internal/metrics"
	"github.com/dalfonso89/node-currency-converter/internal/platform"
	"github.com/dalfonso89/node-currency-converter/internal/ratelimit"
	"github.com/dalfonso89/node-currency-converter/internal/repository"
	"github.com/dalfonso89/node-currency-converter/internal/service"
	"github.com/dalfonso89/node-currency-converter/internal/validation"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := logger.New(cfg.LogLevel, cfg.LogFormat)
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	policy, err := validation.ParsePolicy(cfg.ValidationPolicy)
	if err != nil {
		logger.Fatalf("Invalid validation policy: %v", err)
	}

	exchangeRepository, closeRepository, err := openRepository(cfg, logger)
	if err != nil {
		logger.Fatalf("Failed to open exchange repository: %v", err)
	}
	defer closeRepository()

	// Initialize services
	exchangeValidator := validation.NewValidator(policy)
	serviceMetrics := metrics.New()
	exchangeService := service.NewExchangeService(
		cfg,
		exchangeRepository,
		exchangeValidator,
		cache.New(cache.WithMetrics(serviceMetrics)),
		serviceMetrics,
		logger,
	)
	rateLimiter := ratelimit.NewLimiter(cfg, logger)

	handlers := api.NewHandlers(api.HandlerConfig{
		Configuration:   cfg,
		Logger:          logger,
		ExchangeService: exchangeService,
		RateLimiter:     rateLimiter,
		Metrics:         serviceMetrics,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handlers.SetupRoutes(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	// Create a shutdown context that works across platforms
	shutdownCtx, stop := platform.NewShutdownContext(context.Background())
	defer stop()

	if cfg.WatchExchangesFile && cfg.RepositoryBackend == config.BackendJSON {
		watcher, err := repository.NewFileWatcher(cfg.ExchangesFilePath, logger)
		if err != nil {
			logger.Fatalf("Failed to watch exchanges file: %v", err)
		}
		defer watcher.Close()
		go watcher.Watch(shutdownCtx, exchangeService.InvalidateCache)
	}

	go func() {
		logger.WithFields(map[string]interface{}{
			"port":              cfg.Port,
			"backend":           cfg.RepositoryBackend,
			"validation_policy": exchangeValidator.Policy().String(),
		}).Info("Starting currency converter")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-shutdownCtx.Done()

	logger.Info("Shutting down server...")

	rateLimiter.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited")
}

// openRepository returns the configured backend and a function releasing it.
func openRepository(cfg *config.Config, logger *logger.Logger) (service.ExchangeRepository, func(), error) {
	switch cfg.RepositoryBackend {
	case config.BackendBadger:
		badgerRepository, err := repository.OpenBadger(repository.BadgerConfig{
			Path:       cfg.BadgerPath,
			SyncWrites: true,
		}, logger)
		if err != nil {
			return nil, nil, err
		}
		return badgerRepository, func() {
			if err := badgerRepository.Close(); err != nil {
				logger.Errorf("Failed to close badger: %v", err)
			}
		}, nil
	default:
		return repository.NewJSONFileRepository(cfg.ExchangesFilePath, logger), func() {}, nil
	}
}
