package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mediguide/mediguide-client/internal/cache"
	"github.com/mediguide/mediguide-client/internal/config"
	"github.com/mediguide/mediguide-client/internal/metrics"
	"github.com/mediguide/mediguide-client/internal/notify"
	"github.com/mediguide/mediguide-client/internal/repo"
	"github.com/mediguide/mediguide-client/internal/services"
	"github.com/mediguide/mediguide-client/internal/session"
	"github.com/mediguide/mediguide-client/internal/utils"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "Path to configuration file")
	flag.Parse()

	// Local overrides for development; a missing .env is fine.
	_ = godotenv.Load()

	cfg, err := config.Load(configPath)
	if err != nil {
		slog.Error("failed to load config", slog.String("path", configPath), slog.Any("error", err))
		os.Exit(1)
	}

	logger := utils.NewLogger(cfg.Logging.Level, cfg.Logging.JSON)
	logger.Info("starting mediguide", slog.String("api", cfg.API.BaseURL))

	if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
		logger.Error("failed to register metrics", slog.Any("error", err))
		os.Exit(1)
	}

	var cacheProvider cache.Provider
	switch cfg.Cache.Mode {
	case "off":
		cacheProvider = cache.NoopProvider{}
	case "valkey":
		provider, err := cache.NewValkeyProvider(cache.ValkeyConfig{
			Addr:         cfg.Cache.Addr,
			Username:     cfg.Cache.Username,
			Password:     cfg.Cache.Password,
			DB:           cfg.Cache.DB,
			DialTimeout:  cfg.Cache.DialTimeout,
			ReadTimeout:  cfg.Cache.ReadTimeout,
			WriteTimeout: cfg.Cache.WriteTimeout,
			MaxRetries:   cfg.Cache.MaxRetries,
			TLS:          cfg.Cache.TLS,
		})
		if err != nil {
			logger.Warn("valkey cache unavailable, falling back to in-memory", slog.Any("error", err))
			cacheProvider = cache.NewMemoryProvider()
		} else {
			cacheProvider = provider
			defer provider.Close()
		}
	default:
		cacheProvider = cache.NewMemoryProvider()
	}

	sessions := session.NewManager(logger)
	coreClient := repo.NewMedCoreClient(
		cfg.API.BaseURL,
		cfg.API.Timeout,
		sessions,
		cacheProvider,
		cfg.Cache.CatalogTTL,
		cfg.API.AttachAuthOnSave,
	)
	sessions.Bind(coreClient)

	notifier := notify.NewCenter()
	service := services.NewCheckerService(logger, coreClient, sessions, notifier)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var metricsServer *http.Server
	if cfg.Metrics.Address != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsServer = &http.Server{
			Addr:         cfg.Metrics.Address,
			Handler:      mux,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 15 * time.Second,
		}
		go func() {
			logger.Info("metrics server listening", slog.String("address", cfg.Metrics.Address))
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server exited", slog.Any("error", err))
				stop()
			}
		}()
	}

	shell := newShell(logger, service, notifier, os.Stdin, os.Stdout)
	shell.run(ctx)

	if metricsServer != nil {
		metricsCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := metricsServer.Shutdown(metricsCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("metrics server shutdown", slog.Any("error", err))
		}
		cancel()
	}

	logger.Info("mediguide stopped")
}
