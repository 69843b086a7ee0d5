package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/lumenui/lumen/internal/action"
	"github.com/lumenui/lumen/internal/engine"
	"github.com/lumenui/lumen/internal/infrastructure/config"
	"github.com/lumenui/lumen/internal/infrastructure/logging"
	"github.com/lumenui/lumen/internal/infrastructure/monitoring"
	"github.com/lumenui/lumen/internal/server"
)

func main() {
	var (
		port     = flag.String("port", "", "listen port (overrides config)")
		logLevel = flag.String("log-level", "", "log level (overrides config)")
	)
	flag.Parse()

	cfg := config.LoadOrDefault()
	if *port != "" {
		cfg.Server.Port = *port
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}

	logger, err := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
	})
	if err != nil {
		logger = logging.NewDefault()
		logger.Warn("invalid log config, using defaults", zap.Error(err))
	}
	defer logger.Sync()

	metrics := monitoring.NewMetrics()
	transport := action.NewHTTPTransport(cfg.Transport, logger.Named("transport").Logger, metrics)

	manager := engine.NewManager(engine.ManagerConfig{
		Transport: transport,
		Logger:    logger.Named("engine").Logger,
		Metrics:   metrics,
	})

	srv := server.New(cfg, manager, logger.Named("server").Logger, metrics)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Run()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			logger.Error("server failed", zap.Error(err))
			os.Exit(1)
		}
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}
	logger.Info("stopped")
}
