package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"moneycircle/client"
	"moneycircle/gateway/config"
	"moneycircle/gateway/routes"
	"moneycircle/observability"
	"moneycircle/observability/logging"
)

func main() {
	configPath := flag.String("config", "circled.yaml", "path to the service configuration")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	var logOut io.Writer
	if cfg.Log.File != "" {
		logOut = &lumberjack.Logger{
			Filename:   cfg.Log.File,
			MaxSize:    cfg.Log.MaxSizeMB,
			MaxBackups: cfg.Log.MaxBackups,
		}
	}
	logger := logging.Setup("circled", cfg.Log.Env, logOut)

	httpClient := &http.Client{Timeout: cfg.Backend.Timeout}
	backend, err := client.New(cfg.Backend.Endpoint, httpClient, logger)
	if err != nil {
		logger.Error("configure backend client", slog.Any("error", err))
		os.Exit(1)
	}

	handler, err := routes.New(routes.Config{
		Backend: backend,
		Logger:  logger,
		Metrics: observability.Engine(),
	})
	if err != nil {
		logger.Error("configure routes", slog.Any("error", err))
		os.Exit(1)
	}

	server := &http.Server{
		Addr:         cfg.ListenAddress,
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("circled listening", slog.String("addr", cfg.ListenAddress))
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown", slog.Any("error", err))
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("serve", slog.Any("error", err))
			os.Exit(1)
		}
	}
}
