package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/layer10security/formrelay/internal/config"
	"github.com/layer10security/formrelay/internal/logging"
	"github.com/layer10security/formrelay/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.GetGlobalLogger().Error("Failed to load configuration: %v", err)
		os.Exit(1)
	}

	// Initialize logger configuration
	logConfig := &logging.LogConfig{
		Level:      cfg.LogLevel,
		File:       cfg.LogFile,
		MaxSize:    100,
		MaxBackups: 3,
		MaxAge:     7,
	}

	// Configure and get logger
	if err := logging.InitLogger(logConfig); err != nil {
		panic(err)
	}
	logger := logging.GetGlobalLogger()
	defer logger.Close()

	logger.Info("Starting server in %s mode (context %s)", cfg.Environment, cfg.Context)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Run(ctx, cfg); err != nil {
		logger.Error("Server stopped: %v", err)
		os.Exit(1)
	}
	logger.Info("Server exited")
}
