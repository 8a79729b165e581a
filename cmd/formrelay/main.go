package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/layer10security/formrelay/internal/config"
	"github.com/layer10security/formrelay/internal/logging"
	"github.com/layer10security/formrelay/internal/server"
	"github.com/layer10security/formrelay/internal/version"

	"github.com/spf13/cobra"
)

var logger *logging.Logger

// loadConfig reads configuration and sets up the global logger from it
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}

	logConfig := &logging.LogConfig{
		Level:      cfg.LogLevel,
		File:       cfg.LogFile,
		MaxSize:    100,
		MaxBackups: 3,
		MaxAge:     7,
	}
	if err := logging.InitLogger(logConfig); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger = logging.GetGlobalLogger()

	return cfg, nil
}

var rootCmd = &cobra.Command{
	Use:   "formrelay",
	Short: "formrelay - form backend for the Layer 10 Security site",
	Long: `formrelay serves the contact, early access and newsletter endpoints the
marketing site posts to, and relays each accepted submission to the operators.`,
	// Runtime failures are not usage errors
	SilenceUsage: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Start the HTTP server. Configuration is read from the environment and
from .env files in the working directory.

Example:
  formrelay serve
  formrelay serve --port 9000`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		defer logger.Close()

		if port, _ := cmd.Flags().GetString("port"); port != "" {
			cfg.Port = port
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		logger.Info("Starting formrelay %s in %s mode (context %s)", version.Version, cfg.Environment, cfg.Context)
		if err := server.Run(ctx, cfg); err != nil {
			logger.Error("Server stopped: %v", err)
			return err
		}
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("formrelay version: %s\n", version.Info())
	},
}

func init() {
	serveCmd.Flags().String("port", "", "Override PORT")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(notifyTestCmd)
	rootCmd.AddCommand(configCmd)

	initNotifyCommands()
	initConfigCommands()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
