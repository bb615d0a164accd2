package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/aretw0/redline"
	"github.com/aretw0/redline/internal/config"
	"github.com/aretw0/redline/internal/logging"
	"github.com/aretw0/redline/pkg/ports"
)

// loadConfig layers the persistent flags over the config file and defaults.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}

	if listen, _ := cmd.Flags().GetString("listen"); listen != "" {
		cfg.Listen = listen
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.LogLevel = level
	}
	return cfg, nil
}

// buildCoordinator wires a Coordinator from the resolved config.
func buildCoordinator(cfg config.Config, logger *slog.Logger, presenter ports.Presenter) (*redline.Coordinator, error) {
	opts := []redline.Option{
		redline.WithLogger(logger),
		redline.WithListenAddr(cfg.Listen),
	}
	if cfg.Timeout > 0 {
		opts = append(opts, redline.WithTimeout(cfg.Timeout))
	}
	if presenter != nil {
		opts = append(opts, redline.WithPresenter(presenter))
	}
	return redline.New(opts...)
}

func newLogger(cfg config.Config) *slog.Logger {
	return logging.New(logging.ParseLevel(cfg.LogLevel))
}
