package main

import (
	"fmt"
	"log/slog"

	"github.com/phrazzld/accounts-api/internal/config"
	"github.com/phrazzld/accounts-api/internal/platform/logger"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for the accounts-api CLI.
func NewRootCmd() *cobra.Command {
	var configDir string

	cmd := &cobra.Command{
		Use:           "accounts-api",
		Short:         "User account service",
		Long:          `accounts-api serves signup, login, logout and user management over HTTP.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&configDir, "config-dir", ".",
		"directory holding config.yaml and .env")

	load := func() (*config.Config, *slog.Logger, error) {
		cfg, err := config.LoadFrom(configDir)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
		}
		log, err := logger.Setup(logger.LoggerConfig{Level: cfg.Server.LogLevel})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to set up logger: %w", err)
		}
		return cfg, log, nil
	}

	cmd.AddCommand(newServeCmd(load))
	cmd.AddCommand(newMigrateCmd(load))
	cmd.AddCommand(newHashCmd())

	return cmd
}

type loadFunc func() (*config.Config, *slog.Logger, error)
