package main

import (
	"fmt"
	"time"

	"github.com/phrazzld/accounts-api/internal/platform/postgres"
	"github.com/spf13/cobra"
)

func newMigrateCmd(load loadFunc) *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down|status|version|reset]",
		Short:     "Run database migrations",
		Long:      `Apply, roll back or inspect the embedded schema migrations.`,
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down", "status", "version", "reset"},
		RunE: func(cmd *cobra.Command, args []string) error {
			command := "up"
			if len(args) == 1 {
				command = args[0]
			}

			cfg, log, err := load()
			if err != nil {
				return err
			}
			if cfg.Database.Driver != "postgres" {
				return fmt.Errorf("migrations require the postgres driver, got %q", cfg.Database.Driver)
			}

			pool, err := postgres.Connect(cmd.Context(), postgres.PoolConfig{
				URL:      cfg.Database.URL,
				MaxConns: 2,
				Attempts: cfg.Database.ConnectAttempts,
				Backoff:  500 * time.Millisecond,
			}, log)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer pool.Close()

			if err := postgres.Migrate(cmd.Context(), pool, command, log); err != nil {
				return err
			}
			cmd.Printf("migrate %s completed\n", command)
			return nil
		},
	}
}
