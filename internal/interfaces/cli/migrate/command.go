// Package migrate implements the migrate command: applying the schema to
// the local store without starting the server.
package migrate

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/slatepos/slate/internal/infrastructure/config"
	"github.com/slatepos/slate/internal/infrastructure/database"
	"github.com/slatepos/slate/internal/infrastructure/migration"
	"github.com/slatepos/slate/internal/shared/logger"
)

var configPath string

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		RunE:  run,
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to the config directory")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := logger.Init(&cfg.Logger); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := database.Init(&cfg.Database); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	if err := migration.Run(database.Get()); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	logger.Info("schema applied", "database", cfg.Database.Path)
	return nil
}
