// Package syncrun implements the sync command: a one-shot catalog pull and
// ticket/workday push without starting the server.
package syncrun

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	syncApp "github.com/slatepos/slate/internal/application/sync"
	"github.com/slatepos/slate/internal/infrastructure/config"
	"github.com/slatepos/slate/internal/infrastructure/connectivity"
	"github.com/slatepos/slate/internal/infrastructure/database"
	"github.com/slatepos/slate/internal/infrastructure/migration"
	"github.com/slatepos/slate/internal/infrastructure/remote"
	"github.com/slatepos/slate/internal/infrastructure/repository"
	"github.com/slatepos/slate/internal/shared/logger"
)

var (
	configPath  string
	pullCatalog bool
	pushRecords bool
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Run a one-shot sync against the backend",
		RunE:  run,
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to the config directory")
	cmd.Flags().BoolVar(&pullCatalog, "pull", false, "Pull the catalog")
	cmd.Flags().BoolVar(&pushRecords, "push", true, "Push pending tickets and workdays")

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
	log := logger.NewLogger()

	if err := database.Init(&cfg.Database); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	db := database.Get()
	if err := migration.Run(db); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	syncSvc := syncApp.NewService(
		repository.NewTicketRepository(db),
		repository.NewWorkdayRepository(db),
		repository.NewCatalogRepository(db),
		repository.NewAppStateRepository(db),
		remote.NewClient(cfg.Backend, log),
		connectivity.NewChecker(cfg.Backend, log),
		log,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if !syncSvc.IsOnline(ctx) {
		return fmt.Errorf("backend is not reachable")
	}

	if pullCatalog {
		result, err := syncSvc.PullCatalog(ctx)
		if err != nil {
			return fmt.Errorf("catalog pull failed: %w", err)
		}
		log.Infow("catalog pulled", "imported", result.Imported.Total())
	}

	if pushRecords {
		tickets, workdays, err := syncSvc.PushAll(ctx)
		if err != nil {
			return fmt.Errorf("push failed: %w", err)
		}
		log.Infow("push finished",
			"tickets_synced", len(tickets.Synced),
			"tickets_failed", len(tickets.Failed),
			"workdays_synced", len(workdays.Synced),
			"workdays_failed", len(workdays.Failed),
		)
	}

	return nil
}
