package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/slatepos/slate/internal/interfaces/cli/migrate"
	"github.com/slatepos/slate/internal/interfaces/cli/serve"
	"github.com/slatepos/slate/internal/interfaces/cli/syncrun"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "slate",
		Short: "Slate - offline-first point of sale device",
		Long:  `Slate runs a POS, kitchen display, queue display or kiosk on this device, with a local store that syncs to the backend when reachable.`,
	}

	rootCmd.AddCommand(
		serve.NewCommand(),
		syncrun.NewCommand(),
		migrate.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
