package cmd

import (
	"fmt"

	"feedmark/core/config"
	"feedmark/core/logger"
	"feedmark/core/state"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// migrateCmd upgrades stored cursors to the current schema.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Upgrade stored cursors to the current schema",
	Long: `Rewrites cursors stored by older releases in the current layout.

Legacy records holding a single "last post" id become cursors whose goal post
is that id. Running it on an up to date store is a no-op.`,
	RunE: runMigrate,
}

func init() {
	RootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer l.Sync()

	repo, err := openRepository(cmd.Context(), cfg, l, false)
	if err != nil {
		return err
	}

	before, err := repo.Version(cmd.Context())
	if err != nil {
		return err
	}
	if err := repo.Migrate(cmd.Context()); err != nil {
		return err
	}

	l.Info("Cursor schema up to date",
		zap.Int("from_version", before),
		zap.Int("version", state.SchemaVersion),
	)
	return nil
}
