package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/littlelemon/internal/config"
	"github.com/example/littlelemon/internal/db"
	"github.com/example/littlelemon/internal/migrate"
	"github.com/example/littlelemon/internal/storage/sqlite"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply schema migrations for the postgres or sqlite backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.StorageFromEnv()
			if err != nil {
				return err
			}
			logger := newLogger(cmd.ErrOrStderr(), cfg)
			ctx := context.Background()
			out := cmd.OutOrStdout()

			switch cfg.Backend {
			case config.BackendPostgres:
				d, err := db.Open(ctx, cfg.DatabaseURL)
				if err != nil {
					return err
				}
				defer d.Close()
				applied, err := migrate.Up(ctx, d, logger)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "applied %d migration(s)\n", len(applied))
				return nil
			case config.BackendSQLite:
				// Open migrates.
				store, err := sqlite.Open(cfg.SQLitePath, cfg.Location())
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "sqlite schema ready at %s\n", cfg.SQLitePath)
				return store.Close()
			default:
				return fmt.Errorf("backend %q has no schema", cfg.Backend)
			}
		},
	}
}
