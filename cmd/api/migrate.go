package main

import (
	"fmt"

	pg "pet-shop-api/internal/adapters/storage/postgres"
	"pet-shop-api/internal/platform/config"

	"github.com/spf13/cobra"
)

func newMigrateCommand() *cobra.Command {
	v := config.New()

	return &cobra.Command{
		Use:   "migrate",
		Short: "Aplica las migraciones pendientes en Postgres",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.FromViper(v)
			if err != nil {
				return err
			}
			if cfg.DB.Driver != config.DriverPostgres {
				return fmt.Errorf("migrate requires DB_DRIVER=%s, got %q", config.DriverPostgres, cfg.DB.Driver)
			}

			log := newLogger(cfg)
			db, err := pg.Open(cfg.DB.PostgresDSN())
			if err != nil {
				return fmt.Errorf("open postgres: %w", err)
			}
			defer db.Close()

			n, err := pg.NewMigrator(db, log).Up(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "applied %d migration(s)\n", n)
			return nil
		},
	}
}
