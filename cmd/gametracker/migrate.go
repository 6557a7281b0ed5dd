package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aimd54/gametracker/internal/config"
	"github.com/aimd54/gametracker/internal/repository"
)

func newMigrateCommand(cfgFile *string) *cobra.Command {
	var list bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the PostgreSQL schema migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if list {
				files, err := repository.MigrationFiles()
				if err != nil {
					return err
				}
				for _, f := range files {
					fmt.Fprintln(cmd.OutOrStdout(), f)
				}
				return nil
			}

			cfg, log, err := loadConfig(*cfgFile)
			if err != nil {
				return err
			}
			if cfg.Database.Driver != config.DriverPostgres {
				return fmt.Errorf("migrations only apply to the %s driver, got %q", config.DriverPostgres, cfg.Database.Driver)
			}

			db, err := repository.NewDB(&cfg.Database.Postgres, log)
			if err != nil {
				return err
			}
			defer db.Close()

			version, err := db.RunMigrations()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schema at version %d\n", version)
			return nil
		},
	}
	cmd.Flags().BoolVar(&list, "list", false, "list the embedded migration files and exit")
	return cmd
}
