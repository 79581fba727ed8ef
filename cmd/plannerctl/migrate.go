package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"homeplanner/internal/logger"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			m, err := openManager()
			if err != nil {
				return err
			}
			defer m.Close()
			return m.RunMigrations(migrationsPath)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down [N]",
		Short: "Roll back the last N migrations (default 1)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			steps := 1
			if len(args) == 1 {
				n, err := strconv.Atoi(args[0])
				if err != nil || n <= 0 {
					return fmt.Errorf("invalid step count %q", args[0])
				}
				steps = n
			}
			m, err := openManager()
			if err != nil {
				return err
			}
			defer m.Close()
			return m.RollbackMigrations(migrationsPath, steps)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			m, err := openManager()
			if err != nil {
				return err
			}
			defer m.Close()
			version, dirty, err := m.MigrationVersion(migrationsPath)
			if err != nil {
				return err
			}
			logger.Named("migrate").Infow("schema version", "version", version, "dirty", dirty)
			return nil
		},
	})

	return cmd
}
