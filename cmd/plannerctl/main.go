// Command plannerctl runs operator tasks against the planner database:
// schema migrations and seeding of shared data.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"homeplanner/internal/config"
	"homeplanner/internal/database"
	"homeplanner/internal/logger"
)

var migrationsPath string

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "plannerctl",
		Short:         "Home planner operator tool",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			logger.Init(config.Get().Env)
		},
	}

	cmd.PersistentFlags().StringVar(&migrationsPath, "migrations", database.DefaultMigrationsPath,
		"migration source URL")

	cmd.AddCommand(migrateCmd())
	cmd.AddCommand(seedCmd())
	return cmd
}

// openManager connects to the configured database.
func openManager() (*database.Manager, error) {
	m, err := database.NewManager(database.NewConfig(config.Get()))
	if err != nil {
		return nil, fmt.Errorf("failed to create database manager: %w", err)
	}
	return m, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd().ExecuteContext(ctx)
	stop()
	logger.Sync()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
