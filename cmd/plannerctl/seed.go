package main

import (
	"github.com/spf13/cobra"

	"homeplanner/internal/logger"
	"homeplanner/internal/services"
)

func seedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert shared reference data",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "suggestions",
		Short: "Insert missing system item suggestions",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			m, err := openManager()
			if err != nil {
				return err
			}
			defer m.Close()

			created, err := services.NewSuggestionService(m.DB()).SeedSystemSuggestions(c.Context())
			if err != nil {
				return err
			}
			logger.Named("seed").Infow("system suggestions seeded", "created", created)
			return nil
		},
	})

	return cmd
}
