package main

import (
	"github.com/spf13/cobra"

	"github.com/Eik-Lab/studieveileder/internal/postgres"
)

func newMigrateCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Long: `Apply every embedded schema migration that has not run yet against
DATABASE_URL. Already applied migrations are left alone.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return postgres.Migrate(cmd.Context(), e.cfg.Database.DSN, e.log)
		},
	}
}
