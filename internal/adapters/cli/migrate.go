package cli

import (
	"github.com/spf13/cobra"
)

// NewMigrateCommand creates the migrate command
func NewMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the entries schema",
		Long: `Create or update the entries table.

The gorm driver uses AutoMigrate; the sqlx driver runs its own DDL.

Example:
  entries migrate`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return migrateDatabase(cmd.Context(), &cfg.Database, cmd.OutOrStdout())
		},
	}
}
