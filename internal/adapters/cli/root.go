package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	configPath string
	verbose    bool
)

// NewRootCommand creates the root command for the CLI
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "entries",
		Short: "Entries service - financial ledger entries over a CQRS mediator",
		Long: `Entries records financial ledger entries (title, amount, description, date).

Every operation is dispatched through the same in-process mediator pipeline,
whether it arrives over HTTP or from this CLI.

Examples:
  entries serve
  entries migrate
  entries config show
  entries entry create --title Rent --amount 1200 --date 2024-05-01
  entries entry list --limit 20
  entries entry update <id> --amount 1250
  entries entry delete <id>`,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to config file (default: ./config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable verbose output")

	// Add command groups
	rootCmd.AddCommand(NewServeCommand())
	rootCmd.AddCommand(NewMigrateCommand())
	rootCmd.AddCommand(NewConfigCommand())
	rootCmd.AddCommand(NewEntryCommand())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
