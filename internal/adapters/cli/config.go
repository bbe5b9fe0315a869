package cli

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/entries-go/internal/infrastructure/config"
)

// NewConfigCommand creates the config command with subcommands
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration settings",
		Long: `Inspect entries configuration settings.

Configuration is loaded from multiple sources with priority:
1. Environment variables (ENTRIES_* prefix, DATABASE_URL)
2. Config file (config.yaml)
3. Default values

Examples:
  entries config show
  entries config show --config ./configs/config.yaml`,
	}

	// Add subcommands
	cmd.AddCommand(newConfigShowCommand())

	return cmd
}

// newConfigShowCommand creates the config show subcommand
func newConfigShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long: `Display the effective configuration settings.

Passwords in database URLs are masked.

Example:
  entries config show`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				fmt.Fprintf(out, "Warning: Failed to load config: %v\n", err)
				fmt.Fprintln(out, "Using default configuration.")
				cfg = config.LoadConfigOrDefault(configPath)
			}

			displayConfig(out, cfg)
			return nil
		},
	}

	return cmd
}

func displayConfig(out io.Writer, cfg *config.Config) {
	fmt.Fprintln(out, "Entries Configuration")
	fmt.Fprintln(out, "=====================")

	fmt.Fprintln(out, "\nDatabase:")
	fmt.Fprintf(out, "  Type:             %s\n", cfg.Database.Type)
	fmt.Fprintf(out, "  Driver:           %s\n", cfg.Database.Driver)
	switch {
	case cfg.Database.Type == "sqlite":
		fmt.Fprintf(out, "  Path:             %s\n", sqliteDisplayPath(cfg.Database.Path))
	case cfg.Database.URL != "":
		fmt.Fprintf(out, "  URL:              %s\n", maskPassword(cfg.Database.URL))
	default:
		fmt.Fprintf(out, "  Host:             %s\n", cfg.Database.Host)
		fmt.Fprintf(out, "  Port:             %d\n", cfg.Database.Port)
		fmt.Fprintf(out, "  Database:         %s\n", cfg.Database.Name)
		fmt.Fprintf(out, "  User:             %s\n", cfg.Database.User)
	}
	fmt.Fprintf(out, "  Max Connections:  %d\n", cfg.Database.Pool.MaxOpen)

	fmt.Fprintln(out, "\nServer:")
	fmt.Fprintf(out, "  Address:          %s\n", cfg.Server.Address)
	fmt.Fprintf(out, "  Base URL:         %s\n", cfg.Server.BaseURL)
	fmt.Fprintf(out, "  Rate Limit:       %d req/s (burst: %d)\n",
		cfg.Server.RateLimit.Requests, cfg.Server.RateLimit.Burst)
	fmt.Fprintf(out, "  Shutdown Timeout: %s\n", cfg.Server.ShutdownTimeout)
	if cfg.Server.PIDFile != "" {
		fmt.Fprintf(out, "  PID File:         %s\n", cfg.Server.PIDFile)
	}

	fmt.Fprintln(out, "\nMediator:")
	fmt.Fprintf(out, "  Duplicates:       %s\n", cfg.Mediator.DuplicatePolicy)

	fmt.Fprintln(out, "\nObservability:")
	fmt.Fprintf(out, "  Metrics:          %t (%s)\n", cfg.Metrics.Enabled, cfg.Metrics.Path)
	fmt.Fprintf(out, "  Tracing:          %t\n", cfg.Tracing.Enabled)
	if cfg.Tracing.Enabled {
		fmt.Fprintf(out, "  OTLP Endpoint:    %s\n", cfg.Tracing.Endpoint)
	}

	fmt.Fprintln(out, "\nLogging:")
	fmt.Fprintf(out, "  Level:            %s\n", cfg.Logging.Level)
	fmt.Fprintf(out, "  Format:           %s\n", cfg.Logging.Format)
	fmt.Fprintf(out, "  Output:           %s\n", cfg.Logging.Output)
}

// maskPassword hides the password of a connection URL
func maskPassword(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	password, ok := u.User.Password()
	if !ok || password == "" {
		return raw
	}
	return strings.Replace(raw, ":"+password+"@", ":****@", 1)
}

func sqliteDisplayPath(path string) string {
	if path == "" {
		return ":memory:"
	}
	return path
}
