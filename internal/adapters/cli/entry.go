package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/andrescamacho/entries-go/internal/application/entry/commands"
	"github.com/andrescamacho/entries-go/internal/application/entry/queries"
	"github.com/andrescamacho/entries-go/internal/application/logging"
	"github.com/andrescamacho/entries-go/internal/application/mediator"
)

// NewEntryCommand creates the entry command with subcommands
func NewEntryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "entry",
		Short: "Ledger entry operations",
		Long: `Create, list, update and delete ledger entries.

Commands are dispatched through the same mediator pipeline as the HTTP API,
so validation failures are reported with the same messages.

Examples:
  entries entry create --title Salary --amount 2500.75
  entries entry list --limit 10
  entries entry list --id 6f1c... --json
  entries entry update 6f1c... --title "Salary (net)"
  entries entry delete 6f1c...`,
	}

	// Add subcommands
	cmd.AddCommand(newEntryCreateCommand())
	cmd.AddCommand(newEntryListCommand())
	cmd.AddCommand(newEntryUpdateCommand())
	cmd.AddCommand(newEntryDeleteCommand())

	return cmd
}

func newEntryCreateCommand() *cobra.Command {
	var (
		title       string
		amount      string
		description string
		date        string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Record a new entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			command := &commands.CreateEntryCommand{
				Title:       title,
				Description: description,
			}

			var err error
			if command.Amount, err = decimal.NewFromString(amount); err != nil {
				return fmt.Errorf("invalid amount %q: %w", amount, err)
			}
			if date != "" {
				if command.Date, err = parseDate(date); err != nil {
					return err
				}
			}

			return withApp(cmd, func(ctx context.Context, m mediator.Sender, out io.Writer) error {
				result, err := mediator.Send(ctx, m, command)
				if err := checkResult(result, err); err != nil {
					return err
				}
				fmt.Fprintf(out, "✓ Entry created: %s\n", result.Data().ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Entry title (max 50 characters) [required]")
	cmd.Flags().StringVar(&amount, "amount", "", "Amount, greater than 0 [required]")
	cmd.Flags().StringVar(&description, "description", "", "Optional description (max 500 characters)")
	cmd.Flags().StringVar(&date, "date", "", "Date (YYYY-MM-DD or RFC3339, default now)")
	cmd.MarkFlagRequired("title")
	cmd.MarkFlagRequired("amount")

	return cmd
}

func newEntryListCommand() *cobra.Command {
	var (
		id      string
		limit   int
		offset  int
		jsonOut bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List entries, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			query := &queries.GetEntriesQuery{Limit: limit, Offset: offset}
			if id != "" {
				query.ID = &id
			}

			return withApp(cmd, func(ctx context.Context, m mediator.Sender, out io.Writer) error {
				result, err := mediator.Send(ctx, m, query)
				if err := checkResult(result, err); err != nil {
					return err
				}
				if jsonOut {
					return jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(out).Encode(result.Data())
				}
				displayEntryList(out, result.Data())
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Only show the entry with this ID")
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum number of entries to return")
	cmd.Flags().IntVar(&offset, "offset", 0, "Number of entries to skip")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print entries as JSON")

	return cmd
}

func newEntryUpdateCommand() *cobra.Command {
	var (
		title       string
		amount      string
		description string
		date        string
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update fields of an entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			command := &commands.UpdateEntryCommand{ID: args[0]}
			flags := cmd.Flags()

			if flags.Changed("title") {
				command.Title = &title
			}
			if flags.Changed("description") {
				command.Description = &description
			}
			if flags.Changed("amount") {
				parsed, err := decimal.NewFromString(amount)
				if err != nil {
					return fmt.Errorf("invalid amount %q: %w", amount, err)
				}
				command.Amount = &parsed
			}
			if flags.Changed("date") {
				parsed, err := parseDate(date)
				if err != nil {
					return err
				}
				command.Date = &parsed
			}

			return withApp(cmd, func(ctx context.Context, m mediator.Sender, out io.Writer) error {
				result, err := mediator.Send(ctx, m, command)
				if err := checkResult(result, err); err != nil {
					return err
				}
				fmt.Fprintf(out, "✓ Entry updated (%d row(s) affected)\n", result.Data().RowsAffected)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&amount, "amount", "", "New amount")
	cmd.Flags().StringVar(&description, "description", "", "New description (empty clears it)")
	cmd.Flags().StringVar(&date, "date", "", "New date (YYYY-MM-DD or RFC3339)")

	return cmd
}

func newEntryDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			command := &commands.DeleteEntryCommand{ID: args[0]}

			return withApp(cmd, func(ctx context.Context, m mediator.Sender, out io.Writer) error {
				result, err := mediator.Send(ctx, m, command)
				if err := checkResult(result, err); err != nil {
					return err
				}
				fmt.Fprintf(out, "✓ Entry deleted (%d row(s) affected)\n", result.Data().RowsAffected)
				return nil
			})
		},
	}
}

// withApp wires the application for a single CLI invocation
func withApp(cmd *cobra.Command, run func(ctx context.Context, m mediator.Sender, out io.Writer) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger := newCLILogger()
	a, err := newApp(cmd.Context(), cfg, logger, appOptions{})
	if err != nil {
		return err
	}
	defer a.close()

	ctx := logging.WithLogger(cmd.Context(), logger)
	return run(ctx, a.mediator, cmd.OutOrStdout())
}

// checkResult turns a dispatch error or a failure envelope into a command error
func checkResult(result mediator.Envelope, err error) error {
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	if !result.IsSuccess() {
		return fmt.Errorf("request failed with status %d: %s",
			result.StatusCode(), strings.Join(result.Errors(), "; "))
	}
	return nil
}

func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: use YYYY-MM-DD or RFC3339", raw)
	}
	return t, nil
}

// displayEntryList formats entries as a table
func displayEntryList(out io.Writer, entries []queries.EntryDTO) {
	if len(entries) == 0 {
		fmt.Fprintln(out, "No entries found")
		return
	}

	fmt.Fprintf(out, "\nENTRIES (%d)\n", len(entries))
	fmt.Fprintln(out, "─────────────────────────────────────────────────────────────────────────────")

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Date\tID\tTitle\tAmount\tDescription")
	fmt.Fprintln(w, "────\t──\t─────\t──────\t───────────")

	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			e.Date.Format("2006-01-02 15:04:05"),
			e.ID,
			e.Title,
			e.Amount.StringFixed(2),
			e.Description,
		)
	}

	w.Flush()
	fmt.Fprintln(out, "─────────────────────────────────────────────────────────────────────────────")
}
