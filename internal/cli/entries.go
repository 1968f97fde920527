package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/lifelab-app/lifelab/internal/domain"
)

func init() {
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(entriesCmd)
	logCmd.Flags().StringP("notes", "n", "", "optional notes attached to the entry")
}

var logCmd = &cobra.Command{
	Use:   "log DOMAIN VALUE...",
	Short: "Log an activity entry in a life domain",
	Long: `Record what you did in a domain, e.g.

  lifelab log habits "Morning run"
  lifelab log learning "Read two chapters" -n "distributed systems book"

The entry is timestamped now and feeds the month's notebook on the next sync.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runLog,
}

func runLog(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.close(ctx)

	domainID := args[0]
	if !a.settings.Has(ctx, domainID) {
		return fmt.Errorf("%w: %q (configured: %s)",
			domain.ErrUnknownDomain, domainID, strings.Join(a.settings.Domains(ctx), ", "))
	}

	notes, _ := cmd.Flags().GetString("notes")
	e, err := a.entries.Add(ctx, domainID, strings.Join(args[1:], " "), notes)
	if err != nil {
		return err
	}

	day := e.Day()
	fmt.Fprintf(os.Stdout, "Logged in %s on %s: %s\n", domainID, day.Format(time.DateOnly), e.Value)
	return nil
}

var entriesCmd = &cobra.Command{
	Use:   "entries DOMAIN",
	Short: "List the entries recorded in a domain",
	Args:  cobra.ExactArgs(1),
	RunE:  runEntries,
}

func runEntries(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.close(ctx)

	domainID := args[0]
	list := a.entries.List(ctx, domainID)
	if len(list) == 0 {
		fmt.Fprintf(os.Stdout, "No entries in %s yet.\n", domainID)
		return nil
	}

	fmt.Fprintf(os.Stdout, "%s (%d entries):\n", domainID, len(list))
	for _, e := range list {
		fmt.Fprintf(os.Stdout, "  %s  %s", e.Day().Format(time.DateOnly), e.Value)
		if e.Notes != "" {
			fmt.Fprintf(os.Stdout, "  (%s)", e.Notes)
		}
		fmt.Fprintln(os.Stdout)
	}
	return nil
}
