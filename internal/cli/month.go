package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/lifelab-app/lifelab/internal/domain"
	"github.com/lifelab-app/lifelab/internal/insight"
)

func init() {
	rootCmd.AddCommand(monthCmd)
}

var monthCmd = &cobra.Command{
	Use:   "month [YYYY-MM]",
	Short: "Show a month's notebook and insight",
	Long: `Sync the month's notebook from the entry stores, then print the
per-day activity signal and the derived observations. Defaults to the
current month.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMonth,
}

func runMonth(cmd *cobra.Command, args []string) error {
	now := time.Now()
	year, month := now.Year(), int(now.Month())
	if len(args) == 1 {
		t, err := time.Parse("2006-01", args[0])
		if err != nil {
			return fmt.Errorf("invalid month %q, want YYYY-MM", args[0])
		}
		year, month = t.Year(), int(t.Month())
	}

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

	nb, err := a.notebooks.SyncMonth(ctx, year, month)
	if err != nil {
		return fmt.Errorf("sync %04d-%02d: %w", year, month, err)
	}
	in := insight.Build(nb)

	fmt.Fprintf(os.Stdout, "Notebook %04d-%02d", year, month)
	if nb.Closed {
		fmt.Fprint(os.Stdout, " (closed)")
	}
	fmt.Fprintln(os.Stdout)

	for i, day := range in.Days {
		if in.SignalArray[i] == 0 {
			continue
		}
		d, _ := nb.Day(day)
		fmt.Fprintf(os.Stdout, "  day %2d  %s", day, strings.Join(d.Domains, ", "))
		if d.Outcome != "" {
			fmt.Fprintf(os.Stdout, "  [%s]", d.Outcome)
		}
		fmt.Fprintln(os.Stdout)
	}

	if len(in.Observations) > 0 {
		fmt.Fprintln(os.Stdout, "\nObservations:")
		for _, o := range in.Observations {
			fmt.Fprintf(os.Stdout, "  • %s\n", o)
		}
	}
	if nb.Reflection != "" {
		fmt.Fprintf(os.Stdout, "\nReflection:\n  %s\n", nb.Reflection)
	}
	return nil
}

// reflectCmd writes a monthly reflection from the command line. Unlike the
// HTTP surface there is no typing to debounce, so it flushes immediately.
var reflectCmd = &cobra.Command{
	Use:   "reflect YYYY-MM TEXT...",
	Short: "Set a month's reflection",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runReflect,
}

func init() {
	rootCmd.AddCommand(reflectCmd)
}

func runReflect(cmd *cobra.Command, args []string) error {
	t, err := time.Parse("2006-01", args[0])
	if err != nil {
		return fmt.Errorf("invalid month %q, want YYYY-MM", args[0])
	}

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

	a.notebooks.SetReflection(t.Year(), int(t.Month()), strings.Join(args[1:], " "))
	if err := a.notebooks.FlushReflection(ctx); err != nil {
		if errors.Is(err, domain.ErrNotebookClosed) {
			return fmt.Errorf("notebook %s is closed; reopen it first", args[0])
		}
		return err
	}
	fmt.Fprintf(os.Stdout, "Reflection saved for %s.\n", args[0])
	return nil
}
