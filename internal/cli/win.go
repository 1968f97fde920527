package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/lifelab-app/lifelab/internal/domain"
)

func init() {
	rootCmd.AddCommand(winCmd)
	rootCmd.AddCommand(winsCmd)
}

var winCmd = &cobra.Command{
	Use:   "win [DATE] TEXT...",
	Short: "Record the day's win",
	Long: `Record one win for a date (default today). Each date holds at most
one win; recording a second for the same date changes nothing.

  lifelab win "Shipped the release"
  lifelab win 2026-08-20 "Gave the talk"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWin,
}

func runWin(cmd *cobra.Command, args []string) error {
	date := time.Now().Format(time.DateOnly)
	text := args
	if _, err := time.Parse(time.DateOnly, args[0]); err == nil {
		if len(args) < 2 {
			return fmt.Errorf("win text required")
		}
		date, text = args[0], args[1:]
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

	w, err := a.wins.Save(ctx, date, strings.Join(text, " "))
	if errors.Is(err, domain.ErrWinExists) {
		existing, _ := a.wins.ByDate(ctx, date)
		fmt.Fprintf(os.Stdout, "%s already has a win: %s\n", date, existing.Text)
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Win recorded for %s: %s\n", w.Date, w.Text)
	return nil
}

var winsCmd = &cobra.Command{
	Use:   "wins",
	Short: "List recorded wins and their counts",
	Args:  cobra.NoArgs,
	RunE:  runWins,
}

func runWins(cmd *cobra.Command, args []string) error {
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

	all := a.wins.All(ctx)
	if len(all) == 0 {
		fmt.Fprintln(os.Stdout, "No wins recorded yet.")
		return nil
	}
	for _, w := range all {
		fmt.Fprintf(os.Stdout, "  %s  %s\n", w.Date, w.Text)
	}

	stats := a.wins.Stats(ctx)
	fmt.Fprintf(os.Stdout, "\n%d total, %d this year, %d this month\n",
		stats.Total, stats.ThisYear, stats.ThisMonth)
	return nil
}
