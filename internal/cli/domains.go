package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(domainsCmd)
	domainsCmd.Flags().String("set", "", "comma-separated list replacing the configured domains")
}

var domainsCmd = &cobra.Command{
	Use:   "domains",
	Short: "Show or change the configured life domains",
	Long: `Without flags, list the configured life domains. With --set, replace
them:

  lifelab domains --set habits,learning,music

Entries already logged in a removed domain stay stored; they simply stop
feeding new notebook syncs until the domain returns.`,
	Args: cobra.NoArgs,
	RunE: runDomains,
}

func runDomains(cmd *cobra.Command, args []string) error {
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

	if set, _ := cmd.Flags().GetString("set"); set != "" {
		var domains []string
		for _, d := range strings.Split(set, ",") {
			if d = strings.TrimSpace(d); d != "" {
				domains = append(domains, d)
			}
		}
		if len(domains) == 0 {
			return fmt.Errorf("at least one domain required")
		}
		if err := a.settings.SetDomains(ctx, domains); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Domains set: %s\n", strings.Join(domains, ", "))
		return nil
	}

	for _, d := range a.settings.Domains(ctx) {
		fmt.Fprintf(os.Stdout, "  • %s\n", d)
	}
	return nil
}
