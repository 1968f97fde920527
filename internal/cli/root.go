// Package cli implements the lifelab command-line interface.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/lifelab-app/lifelab/internal/daemon"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "lifelab",
	Short: "LifeLab personal tracking daemon and CLI",
	Long: `LifeLab tracks daily activity across configurable life domains,
derives monthly notebooks and insights from it, and keeps an optional
win ledger. Data lives in a local store; an authenticated sync service
can mirror it across devices.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"path to config.toml (default ~/.lifelab/config.toml)")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the configured or default config file.
func loadConfig() (daemon.Config, error) {
	path := configPath
	if path == "" {
		path = filepath.Join(daemon.DefaultDataDir(), "config.toml")
	}
	cfg, err := daemon.LoadConfig(path)
	if err != nil {
		return cfg, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}
