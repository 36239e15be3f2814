// Package cmd defines and implements the CLI commands for the rise-tracker
// executable.
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ymatsuda/rise-tracker/internal/config"
	"github.com/ymatsuda/rise-tracker/internal/logging"
)

// defaultConfigFile is picked up from the working directory when --config is
// not given.
const defaultConfigFile = "rise-tracker.yaml"

var cfgFile string

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rise-tracker",
		Short: "Keeps the Futako-Tamagawa Rise price comparison site up to date.",
		Long: `rise-tracker maintains a static comparison site for used condo listings
in the Futako-Tamagawa Rise towers. It scrapes the current listings, tracks
price history between runs, regenerates the site artifacts, and publishes
the result by committing and pushing the site repository.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		fmt.Sprintf("config file (default is ./%s when present)", defaultConfigFile))

	cmd.AddCommand(newUpdateCmd())
	cmd.AddCommand(newScrapeCmd())
	cmd.AddCommand(newServeCmd())

	return cmd
}

// Execute is the main entry point. Any command failure exits non-zero.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// loadConfig resolves and loads the configuration file.
func loadConfig() (config.Config, error) {
	path := cfgFile
	if path == "" {
		if _, err := os.Stat(defaultConfigFile); err == nil {
			path = defaultConfigFile
		}
	}
	return config.Load(path)
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	return logging.New(cfg.Logging.Development, cfg.Logging.Level)
}

// resolvePath anchors relative data paths at the site output directory.
func resolvePath(cfg config.Config, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(cfg.Site.OutputDir, path)
}
