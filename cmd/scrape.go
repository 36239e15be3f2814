package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ymatsuda/rise-tracker/internal/metrics"
)

// newScrapeCmd creates the 'scrape' subcommand: refresh data without any
// repository operations.
func newScrapeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scrape",
		Short: "Refreshes the listing data and site artifacts only",
		Long: `Runs the in-process scrape pipeline: discover listings, record price
history, and regenerate the site artifacts. Nothing is committed or pushed;
use 'update' for the full publish flow.`,
		RunE: runScrapeCommand,
	}
}

func runScrapeCommand(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	metrics.Init()

	p, err := buildPipeline(cfg, logger)
	if err != nil {
		return err
	}
	return p.Run(cmd.Context())
}
