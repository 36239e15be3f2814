package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ymatsuda/rise-tracker/internal/clock/system"
	"github.com/ymatsuda/rise-tracker/internal/config"
	"github.com/ymatsuda/rise-tracker/internal/gitrepo"
	"github.com/ymatsuda/rise-tracker/internal/metrics"
	"github.com/ymatsuda/rise-tracker/internal/pipeline"
	"github.com/ymatsuda/rise-tracker/internal/scrape"
	"github.com/ymatsuda/rise-tracker/internal/site"
	"github.com/ymatsuda/rise-tracker/internal/tracker"
	"github.com/ymatsuda/rise-tracker/internal/update"
)

// newUpdateCmd creates the 'update' subcommand: pull, scrape, commit, push.
func newUpdateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "update",
		Short: "Runs the full site update pipeline",
		Long: `Pulls the latest repository state, refreshes the listing data, and
publishes whatever changed: stage everything, commit with a timestamped
message when the staged diff is non-empty, and push. The first failing step
aborts the run; repository conflicts are left for the operator to resolve.`,
		RunE: runUpdateCommand,
	}
}

func runUpdateCommand(cmd *cobra.Command, _ []string) error {
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
	ctx := cmd.Context()

	repo, err := gitrepo.Open(ctx, cfg.Repo.Path, gitrepo.WithGitBinary(cfg.Repo.GitBinary))
	if err != nil {
		return fmt.Errorf("open repository: %w", err)
	}

	scraper, err := buildScraper(cfg, logger)
	if err != nil {
		return err
	}

	orchestrator := update.New(repo, scraper, system.New(), logger, cfg.Repo.Remote, cfg.Repo.Branch)
	if err := orchestrator.Run(ctx); err != nil {
		logger.Error("Update pipeline failed", zap.Error(err))
		return err
	}
	return nil
}

// buildScraper picks the scraper step implementation: a configured external
// command, or the in-process scrape pipeline.
func buildScraper(cfg config.Config, logger *zap.Logger) (update.Scraper, error) {
	if cfg.Scraper.Command != "" {
		logger.Info("Using external scraper command", zap.String("command", cfg.Scraper.Command))
		return update.NewCommandScraper(cfg.Scraper.Command, cfg.Repo.Path), nil
	}
	return buildPipeline(cfg, logger)
}

// buildPipeline wires the in-process scrape → track → generate pipeline.
func buildPipeline(cfg config.Config, logger *zap.Logger) (*pipeline.Pipeline, error) {
	fetcher, err := scrape.NewCollyFetcher(cfg.Scraper.UserAgent, cfg.RequestTimeout(), logger)
	if err != nil {
		return nil, fmt.Errorf("init fetcher: %w", err)
	}

	service := scrape.NewService(fetcher, scrape.Config{
		Seeds:         cfg.Scraper.Seeds,
		ManualURLs:    cfg.Scraper.ManualURLs,
		AutoDiscover:  cfg.Scraper.AutoDiscover,
		MinArea:       cfg.Scraper.MinArea,
		MaxArea:       cfg.Scraper.MaxArea,
		FetchDelay:    cfg.FetchDelay(),
		DiscoverDelay: cfg.DiscoverDelay(),
		MaxPages:      cfg.Scraper.MaxDiscoveredPages,
	}, logger)

	store := tracker.New(
		resolvePath(cfg, cfg.Site.TrackerFile),
		resolvePath(cfg, cfg.Site.HistoryDir),
		logger,
	)
	generator := site.NewGenerator(cfg.Site.OutputDir, logger)

	return pipeline.New(service, store, generator, cfg.Site.OutputDir, system.New(), logger), nil
}
