// Package update runs the site refresh pipeline: pull the repository, run the
// scraper, and commit and push whatever changed. Each step gates the next;
// the first failure aborts the whole run with no rollback or retry.
package update

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ymatsuda/rise-tracker/internal/metrics"
)

// Repository is the slice of git operations the pipeline needs.
type Repository interface {
	Pull(ctx context.Context, remote, branch string) error
	StatusShort(ctx context.Context) (string, error)
	StageAll(ctx context.Context) error
	HasStagedChanges(ctx context.Context) (bool, error)
	Commit(ctx context.Context, message string) error
	Push(ctx context.Context, remote, branch string) error
}

// Scraper refreshes the data files in the working directory. The pipeline
// only observes its error; what it wrote is opaque here.
type Scraper interface {
	Scrape(ctx context.Context) error
}

// Clock returns the current time (useful for testing).
type Clock interface {
	Now() time.Time
}

// Orchestrator executes the five pipeline steps in order.
type Orchestrator struct {
	repo    Repository
	scraper Scraper
	clock   Clock
	logger  *zap.Logger
	remote  string
	branch  string
}

// New wires an Orchestrator from its collaborators.
func New(repo Repository, scraper Scraper, clock Clock, logger *zap.Logger, remote, branch string) *Orchestrator {
	return &Orchestrator{
		repo:    repo,
		scraper: scraper,
		clock:   clock,
		logger:  logger,
		remote:  remote,
		branch:  branch,
	}
}

// Run executes the pipeline once. It returns a *StepError naming the step
// that aborted the run, or nil on full success. Side effects are ordered and
// irreversible; nothing is cleaned up on failure.
func (o *Orchestrator) Run(ctx context.Context) error {
	logger := o.logger.With(zap.String("run_id", uuid.NewString()))

	if err := o.run(ctx, logger); err != nil {
		metrics.RecordUpdateRun("failed")
		return err
	}
	metrics.RecordUpdateRun("succeeded")
	metrics.SetLastUpdate(o.clock.Now())
	return nil
}

func (o *Orchestrator) run(ctx context.Context, logger *zap.Logger) error {
	logger.Info("Pulling latest state from remote",
		zap.String("remote", o.remote),
		zap.String("branch", o.branch))
	if err := o.repo.Pull(ctx, o.remote, o.branch); err != nil {
		logger.Error("Pull failed; resolve the repository state manually", zap.Error(err))
		return &StepError{Step: StepFetchLatest, Err: fmt.Errorf("%w: %w", ErrSyncFailed, err)}
	}

	logger.Info("Running scraper")
	if err := o.scraper.Scrape(ctx); err != nil {
		logger.Error("Scraper failed", zap.Error(err))
		return &StepError{Step: StepRunScraper, Err: fmt.Errorf("%w: %w", ErrScrapeFailed, err)}
	}

	// Informational only; a status failure never aborts the run.
	if status, err := o.repo.StatusShort(ctx); err != nil {
		logger.Warn("Could not inspect working tree", zap.Error(err))
	} else if status == "" {
		logger.Info("Working tree is clean")
	} else {
		logger.Info("Working tree changes", zap.String("status", status))
	}

	committed, err := o.commitIfChanged(ctx, logger)
	if err != nil {
		return err
	}

	logger.Info("Pushing to remote",
		zap.String("remote", o.remote),
		zap.String("branch", o.branch),
		zap.Bool("new_commit", committed))
	if err := o.repo.Push(ctx, o.remote, o.branch); err != nil {
		logger.Error("Push failed; resolve the repository state manually", zap.Error(err))
		return &StepError{Step: StepPublishRemote, Err: fmt.Errorf("%w: %w", ErrPublishFailed, err)}
	}

	logger.Info("Update pipeline finished")
	return nil
}

// commitIfChanged stages everything and commits only when the staged diff is
// non-empty, so repeated runs with no new data never produce empty commits.
func (o *Orchestrator) commitIfChanged(ctx context.Context, logger *zap.Logger) (bool, error) {
	if err := o.repo.StageAll(ctx); err != nil {
		return false, &StepError{Step: StepCommit, Err: fmt.Errorf("%w: %w", ErrCommitFailed, err)}
	}

	changed, err := o.repo.HasStagedChanges(ctx)
	if err != nil {
		return false, &StepError{Step: StepCommit, Err: fmt.Errorf("%w: %w", ErrCommitFailed, err)}
	}
	if !changed {
		logger.Info("No changes to commit")
		return false, nil
	}

	message := CommitMessage(o.clock.Now())
	logger.Info("Committing", zap.String("message", message))
	if err := o.repo.Commit(ctx, message); err != nil {
		return false, &StepError{Step: StepCommit, Err: fmt.Errorf("%w: %w", ErrCommitFailed, err)}
	}
	return true, nil
}
