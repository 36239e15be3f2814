package update

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeRepo struct {
	calls []string

	pullErr   error
	statusOut string
	statusErr error
	stageErr  error
	staged    bool
	stagedErr error
	commitErr error
	pushErr   error

	commits []string
}

func (f *fakeRepo) Pull(_ context.Context, remote, branch string) error {
	f.calls = append(f.calls, "pull "+remote+" "+branch)
	return f.pullErr
}

func (f *fakeRepo) StatusShort(_ context.Context) (string, error) {
	f.calls = append(f.calls, "status")
	return f.statusOut, f.statusErr
}

func (f *fakeRepo) StageAll(_ context.Context) error {
	f.calls = append(f.calls, "stage")
	return f.stageErr
}

func (f *fakeRepo) HasStagedChanges(_ context.Context) (bool, error) {
	f.calls = append(f.calls, "diff-staged")
	return f.staged, f.stagedErr
}

func (f *fakeRepo) Commit(_ context.Context, message string) error {
	f.calls = append(f.calls, "commit")
	f.commits = append(f.commits, message)
	return f.commitErr
}

func (f *fakeRepo) Push(_ context.Context, remote, branch string) error {
	f.calls = append(f.calls, "push "+remote+" "+branch)
	return f.pushErr
}

type fakeScraper struct {
	called int
	err    error
	onRun  func()
}

func (f *fakeScraper) Scrape(context.Context) error {
	f.called++
	if f.onRun != nil {
		f.onRun()
	}
	return f.err
}

type fixedClock struct {
	t time.Time
}

func (c fixedClock) Now() time.Time {
	return c.t
}

func newTestOrchestrator(repo *fakeRepo, scraper *fakeScraper) *Orchestrator {
	clock := fixedClock{t: time.Date(2024, 1, 5, 9, 3, 0, 0, jst)}
	return New(repo, scraper, clock, zap.NewNop(), "origin", "main")
}

func TestRunHappyPathCommitsAndPushes(t *testing.T) {
	repo := &fakeRepo{statusOut: " M index.html", staged: true}
	scraper := &fakeScraper{}

	err := newTestOrchestrator(repo, scraper).Run(context.Background())
	require.NoError(t, err)

	require.Equal(t, 1, scraper.called)
	require.Equal(t, []string{
		"pull origin main", "status", "stage", "diff-staged", "commit", "push origin main",
	}, repo.calls)
	require.Equal(t, []string{"データ更新: 2024-01-05 09:03 JST"}, repo.commits)
}

func TestRunSyncFailureStopsPipeline(t *testing.T) {
	repo := &fakeRepo{pullErr: errors.New("merge conflict")}
	scraper := &fakeScraper{}

	err := newTestOrchestrator(repo, scraper).Run(context.Background())
	require.Error(t, err)
	require.ErrorIs(t, err, ErrSyncFailed)

	var stepErr *StepError
	require.ErrorAs(t, err, &stepErr)
	require.Equal(t, StepFetchLatest, stepErr.Step)

	require.Zero(t, scraper.called, "scraper must not run after a sync failure")
	require.Equal(t, []string{"pull origin main"}, repo.calls)
}

func TestRunScraperFailureStopsPipeline(t *testing.T) {
	repo := &fakeRepo{}
	scraper := &fakeScraper{err: errors.New("site unreachable")}

	err := newTestOrchestrator(repo, scraper).Run(context.Background())
	require.ErrorIs(t, err, ErrScrapeFailed)

	require.NotContains(t, repo.calls, "stage")
	require.NotContains(t, repo.calls, "commit")
	require.NotContains(t, repo.calls, "push origin main")
}

func TestRunSkipsCommitWhenNothingStaged(t *testing.T) {
	repo := &fakeRepo{staged: false}
	scraper := &fakeScraper{}

	err := newTestOrchestrator(repo, scraper).Run(context.Background())
	require.NoError(t, err)

	require.NotContains(t, repo.calls, "commit")
	require.Contains(t, repo.calls, "push origin main", "push still runs with nothing to commit")
	require.Empty(t, repo.commits)
}

func TestRunPushFailure(t *testing.T) {
	repo := &fakeRepo{staged: true, pushErr: errors.New("remote rejected")}
	scraper := &fakeScraper{}

	err := newTestOrchestrator(repo, scraper).Run(context.Background())
	require.ErrorIs(t, err, ErrPublishFailed)

	var stepErr *StepError
	require.ErrorAs(t, err, &stepErr)
	require.Equal(t, StepPublishRemote, stepErr.Step)
	require.Len(t, repo.commits, 1, "commit happened before the push failed")
}

func TestRunCommitFailure(t *testing.T) {
	repo := &fakeRepo{staged: true, commitErr: errors.New("hook rejected")}
	scraper := &fakeScraper{}

	err := newTestOrchestrator(repo, scraper).Run(context.Background())
	require.ErrorIs(t, err, ErrCommitFailed)
	require.NotContains(t, repo.calls, "push origin main")
}

func TestRunStatusFailureDoesNotAbort(t *testing.T) {
	repo := &fakeRepo{statusErr: errors.New("index locked")}
	scraper := &fakeScraper{}

	err := newTestOrchestrator(repo, scraper).Run(context.Background())
	require.NoError(t, err, "status inspection is informational only")
	require.Contains(t, repo.calls, "push origin main")
}

func TestRepeatedRunWithoutNewDataCommitsOnce(t *testing.T) {
	repo := &fakeRepo{staged: true}
	// First run produces changes; the second finds nothing new staged.
	scraper := &fakeScraper{}
	orch := newTestOrchestrator(repo, scraper)

	require.NoError(t, orch.Run(context.Background()))
	repo.staged = false
	require.NoError(t, orch.Run(context.Background()))

	require.Len(t, repo.commits, 1, "no second commit without new data")
	require.Equal(t, 2, scraper.called)
}
