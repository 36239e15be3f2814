package update

import (
	"errors"
	"fmt"
)

// Step identifies one stage of the update pipeline.
type Step string

// Pipeline steps in execution order.
const (
	StepFetchLatest    Step = "fetch_latest"
	StepRunScraper     Step = "run_scraper"
	StepInspectChanges Step = "inspect_changes"
	StepCommit         Step = "commit_if_changed"
	StepPublishRemote  Step = "publish_remote"
)

// Failure kinds surfaced to the operator. Each maps 1:1 to a failed
// external invocation; there is no local recovery for any of them.
var (
	ErrSyncFailed    = errors.New("sync from remote failed")
	ErrScrapeFailed  = errors.New("scraper failed")
	ErrCommitFailed  = errors.New("commit failed")
	ErrPublishFailed = errors.New("publish to remote failed")
)

// StepError names the pipeline step that aborted the run.
type StepError struct {
	Step Step
	Err  error
}

// Error renders the failed step and underlying cause.
func (e *StepError) Error() string {
	return fmt.Sprintf("step %s: %v", e.Step, e.Err)
}

// Unwrap exposes the underlying failure for errors.Is matching.
func (e *StepError) Unwrap() error {
	return e.Err
}
