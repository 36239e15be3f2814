// Package gitrepo drives a local git working copy through the git CLI.
package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
)

// Repo manages git operations for one working directory.
type Repo struct {
	dir    string
	gitBin string
	runner Runner
}

// Option configures Repo.
type Option func(*Repo)

// WithRunner sets a custom command runner for git operations.
// This is primarily used for testing to inject fake command execution.
func WithRunner(runner Runner) Option {
	return func(r *Repo) {
		r.runner = runner
	}
}

// WithGitBinary overrides the git executable name or path.
func WithGitBinary(bin string) Option {
	return func(r *Repo) {
		r.gitBin = bin
	}
}

// Open resolves dir, applies options, and verifies it is a git working copy.
func Open(ctx context.Context, dir string, opts ...Option) (*Repo, error) {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve path: %w", err)
	}

	r := &Repo{
		dir:    absPath,
		gitBin: "git",
		runner: NewExecRunner(),
	}
	for _, opt := range opts {
		opt(r)
	}

	if _, err := r.run(ctx, "rev-parse", "--git-dir"); err != nil {
		return nil, fmt.Errorf("%s is not a git repository: %w", absPath, err)
	}

	return r, nil
}

// Dir returns the working directory all git commands run in.
func (r *Repo) Dir() string {
	return r.dir
}

// Pull synchronizes the working copy from the named remote branch.
func (r *Repo) Pull(ctx context.Context, remote, branch string) error {
	if _, err := r.run(ctx, "pull", remote, branch); err != nil {
		return fmt.Errorf("pull %s %s: %w", remote, branch, err)
	}
	return nil
}

// StatusShort returns the working tree status in short format.
func (r *Repo) StatusShort(ctx context.Context) (string, error) {
	out, err := r.run(ctx, "status", "--short")
	if err != nil {
		return "", fmt.Errorf("status: %w", err)
	}
	return out, nil
}

// StageAll stages every working-directory change (git add -A).
func (r *Repo) StageAll(ctx context.Context) error {
	if _, err := r.run(ctx, "add", "-A"); err != nil {
		return fmt.Errorf("stage all: %w", err)
	}
	return nil
}

// HasStagedChanges reports whether the staged diff is non-empty.
// git diff --cached --quiet exits 1 when there are staged changes.
func (r *Repo) HasStagedChanges(ctx context.Context) (bool, error) {
	_, err := r.run(ctx, "diff", "--cached", "--quiet")
	if err == nil {
		return false, nil
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Code == 1 {
		return true, nil
	}
	return false, fmt.Errorf("diff staged: %w", err)
}

// Commit creates a commit with the given message.
func (r *Repo) Commit(ctx context.Context, message string) error {
	if _, err := r.run(ctx, "commit", "-m", message); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Push publishes the local branch to the named remote branch.
func (r *Repo) Push(ctx context.Context, remote, branch string) error {
	if _, err := r.run(ctx, "push", remote, branch); err != nil {
		return fmt.Errorf("push %s %s: %w", remote, branch, err)
	}
	return nil
}

func (r *Repo) run(ctx context.Context, args ...string) (string, error) {
	return r.runner.Run(ctx, r.dir, r.gitBin, args...)
}
