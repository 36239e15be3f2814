package update

import (
	"context"
	"fmt"
	"os"
	"os/exec"
)

// CommandScraper runs an external scraper program with no arguments and
// treats its exit status as the whole contract: zero means data was
// refreshed on disk, non-zero fails the pipeline.
type CommandScraper struct {
	command string
	dir     string
}

// NewCommandScraper builds a scraper that executes command inside dir.
func NewCommandScraper(command, dir string) *CommandScraper {
	return &CommandScraper{command: command, dir: dir}
}

// Scrape runs the subprocess, streaming its output to the operator.
func (s *CommandScraper) Scrape(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, s.command)
	cmd.Dir = s.dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("run %s: %w", s.command, err)
	}
	return nil
}
