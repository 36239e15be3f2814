package gitrepo

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type call struct {
	dir  string
	name string
	args []string
}

type fakeRunner struct {
	calls []call
	// out and errs are keyed by the first git argument (the subcommand).
	out  map[string]string
	errs map[string]error
}

func (f *fakeRunner) Run(_ context.Context, dir, name string, args ...string) (string, error) {
	f.calls = append(f.calls, call{dir: dir, name: name, args: args})
	key := ""
	if len(args) > 0 {
		key = args[0]
	}
	return f.out[key], f.errs[key]
}

func openTestRepo(t *testing.T, runner *fakeRunner) *Repo {
	t.Helper()
	repo, err := Open(context.Background(), t.TempDir(), WithRunner(runner))
	require.NoError(t, err)
	return repo
}

func TestOpenValidatesRepository(t *testing.T) {
	runner := &fakeRunner{}
	repo := openTestRepo(t, runner)

	require.Len(t, runner.calls, 1)
	require.Equal(t, "git", runner.calls[0].name)
	require.Equal(t, []string{"rev-parse", "--git-dir"}, runner.calls[0].args)
	require.Equal(t, repo.Dir(), runner.calls[0].dir)
}

func TestOpenRejectsNonRepository(t *testing.T) {
	runner := &fakeRunner{errs: map[string]error{
		"rev-parse": &ExitError{Code: 128, Stderr: "not a git repository"},
	}}
	_, err := Open(context.Background(), t.TempDir(), WithRunner(runner))
	require.Error(t, err)
	require.Contains(t, err.Error(), "not a git repository")
}

func TestOpenUsesConfiguredGitBinary(t *testing.T) {
	runner := &fakeRunner{}
	_, err := Open(context.Background(), t.TempDir(),
		WithRunner(runner), WithGitBinary("/opt/git/bin/git"))
	require.NoError(t, err)
	require.Equal(t, "/opt/git/bin/git", runner.calls[0].name)
}

func TestGitCommandArguments(t *testing.T) {
	tests := []struct {
		name string
		op   func(*Repo) error
		want []string
	}{
		{
			name: "pull",
			op: func(r *Repo) error {
				return r.Pull(context.Background(), "origin", "main")
			},
			want: []string{"pull", "origin", "main"},
		},
		{
			name: "stage all",
			op: func(r *Repo) error {
				return r.StageAll(context.Background())
			},
			want: []string{"add", "-A"},
		},
		{
			name: "commit",
			op: func(r *Repo) error {
				return r.Commit(context.Background(), "データ更新: 2024-01-05 09:03 JST")
			},
			want: []string{"commit", "-m", "データ更新: 2024-01-05 09:03 JST"},
		},
		{
			name: "push",
			op: func(r *Repo) error {
				return r.Push(context.Background(), "origin", "main")
			},
			want: []string{"push", "origin", "main"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &fakeRunner{}
			repo := openTestRepo(t, runner)
			require.NoError(t, tt.op(repo))
			require.Equal(t, tt.want, runner.calls[len(runner.calls)-1].args)
		})
	}
}

func TestStatusShortReturnsOutput(t *testing.T) {
	runner := &fakeRunner{out: map[string]string{"status": " M index.html\n?? history/2024-01-05.json"}}
	repo := openTestRepo(t, runner)

	status, err := repo.StatusShort(context.Background())
	require.NoError(t, err)
	require.Contains(t, status, "index.html")
}

func TestHasStagedChanges(t *testing.T) {
	tests := []struct {
		name    string
		diffErr error
		want    bool
		wantErr bool
	}{
		{name: "clean staged diff", diffErr: nil, want: false},
		{name: "staged changes", diffErr: &ExitError{Code: 1}, want: true},
		{name: "diff failure", diffErr: &ExitError{Code: 129, Stderr: "bad usage"}, wantErr: true},
		{name: "runner failure", diffErr: errors.New("git not found"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &fakeRunner{errs: map[string]error{"diff": tt.diffErr}}
			repo := openTestRepo(t, runner)

			got, err := repo.HasStagedChanges(context.Background())
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)

			last := runner.calls[len(runner.calls)-1]
			require.Equal(t, []string{"diff", "--cached", "--quiet"}, last.args)
		})
	}
}

func TestPullWrapsRunnerError(t *testing.T) {
	runner := &fakeRunner{errs: map[string]error{
		"pull": &ExitError{Code: 1, Stderr: "CONFLICT (content): Merge conflict"},
	}}
	repo := openTestRepo(t, runner)

	err := repo.Pull(context.Background(), "origin", "main")
	require.Error(t, err)
	require.Contains(t, err.Error(), "CONFLICT")
}

func TestExecRunnerCapturesStdout(t *testing.T) {
	out, err := NewExecRunner().Run(context.Background(), t.TempDir(), "echo", "hello")
	require.NoError(t, err)
	require.Equal(t, "hello", out)
}

func TestExecRunnerReportsExitCode(t *testing.T) {
	_, err := NewExecRunner().Run(context.Background(), t.TempDir(), "sh", "-c", "echo oops >&2; exit 3")
	require.Error(t, err)

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	require.Equal(t, 3, exitErr.Code)
	require.Equal(t, "oops", exitErr.Stderr)
}
