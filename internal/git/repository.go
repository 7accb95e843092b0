package git

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/cockroachdb/errors"
	gogit "github.com/go-git/go-git/v5"
)

// ErrExecution marks failures of the underlying git invocation.
var ErrExecution = errors.New("git execution failed")

// Repository exposes git operations required by the application.
type Repository interface {
	StagedDiff(ctx context.Context, paths []string) (string, error)
}

// CLIRepository executes git commands through the local CLI.
type CLIRepository struct {
	Exec func(ctx context.Context, name string, args ...string) *exec.Cmd
}

// NewCLIRepository returns a concrete Repository backed by the system git binary.
func NewCLIRepository() *CLIRepository {
	return &CLIRepository{
		Exec: func(ctx context.Context, name string, args ...string) *exec.Cmd {
			return exec.CommandContext(ctx, name, args...)
		},
	}
}

// StagedDiff returns the textual diff of the index against HEAD, restricted
// to paths when any are given.
func (r *CLIRepository) StagedDiff(ctx context.Context, paths []string) (string, error) {
	cmd := r.Exec(ctx, "git", DiffArgs(paths)...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		err = errors.Wrapf(err, "git diff --cached: %s", strings.TrimSpace(stderr.String()))
		return "", errors.Mark(err, ErrExecution)
	}
	return stdout.String(), nil
}

// DiffArgs builds the argument list for the staged diff invocation.
func DiffArgs(paths []string) []string {
	args := []string{"diff", "--cached"}
	var filtered []string
	for _, p := range paths {
		if p = strings.TrimSpace(p); p != "" {
			filtered = append(filtered, p)
		}
	}
	if len(filtered) > 0 {
		args = append(args, "--")
		args = append(args, filtered...)
	}
	return args
}

// Locate returns the worktree root of the repository containing dir.
func Locate(dir string) (string, error) {
	repo, err := gogit.PlainOpenWithOptions(dir, &gogit.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		err = errors.WithHint(errors.Wrapf(err, "not a git repository: %s", dir),
			"run the command from inside a git working tree")
		return "", errors.Mark(err, ErrExecution)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return "", errors.Mark(errors.Wrap(err, "get worktree"), ErrExecution)
	}

	return wt.Filesystem.Root(), nil
}
