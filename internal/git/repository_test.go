package git

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	gogit "github.com/go-git/go-git/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeExec re-runs the test binary as a stand-in for git.
func fakeExec(stdout string, exitCode int) func(ctx context.Context, name string, args ...string) *exec.Cmd {
	return func(ctx context.Context, name string, args ...string) *exec.Cmd {
		cs := append([]string{"-test.run=TestHelperProcess", "--", name}, args...)
		cmd := exec.CommandContext(ctx, os.Args[0], cs...)
		cmd.Env = append(os.Environ(),
			"GO_WANT_HELPER_PROCESS=1",
			"HELPER_STDOUT="+stdout,
			fmt.Sprintf("HELPER_EXIT=%d", exitCode),
		)
		return cmd
	}
}

func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	fmt.Fprint(os.Stdout, os.Getenv("HELPER_STDOUT"))
	if os.Getenv("HELPER_EXIT") != "0" {
		fmt.Fprint(os.Stderr, "fatal: bad revision")
		os.Exit(128)
	}
	os.Exit(0)
}

func TestStagedDiff(t *testing.T) {
	repo := &CLIRepository{Exec: fakeExec("+added line\n", 0)}

	diff, err := repo.StagedDiff(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "+added line\n", diff)
}

func TestStagedDiffFailure(t *testing.T) {
	repo := &CLIRepository{Exec: fakeExec("", 1)}

	_, err := repo.StagedDiff(context.Background(), []string{"README.md"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrExecution))
	assert.Contains(t, err.Error(), "bad revision")
}

func TestDiffArgs(t *testing.T) {
	tests := []struct {
		name  string
		paths []string
		want  []string
	}{
		{name: "all staged", paths: nil, want: []string{"diff", "--cached"}},
		{name: "filtered", paths: []string{"a.go", "docs/b.md"}, want: []string{"diff", "--cached", "--", "a.go", "docs/b.md"}},
		{name: "blank entries dropped", paths: []string{" ", ""}, want: []string{"diff", "--cached"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DiffArgs(tt.paths))
		})
	}
}

func TestLocate(t *testing.T) {
	root := t.TempDir()
	_, err := gogit.PlainInit(root, false)
	require.NoError(t, err)

	sub := filepath.Join(root, "internal", "pkg")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	got, err := Locate(sub)
	require.NoError(t, err)

	want, err := filepath.EvalSymlinks(root)
	require.NoError(t, err)
	gotResolved, err := filepath.EvalSymlinks(got)
	require.NoError(t, err)
	assert.Equal(t, want, gotResolved)
}

func TestLocateOutsideRepository(t *testing.T) {
	dir := t.TempDir()

	_, err := Locate(dir)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrExecution))
	assert.True(t, strings.Contains(err.Error(), "not a git repository"))
}
