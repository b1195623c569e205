package adapters

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xctasks/internal/types"
)

func TestExecRunnerAdapterRunsInDir(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "out"), 0o755))
	var stdout bytes.Buffer
	runner := ExecRunnerAdapter{Root: root, Stdout: &stdout, Stderr: &stdout}

	require.NoError(t, runner.Run(t.Context(), "out", "sh", []string{"-c", "pwd"}))
	got, err := filepath.EvalSymlinks(string(bytes.TrimSpace(stdout.Bytes())))
	require.NoError(t, err)
	want, err := filepath.EvalSymlinks(filepath.Join(root, "out"))
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestExecRunnerAdapterExitStatus(t *testing.T) {
	runner := ExecRunnerAdapter{Root: t.TempDir(), Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}}

	err := runner.Run(t.Context(), "", "sh", []string{"-c", "exit 65"})
	var exitErr *types.ProcessExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 65, exitErr.Status)
	assert.Equal(t, "sh", exitErr.Program)
}

func TestExecRunnerAdapterMissingProgram(t *testing.T) {
	runner := NewExecRunnerAdapter(t.TempDir())
	err := runner.Run(t.Context(), "", "xctasks-no-such-tool", nil)
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeNotFound, errbuilder.CodeOf(err))

	err = runner.Run(t.Context(), "", " ", nil)
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
}

func TestExecRunnerAdapterWorkingDir(t *testing.T) {
	runner := ExecRunnerAdapter{Root: "/work/demo"}
	assert.Equal(t, "/work/demo", runner.workingDir(""))
	assert.Equal(t, "/work/demo/build", runner.workingDir("build"))
	assert.Equal(t, "/tmp/out", runner.workingDir("/tmp/out"))
}
