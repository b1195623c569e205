package adapters

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"xctasks/internal/ports"
	"xctasks/internal/types"
)

// ExecRunnerAdapter runs toolchain commands from the project root, streaming
// their output.
type ExecRunnerAdapter struct {
	Root   string
	Stdout io.Writer
	Stderr io.Writer
}

func NewExecRunnerAdapter(root string) ExecRunnerAdapter {
	return ExecRunnerAdapter{Root: root, Stdout: os.Stdout, Stderr: os.Stderr}
}

func (a ExecRunnerAdapter) Run(ctx context.Context, dir string, program string, args []string) error {
	if strings.TrimSpace(program) == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("program is empty")
	}
	if _, err := exec.LookPath(program); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("%s not found in PATH", program)).
			WithCause(err)
	}
	cmd := exec.CommandContext(ctx, program, args...)
	cmd.Dir = a.workingDir(dir)
	cmd.Stdout = a.Stdout
	cmd.Stderr = a.Stderr
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &types.ProcessExitError{
				Program: program,
				Status:  exitErr.ExitCode(),
				Err:     err,
			}
		}
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("%s could not be started", program)).
			WithCause(err)
	}
	return nil
}

func (a ExecRunnerAdapter) workingDir(dir string) string {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return a.Root
	}
	if filepath.IsAbs(dir) || a.Root == "" {
		return dir
	}
	return filepath.Join(a.Root, dir)
}

var _ ports.CommandRunnerPort = ExecRunnerAdapter{}
