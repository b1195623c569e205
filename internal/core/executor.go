package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	assert "github.com/ZanzyTHEbar/assert-lib"
	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"xctasks/internal/ports"
	"xctasks/internal/types"
)

// EnvLookup reads one environment variable.
type EnvLookup func(key string) (string, bool)

// TaskFailure aborts a run. ExitStatus carries the failing process's exit
// status when the failure came from an external command, zero otherwise.
type TaskFailure struct {
	Task       string
	Step       int
	ExitStatus int
	Err        error
}

func (e *TaskFailure) Error() string {
	return fmt.Sprintf("task %s failed at step %d: %v", e.Task, e.Step+1, e.Err)
}

func (e *TaskFailure) Unwrap() error { return e.Err }

// Executor runs tasks of a TaskGraph one at a time.
type Executor struct {
	Graph    *TaskGraph
	Runner   ports.CommandRunnerPort
	FS       ports.FileSystemPort
	Uploader ports.UploaderPort
	Env      EnvLookup
}

func NewExecutor(graph *TaskGraph, runner ports.CommandRunnerPort, fs ports.FileSystemPort, uploader ports.UploaderPort, env EnvLookup) (*Executor, error) {
	if graph == nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("task graph is nil")
	}
	if runner == nil || fs == nil || uploader == nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("executor requires a command runner, filesystem and uploader")
	}
	if env == nil {
		env = os.LookupEnv
	}
	return &Executor{Graph: graph, Runner: runner, FS: fs, Uploader: uploader, Env: env}, nil
}

// Run invokes every name in order within a single run, so shared
// prerequisites execute at most once.
func (e *Executor) Run(ctx context.Context, names ...string) (types.RunReport, error) {
	for _, name := range names {
		if !e.Graph.Has(name) {
			return types.RunReport{}, unknownTask(name)
		}
	}
	run := e.NewRun()
	for _, name := range names {
		if err := run.Invoke(ctx, name); err != nil {
			return run.Report(), err
		}
	}
	return run.Report(), nil
}

// NewRun starts a fresh memo of visited tasks.
func (e *Executor) NewRun() *Run {
	return &Run{
		exec:     e,
		visited:  map[string]struct{}{},
		executed: map[string]bool{},
	}
}

// Run is one resolution session. Every task is visited at most once across
// all Invoke calls on the same Run.
type Run struct {
	exec     *Executor
	visited  map[string]struct{}
	executed map[string]bool
	report   types.RunReport
}

func (r *Run) Report() types.RunReport {
	return types.RunReport{
		Executed: append([]string(nil), r.report.Executed...),
		UpToDate: append([]string(nil), r.report.UpToDate...),
		Visited:  append([]types.TaskOutcome(nil), r.report.Visited...),
	}
}

func (r *Run) record(name string, status types.TaskStatus) {
	switch status {
	case types.TaskStatusExecuted:
		r.report.Executed = append(r.report.Executed, name)
	case types.TaskStatusUpToDate:
		r.report.UpToDate = append(r.report.UpToDate, name)
	}
	r.report.Visited = append(r.report.Visited, types.TaskOutcome{Name: name, Status: status})
}

// Invoke resolves name and its prerequisites depth-first, leaf-most first.
func (r *Run) Invoke(ctx context.Context, name string) error {
	if !r.exec.Graph.Has(name) {
		return unknownTask(name)
	}
	return r.visit(ctx, name)
}

func (r *Run) visit(ctx context.Context, name string) error {
	if _, done := r.visited[name]; done {
		return nil
	}
	r.visited[name] = struct{}{}
	node, _ := r.exec.Graph.Node(name)
	assert.NotEmpty(ctx, node.Name, "task name must be set")

	for _, prereq := range node.Prerequisites {
		if err := r.visit(ctx, prereq); err != nil {
			return err
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	needed, err := r.needed(node)
	if err != nil {
		return err
	}
	logger := log.Ctx(ctx)
	if !needed {
		logger.Info().Str("task", name).Str("target", node.Target).Msg("task up to date")
		r.record(name, types.TaskStatusUpToDate)
		return nil
	}

	logger.Info().Str("task", name).Int("steps", len(node.Steps)).Msg("running task")
	started := time.Now()
	for i, step := range node.Steps {
		if err := r.runStep(ctx, step); err != nil {
			failure := &TaskFailure{Task: name, Step: i, Err: err}
			var exitErr *types.ProcessExitError
			if errors.As(err, &exitErr) {
				failure.ExitStatus = exitErr.Status
			}
			logger.Error().Err(err).Str("task", name).Int("step", i+1).Msg("task failed")
			return failure
		}
	}
	r.executed[name] = true
	r.record(name, types.TaskStatusExecuted)
	logger.Debug().Str("task", name).Dur("elapsed", time.Since(started)).Msg("task finished")
	return nil
}

// needed reports whether a task's steps must run. Always-run tasks are
// always needed; a file task is needed when its target is missing or older
// than any source or file prerequisite target, or when an always-run
// prerequisite executed in this run.
func (r *Run) needed(node types.TaskNode) (bool, error) {
	if node.Kind != types.TaskKindFile {
		return true, nil
	}
	fs := r.exec.FS
	targetTime, exists, err := fs.ModTime(node.Target)
	if err != nil {
		return false, err
	}
	if !exists {
		return true, nil
	}
	for _, source := range node.Sources {
		sourceTime, ok, err := fs.ModTime(source)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, errbuilder.New().
				WithCode(errbuilder.CodeFailedPrecondition).
				WithMsg(fmt.Sprintf("source file %s of task %s does not exist", source, node.Name))
		}
		if targetTime.Before(sourceTime) {
			return true, nil
		}
	}
	for _, prereqName := range node.Prerequisites {
		prereq, _ := r.exec.Graph.Node(prereqName)
		if prereq.Kind != types.TaskKindFile {
			if r.executed[prereqName] {
				return true, nil
			}
			continue
		}
		prereqTime, ok, err := fs.ModTime(prereq.Target)
		if err != nil {
			return false, err
		}
		if ok && targetTime.Before(prereqTime) {
			return true, nil
		}
	}
	return false, nil
}

func (r *Run) runStep(ctx context.Context, step types.Step) error {
	switch step.Kind {
	case types.StepKindExec:
		return r.runExec(ctx, step)
	case types.StepKindWritable:
		patterns := step.Paths
		if step.IfExists {
			existing, err := r.existingPaths(step.Paths)
			if err != nil {
				return err
			}
			patterns = existing
		}
		if len(patterns) == 0 {
			return nil
		}
		count, err := r.exec.FS.MakeWritable(patterns, step.Recursive)
		if err != nil {
			return err
		}
		log.Ctx(ctx).Debug().Strs("paths", patterns).Int("matched", count).Msg("made writable")
		return nil
	case types.StepKindRemove:
		for _, path := range step.Paths {
			if err := r.exec.FS.RemoveAll(path); err != nil {
				return err
			}
		}
		return nil
	case types.StepKindRequire:
		for _, path := range step.Paths {
			ok, err := r.exec.FS.Exists(path)
			if err != nil {
				return err
			}
			if !ok {
				message := step.Message
				if strings.TrimSpace(message) == "" {
					message = fmt.Sprintf("required file %s does not exist", path)
				}
				return errbuilder.New().
					WithCode(errbuilder.CodeFailedPrecondition).
					WithMsg(message)
			}
		}
		return nil
	case types.StepKindUpload:
		if step.Upload == nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("upload step has no request")
		}
		log.Ctx(ctx).Info().Str("url", step.Upload.URL).Int("files", len(step.Upload.Files)).Msg("uploading")
		return r.exec.Uploader.Upload(ctx, *step.Upload)
	case types.StepKindFail:
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(step.Message)
	default:
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("unsupported step kind: %s", step.Kind))
	}
}

func (r *Run) runExec(ctx context.Context, step types.Step) error {
	args := step.Args
	if guard := strings.TrimSpace(step.EnvGuard); guard != "" {
		value, ok := r.exec.Env(guard)
		if !ok || value == "" {
			log.Ctx(ctx).Debug().Str("program", step.Program).Str("env", guard).Msg("skipping guarded command")
			return nil
		}
		args = make([]string, 0, len(step.Args))
		for _, arg := range step.Args {
			args = append(args, os.Expand(arg, func(key string) string {
				v, _ := r.exec.Env(key)
				return v
			}))
		}
	}
	event := log.Ctx(ctx).Info().Str("program", step.Program)
	if !step.Sensitive {
		event = event.Strs("args", args)
	}
	if step.Dir != "" {
		event = event.Str("dir", step.Dir)
	}
	event.Msg("exec")
	return r.exec.Runner.Run(ctx, step.Dir, step.Program, args)
}

func (r *Run) existingPaths(paths []string) ([]string, error) {
	var existing []string
	for _, path := range paths {
		ok, err := r.exec.FS.Exists(path)
		if err != nil {
			return nil, err
		}
		if ok {
			existing = append(existing, path)
		}
	}
	return existing, nil
}

func unknownTask(name string) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeNotFound).
		WithMsg(fmt.Sprintf("unknown task: %s", name))
}
