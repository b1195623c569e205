package app

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"xctasks/internal/core"
	"xctasks/internal/types"
)

// Run executes the requested tasks, or the default task when none are
// given, within one run so shared prerequisites execute once.
func (s Service) Run(ctx context.Context, req RunRequest) (RunResult, error) {
	session, err := s.Configure(ctx, ConfigureRequest{ProjectPath: req.ProjectPath})
	if err != nil {
		return RunResult{}, err
	}
	names := req.Tasks
	if len(names) == 0 {
		names = []string{core.TaskDefault}
	}
	executor, err := core.NewExecutor(
		session.Graph,
		s.NewRunner(session.Root),
		s.NewFileSystem(session.Root),
		s.Uploader,
		s.env(),
	)
	if err != nil {
		return RunResult{}, err
	}
	report, err := executor.Run(ctx, names...)
	if writeErr := s.writeReport(ctx, session.Root, req.ReportDir, report, err); writeErr != nil && err == nil {
		err = writeErr
	}
	if err != nil {
		return RunResult{Report: report}, err
	}
	log.Ctx(ctx).Info().
		Strs("executed", report.Executed).
		Strs("up_to_date", report.UpToDate).
		Msg("run complete")
	return RunResult{Report: report}, nil
}

func (s Service) writeReport(ctx context.Context, root string, dir string, report types.RunReport, runErr error) error {
	if dir == "" || s.NewReportWriter == nil {
		return nil
	}
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(root, dir)
	}
	failed := ""
	var failure *core.TaskFailure
	if errors.As(runErr, &failure) {
		failed = failure.Task
	}
	if err := s.NewReportWriter(dir).WriteRunReport(report, failed); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("dir", dir).Msg("failed to write run report")
		return err
	}
	return nil
}
