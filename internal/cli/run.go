package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"xctasks/internal/app"
)

func newRunCommand() *cobra.Command {
	var reportDir string
	cmd := &cobra.Command{
		Use:   "run [task...]",
		Short: "Run tasks and their prerequisites (default: default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(cmd.Context(), cmd, args, reportDir)
		},
	}
	cmd.Flags().StringVar(&reportDir, "report-dir", "", "Directory for run.report (relative to the project root)")
	_ = viper.BindPFlag("run_report_dir", cmd.Flags().Lookup("report-dir"))
	return cmd
}

func runRun(ctx context.Context, cmd *cobra.Command, tasks []string, reportDir string) error {
	if len(tasks) == 0 {
		// default_tasks from the CLI config file replaces the default task.
		tasks = resolveStrings(nil, nil, "default_tasks", "")
	}
	service := newAppService()
	result, err := service.Run(ctx, app.RunRequest{
		ProjectPath: projectPath(cmd),
		Tasks:       tasks,
		ReportDir:   resolveString(cmd, reportDir, "run_report_dir", "report-dir"),
	})
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "executed: %d\n", len(result.Report.Executed))
	fmt.Fprintf(out, "up to date: %d\n", len(result.Report.UpToDate))
	return nil
}
