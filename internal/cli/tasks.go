package cli

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"xctasks/internal/app"
	"xctasks/internal/types"
)

type tasksOptions struct {
	Verbose        bool
	ExecutionOrder bool
}

func newTasksCommand() *cobra.Command {
	opts := tasksOptions{}
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "List registered tasks",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTasks(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Show the commands of each task")
	cmd.Flags().BoolVar(&opts.ExecutionOrder, "execution-order", false, "List prerequisites before the tasks that need them")
	_ = viper.BindPFlag("tasks_verbose", cmd.Flags().Lookup("verbose"))
	_ = viper.BindPFlag("tasks_execution_order", cmd.Flags().Lookup("execution-order"))
	return cmd
}

func runTasks(ctx context.Context, cmd *cobra.Command, opts tasksOptions) error {
	service := newAppService()
	result, err := service.Tasks(ctx, app.TasksRequest{
		ProjectPath:    projectPath(cmd),
		Verbose:        resolveBool(cmd, opts.Verbose, "tasks_verbose", "verbose"),
		ExecutionOrder: resolveBool(cmd, opts.ExecutionOrder, "tasks_execution_order", "execution-order"),
	})
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	for _, task := range result.Tasks {
		fmt.Fprintf(w, "%s\t%s\t%s\n", task.Name, task.Description, taskRequirements(task))
		for _, command := range task.Commands {
			fmt.Fprintf(w, "\t  %s\t\n", command)
		}
	}
	return w.Flush()
}

func taskRequirements(task app.TaskSummary) string {
	parts := make([]string, 0, 2)
	if task.Kind == types.TaskKindFile {
		parts = append(parts, "file "+task.Target)
	}
	if len(task.Prerequisites) > 0 {
		parts = append(parts, "after "+strings.Join(task.Prerequisites, ", "))
	}
	if len(parts) == 0 {
		return ""
	}
	return "(" + strings.Join(parts, "; ") + ")"
}
