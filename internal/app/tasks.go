package app

import (
	"context"
	"fmt"
	"strings"

	"xctasks/internal/shared"
	"xctasks/internal/types"
)

// Tasks lists the registered tasks in name order, or in execution order when
// requested. Verbose listings include the rendered steps of each task.
func (s Service) Tasks(ctx context.Context, req TasksRequest) (TasksResult, error) {
	session, err := s.Configure(ctx, ConfigureRequest{ProjectPath: req.ProjectPath, SkipChangelog: true})
	if err != nil {
		return TasksResult{}, err
	}
	names := session.Graph.Names()
	if req.ExecutionOrder {
		names = session.Graph.TopologicalOrder()
	}
	result := TasksResult{Tasks: make([]TaskSummary, 0, len(names))}
	for _, name := range names {
		node, _ := session.Graph.Node(name)
		summary := TaskSummary{
			Name:          node.Name,
			Description:   node.Description,
			Kind:          node.Kind,
			Prerequisites: append([]string(nil), node.Prerequisites...),
			Target:        node.Target,
		}
		if req.Verbose {
			for _, step := range node.Steps {
				summary.Commands = append(summary.Commands, describeStep(step))
			}
		}
		result.Tasks = append(result.Tasks, summary)
	}
	return result, nil
}

func describeStep(step types.Step) string {
	switch step.Kind {
	case types.StepKindExec:
		line := shared.FormatCommand(step.Program, step.Args)
		if step.Dir != "" {
			line = "(cd " + step.Dir + ") " + line
		}
		if step.EnvGuard != "" {
			line += fmt.Sprintf(" [if $%s]", step.EnvGuard)
		}
		return line
	case types.StepKindWritable:
		line := "chmod a+w"
		if step.Recursive {
			line = "chmod -R a+w"
		}
		line += " " + strings.Join(step.Paths, " ")
		if step.IfExists {
			line += " [if exists]"
		}
		return line
	case types.StepKindRemove:
		return "rm -rf " + strings.Join(step.Paths, " ")
	case types.StepKindRequire:
		return "require " + strings.Join(step.Paths, " ")
	case types.StepKindUpload:
		if step.Upload == nil {
			return "upload"
		}
		return "upload " + step.Upload.URL
	case types.StepKindFail:
		return "unavailable: " + step.Message
	default:
		return string(step.Kind)
	}
}
