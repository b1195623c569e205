package ports

import "context"

// CommandRunnerPort runs one external process to completion.
type CommandRunnerPort interface {
	Run(ctx context.Context, dir string, program string, args []string) error
}
