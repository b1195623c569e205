package app

import (
	"os"
	"time"

	"xctasks/internal/adapters"
	"xctasks/internal/core"
	"xctasks/internal/ports"
)

// Service wires the use cases to their adapters. The runner and filesystem
// depend on the project root, which is only known once the project file is
// loaded, so they are built through factories.
type Service struct {
	ProjectFile     ports.ProjectFilePort
	ChangelogSource ports.ChangelogSourcePort
	Uploader        ports.UploaderPort
	NewRunner       func(root string) ports.CommandRunnerPort
	NewFileSystem   func(root string) ports.FileSystemPort
	NewReportWriter func(dir string) ports.RunReportPort
	Env             core.EnvLookup
	HomeDir         func() (string, error)
}

func NewService() Service {
	return Service{
		ProjectFile:     adapters.NewProjectFileAdapter(),
		ChangelogSource: adapters.NewJenkinsChangelogAdapter(30 * time.Second),
		Uploader:        adapters.NewMultipartUploadAdapter(10 * time.Minute),
		NewRunner: func(root string) ports.CommandRunnerPort {
			return adapters.NewExecRunnerAdapter(root)
		},
		NewFileSystem: func(root string) ports.FileSystemPort {
			return adapters.NewFileSystemAdapter(root)
		},
		NewReportWriter: func(dir string) ports.RunReportPort {
			return adapters.NewOutputFileAdapter(dir)
		},
		Env:     os.LookupEnv,
		HomeDir: os.UserHomeDir,
	}
}

func (s Service) env() core.EnvLookup {
	if s.Env == nil {
		return os.LookupEnv
	}
	return s.Env
}
