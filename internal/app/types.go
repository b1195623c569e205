package app

import (
	"xctasks/internal/core"
	"xctasks/internal/types"
)

// Session is a loaded and validated project: the resolved root, the
// configuration with defaults applied and the frozen task graph.
type Session struct {
	ProjectPath string
	Root        string
	Config      types.BuildConfiguration
	Paths       core.PathDeriver
	Graph       *core.TaskGraph
}

type ConfigureRequest struct {
	ProjectPath string
	// SkipChangelog leaves testflight notes untouched even when
	// notes_from_changelog is set.
	SkipChangelog bool
}

type ValidateRequest struct {
	ProjectPath string
}

type ValidateResult struct {
	Workspace string
	Scheme    string
	Root      string
	Tasks     int
	Upload    bool
}

type TasksRequest struct {
	ProjectPath string
	Verbose     bool
	// ExecutionOrder lists prerequisites before dependents instead of by name.
	ExecutionOrder bool
}

type TaskSummary struct {
	Name          string
	Description   string
	Kind          types.TaskKind
	Prerequisites []string
	Target        string
	Commands      []string
}

type TasksResult struct {
	Tasks []TaskSummary
}

type RunRequest struct {
	ProjectPath string
	Tasks       []string
	// ReportDir, when set, receives run.report; relative paths resolve
	// against the project root.
	ReportDir string
}

type RunResult struct {
	Report types.RunReport
}

type PathsRequest struct {
	ProjectPath string
}

type PathsResult struct {
	Root  string
	Paths types.ArtifactPaths
}

type ChangelogRequest struct {
	// ExcludeAuthor overrides changelog.exclude_author when non-empty.
	ExcludeAuthor string
	Strict        bool
}

type ChangelogResult struct {
	Notes  string
	FromCI bool
}
