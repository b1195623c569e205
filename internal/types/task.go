package types

type TaskKind string

const (
	TaskKindAlways TaskKind = "always"
	TaskKindFile   TaskKind = "file"
)

type StepKind string

const (
	StepKindExec     StepKind = "exec"
	StepKindWritable StepKind = "writable"
	StepKindRemove   StepKind = "remove"
	StepKindRequire  StepKind = "require"
	StepKindUpload   StepKind = "upload"
	// StepKindFail aborts the task with Message as a configuration error.
	StepKindFail StepKind = "fail"
)

// Step is a single typed action of a task. Which fields are meaningful
// depends on Kind.
type Step struct {
	Kind StepKind

	// exec
	Program   string
	Args      []string
	Dir       string
	EnvGuard  string
	Sensitive bool

	// writable, remove, require, fail
	Paths     []string
	Recursive bool
	IfExists  bool
	Message   string

	// upload
	Upload *UploadRequest
}

// TaskNode is one named node of the task graph. A node without steps only
// groups its prerequisites.
type TaskNode struct {
	Name          string
	Description   string
	Prerequisites []string
	Kind          TaskKind
	Target        string
	Sources       []string
	Steps         []Step
}

// UploadRequest is a multipart form submission.
type UploadRequest struct {
	URL    string
	Files  []FormFile
	Fields []FormField
}

type FormFile struct {
	Name string
	Path string
}

type FormField struct {
	Name  string
	Value string
}

type TaskStatus string

const (
	TaskStatusExecuted TaskStatus = "executed"
	TaskStatusUpToDate TaskStatus = "up_to_date"
)

type TaskOutcome struct {
	Name   string
	Status TaskStatus
}

// RunReport lists the visited tasks. Visited keeps the visit order across
// both statuses; Executed and UpToDate are the per-status views of it.
type RunReport struct {
	Executed []string
	UpToDate []string
	Visited  []TaskOutcome
}
