package core

import (
	"errors"
	"fmt"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"xctasks/internal/types"
)

const (
	TaskBundle     = "bundle"
	TaskPods       = "pods"
	TaskPodsUpdate = "pods:update"
	TaskClean      = "clean"
	TaskBuild      = "build"
	TaskTest       = "test"
	TaskDocs       = "docs"
	TaskPackageIPA = "package:ipa"
	TaskFrankBuild = "frank:build"
	TaskUploadTF   = "upload:testflight"
	TaskDefault    = "default"
)

// TaskSet declares the mobile build tasks for one configuration. Which tasks
// exist is decided here, once; the upload task is only declared when
// distribution credentials are configured.
type TaskSet struct {
	Commands CommandBuilder
}

func NewTaskSet(paths PathDeriver) TaskSet {
	return TaskSet{Commands: NewCommandBuilder(paths)}
}

// Register declares every task of the configuration on registry.
func (s TaskSet) Register(registry *Registry, cfg types.BuildConfiguration) error {
	if err := RequireCoordinates(cfg); err != nil {
		return err
	}
	nodes, err := s.nodes(cfg)
	if err != nil {
		return err
	}
	for _, node := range nodes {
		if err := registry.Register(node); err != nil {
			return err
		}
	}
	upload, err := s.uploadNode(cfg)
	if err != nil {
		return err
	}
	return registry.RegisterIf(cfg.TestFlight != nil, upload)
}

// Graph builds and freezes the task graph for cfg.
func (s TaskSet) Graph(cfg types.BuildConfiguration) (*TaskGraph, error) {
	registry := NewRegistry()
	if err := s.Register(registry, cfg); err != nil {
		return nil, err
	}
	return registry.Build()
}

func (s TaskSet) nodes(cfg types.BuildConfiguration) ([]types.TaskNode, error) {
	b := s.Commands
	schemeDir, err := b.Paths.SchemeDir(cfg)
	if err != nil {
		return nil, err
	}
	outputPath, err := b.Paths.OutputPath(cfg)
	if err != nil {
		return nil, err
	}
	xcodeClean, err := b.Xcodebuild(cfg, "clean")
	if err != nil {
		return nil, err
	}
	xcodeBuild, err := b.Xcodebuild(cfg, "build")
	if err != nil {
		return nil, err
	}
	xctool, err := b.Xctool(cfg)
	if err != nil {
		return nil, err
	}
	appledoc, err := b.Appledoc(cfg)
	if err != nil {
		return nil, err
	}
	packageIPA := stepOrFailure(b.PackageApplication(cfg))
	frank, err := b.FrankBuild(cfg)
	if err != nil {
		return nil, err
	}

	podWritables := []types.Step{
		makeWritable(false, false, workspaceBundle(cfg)+"/contents.xcworkspacedata"),
		makeWritable(true, true, "Pods"),
		makeWritable(true, false, "Podfile.lock"),
	}

	buildSteps := []types.Step{
		makeWritable(false, false, "**/*-Info.plist", "**/project.pbxproj"),
		b.UnlockKeychain(cfg),
	}
	buildSteps = append(buildSteps, b.VersionBump(cfg)...)
	buildSteps = append(buildSteps, xcodeBuild)

	return []types.TaskNode{
		{
			Name:        TaskBundle,
			Description: "Install Ruby build dependencies from the Bundler Gemfile",
			Kind:        types.TaskKindFile,
			Target:      "Gemfile.lock",
			Sources:     []string{"Gemfile"},
			Steps: []types.Step{
				makeWritable(true, false, "Gemfile.lock"),
				b.BundleUpdate(),
			},
		},
		{
			Name:          TaskPods,
			Description:   "Install CocoaPods dependencies when the Podfile changed",
			Prerequisites: []string{TaskBundle},
			Kind:          types.TaskKindFile,
			Target:        "Podfile.lock",
			Sources:       []string{"Podfile"},
			Steps:         append(append([]types.Step(nil), podWritables...), b.PodInstall()),
		},
		{
			Name:          TaskPodsUpdate,
			Description:   "Update CocoaPods dependencies and rewrite Podfile.lock",
			Prerequisites: []string{TaskBundle},
			Steps:         append(append([]types.Step(nil), podWritables...), b.PodUpdate()),
		},
		{
			Name:        TaskClean,
			Description: fmt.Sprintf("Clean build output for %s", schemeDir),
			Steps:       []types.Step{xcodeClean, removePath(outputPath)},
		},
		{
			Name:          TaskBuild,
			Description:   fmt.Sprintf("Run xcodebuild for %s", schemeDir),
			Prerequisites: []string{TaskPods},
			Steps:         buildSteps,
		},
		{
			Name:          TaskTest,
			Description:   fmt.Sprintf("Run unit tests of scheme %s", cfg.Scheme),
			Prerequisites: []string{TaskPods},
			Steps:         []types.Step{xctool},
		},
		{
			Name:        TaskDocs,
			Description: "Generate API documentation with appledoc",
			Steps:       []types.Step{appledoc},
		},
		{
			Name:          TaskPackageIPA,
			Description:   fmt.Sprintf("Package app as an IPA file for %s", schemeDir),
			Prerequisites: []string{TaskBuild},
			Steps:         []types.Step{packageIPA},
		},
		{
			Name:          TaskFrankBuild,
			Description:   "Build Frank-instrumented app bundle",
			Prerequisites: []string{TaskPods},
			Steps:         []types.Step{frank},
		},
		{
			Name:          TaskDefault,
			Description:   "Build and package the app",
			Prerequisites: []string{TaskPackageIPA},
		},
	}, nil
}

func (s TaskSet) uploadNode(cfg types.BuildConfiguration) (types.TaskNode, error) {
	if cfg.TestFlight == nil {
		return types.TaskNode{}, nil
	}
	node := types.TaskNode{
		Name:        TaskUploadTF,
		Description: "Upload ipa and zipped dSYM to TestFlight",
	}
	steps, err := s.uploadSteps(cfg)
	if err != nil {
		steps = []types.Step{failStep(err)}
	}
	node.Steps = steps
	return node, nil
}

func (s TaskSet) uploadSteps(cfg types.BuildConfiguration) ([]types.Step, error) {
	b := s.Commands
	ipaPath, err := b.Paths.IPAPath(cfg)
	if err != nil {
		return nil, err
	}
	zipPath, err := b.Paths.DSYMZipPath(cfg)
	if err != nil {
		return nil, err
	}
	zipStep, err := b.ZipDSYM(cfg)
	if err != nil {
		return nil, err
	}
	upload, err := b.TestFlightUpload(cfg)
	if err != nil {
		return nil, err
	}
	return []types.Step{
		requirePath(fmt.Sprintf("missing IPA file, run %s first", TaskPackageIPA), ipaPath),
		removePath(zipPath),
		zipStep,
		upload,
	}, nil
}

// stepOrFailure keeps a task declared when its command cannot be built from
// the configuration; the error surfaces only if the task runs.
func stepOrFailure(step types.Step, err error) types.Step {
	if err != nil {
		return failStep(err)
	}
	return step
}

func failStep(err error) types.Step {
	message := err.Error()
	var builder *errbuilder.ErrBuilder
	if errors.As(err, &builder) && builder.Msg != "" {
		message = builder.Msg
	}
	return types.Step{Kind: types.StepKindFail, Message: message}
}

func missingTestFlight() error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg("missing testflight configuration block")
}
