package core

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xctasks/internal/types"
)

func TestTaskSetGraphWithoutCredentials(t *testing.T) {
	graph, err := NewTaskSet(NewPathDeriver("/work/demo")).Graph(ApplyDefaults(sampleConfig()))
	require.NoError(t, err)

	want := []string{
		TaskBuild, TaskBundle, TaskClean, TaskDefault, TaskDocs, TaskFrankBuild,
		TaskPackageIPA, TaskPods, TaskPodsUpdate, TaskTest,
	}
	if diff := cmp.Diff(want, graph.Names()); diff != "" {
		t.Fatalf("unexpected tasks (-want +got):\n%s", diff)
	}
	assert.False(t, graph.Has(TaskUploadTF))
}

func TestTaskSetGraphWithCredentials(t *testing.T) {
	cfg := sampleConfig()
	cfg.TestFlight = &types.DistributionCredentials{APIToken: "api", TeamToken: "team"}
	graph, err := NewTaskSet(NewPathDeriver("/work/demo")).Graph(ApplyDefaults(cfg))
	require.NoError(t, err)

	upload, ok := graph.Node(TaskUploadTF)
	require.True(t, ok)
	require.Len(t, upload.Steps, 4)
	assert.Equal(t, types.StepKindRequire, upload.Steps[0].Kind)
	assert.Equal(t, []string{testProductsRoot + "/Release-iphoneos/DemoApp-1.4.0.ipa"}, upload.Steps[0].Paths)
	assert.Equal(t, types.StepKindRemove, upload.Steps[1].Kind)
	assert.Equal(t, "zip", upload.Steps[2].Program)
	assert.Equal(t, types.StepKindUpload, upload.Steps[3].Kind)
	assert.Empty(t, upload.Prerequisites)
}

func TestTaskSetGraphWithoutVersion(t *testing.T) {
	cfg := sampleConfig()
	cfg.Version = ""
	cfg.TestFlight = &types.DistributionCredentials{APIToken: "api", TeamToken: "team"}
	graph, err := NewTaskSet(NewPathDeriver("/work/demo")).Graph(ApplyDefaults(cfg))
	require.NoError(t, err)

	assert.True(t, graph.Has(TaskClean))
	clean, _ := graph.Node(TaskClean)
	assert.Equal(t, "xcodebuild", clean.Steps[0].Program)

	for _, name := range []string{TaskPackageIPA, TaskUploadTF} {
		node, ok := graph.Node(name)
		require.True(t, ok, name)
		require.Len(t, node.Steps, 1, name)
		assert.Equal(t, types.StepKindFail, node.Steps[0].Kind, name)
		assert.Contains(t, node.Steps[0].Message, "xcode.version", name)
	}

	build, _ := graph.Node(TaskBuild)
	for _, step := range build.Steps {
		assert.NotEqual(t, "agvtool", firstArg(step), "no version to bump")
	}
}

func firstArg(step types.Step) string {
	if len(step.Args) == 0 {
		return ""
	}
	return step.Args[0]
}

func TestTaskSetStructure(t *testing.T) {
	graph, err := NewTaskSet(NewPathDeriver("/work/demo")).Graph(ApplyDefaults(sampleConfig()))
	require.NoError(t, err)

	prereqs := map[string][]string{
		TaskBundle:     nil,
		TaskPods:       {TaskBundle},
		TaskPodsUpdate: {TaskBundle},
		TaskClean:      nil,
		TaskBuild:      {TaskPods},
		TaskTest:       {TaskPods},
		TaskDocs:       nil,
		TaskPackageIPA: {TaskBuild},
		TaskFrankBuild: {TaskPods},
		TaskDefault:    {TaskPackageIPA},
	}
	for name, want := range prereqs {
		current, ok := graph.Node(name)
		require.True(t, ok, name)
		if len(want) == 0 {
			assert.Empty(t, current.Prerequisites, name)
			continue
		}
		assert.Equal(t, want, current.Prerequisites, name)
	}

	pods, _ := graph.Node(TaskPods)
	assert.Equal(t, types.TaskKindFile, pods.Kind)
	assert.Equal(t, "Podfile.lock", pods.Target)
	assert.Equal(t, []string{"Podfile"}, pods.Sources)

	bundle, _ := graph.Node(TaskBundle)
	assert.Equal(t, types.TaskKindFile, bundle.Kind)
	assert.Equal(t, "Gemfile.lock", bundle.Target)

	defaultTask, _ := graph.Node(TaskDefault)
	assert.Empty(t, defaultTask.Steps)

	closure, ok := graph.Closure(TaskDefault)
	require.True(t, ok)
	assert.Equal(t, []string{TaskBundle, TaskPods, TaskBuild, TaskPackageIPA, TaskDefault}, closure)
}

func TestTaskSetBuildSteps(t *testing.T) {
	graph, err := NewTaskSet(NewPathDeriver("/work/demo")).Graph(ApplyDefaults(sampleConfig()))
	require.NoError(t, err)

	build, _ := graph.Node(TaskBuild)
	kinds := make([]string, 0, len(build.Steps))
	for _, step := range build.Steps {
		kinds = append(kinds, string(step.Kind)+":"+step.Program)
	}
	want := []string{"writable:", "exec:security", "exec:xcrun", "exec:xcrun", "exec:xcodebuild"}
	if diff := cmp.Diff(want, kinds); diff != "" {
		t.Fatalf("unexpected build steps (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{"**/*-Info.plist", "**/project.pbxproj"}, build.Steps[0].Paths)
}

func TestTaskSetRequiresCoordinates(t *testing.T) {
	cfg := sampleConfig()
	cfg.Workspace = ""
	_, err := NewTaskSet(NewPathDeriver("/work/demo")).Graph(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "xcode.workspace")
}
