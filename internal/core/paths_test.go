package core

import (
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xctasks/internal/types"
)

func sampleConfig() types.BuildConfiguration {
	return types.BuildConfiguration{
		Workspace:     "Demo",
		Scheme:        "DemoApp",
		Configuration: "Release",
		Target:        "DemoApp",
		SDK:           "iphoneos",
		Version:       "1.4.0",
		Identity:      "iPhone Distribution: Demo Ltd",
		Profile:       "profiles/Demo.mobileprovision",
	}
}

func TestPathDeriverDerive(t *testing.T) {
	deriver := NewPathDeriver("/work/demo")
	got, err := deriver.Derive(sampleConfig())
	require.NoError(t, err)

	output := "/work/demo/build/Demo/Build/Products/Release-iphoneos/"
	want := types.ArtifactPaths{
		SchemeDir:    "Release-iphoneos",
		ProductsRoot: "/work/demo/build/Demo/Build/Products",
		OutputPath:   output,
		AppFile:      "DemoApp.app",
		AppPath:      output + "DemoApp.app",
		DSYMDir:      "DemoApp.app.dSYM",
		DSYMPath:     output + "DemoApp.app.dSYM",
		DSYMZipFile:  "DemoApp.app.dSYM.zip",
		DSYMZipPath:  output + "DemoApp.app.dSYM.zip",
		IPAFile:      "DemoApp-1.4.0.ipa",
		IPAPath:      output + "DemoApp-1.4.0.ipa",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected paths (-want +got):\n%s", diff)
	}
}

func TestPathDeriverCustomBuildDir(t *testing.T) {
	cfg := sampleConfig()
	cfg.BuildDir = "/out/"
	got, err := NewPathDeriver("/work/demo/").OutputPath(cfg)
	require.NoError(t, err)
	assert.Equal(t, "/work/demo/out/Demo/Build/Products/Release-iphoneos/", got)
}

func TestPathDeriverFilesystemRoot(t *testing.T) {
	got, err := NewPathDeriver("/").ProductsRoot(sampleConfig())
	require.NoError(t, err)
	assert.Equal(t, "/build/Demo/Build/Products", got)
}

func TestPathDeriverRecomputesOnChange(t *testing.T) {
	deriver := NewPathDeriver("/work/demo")
	cfg := sampleConfig()
	first, err := deriver.IPAPath(cfg)
	require.NoError(t, err)

	cfg.Version = "1.5.0"
	second, err := deriver.IPAPath(cfg)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
	assert.Contains(t, second, "DemoApp-1.5.0.ipa")
}

func TestPathDeriverMissingFields(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*types.BuildConfiguration)
		wantMsg string
	}{
		{
			name:    "workspace",
			mutate:  func(cfg *types.BuildConfiguration) { cfg.Workspace = "" },
			wantMsg: "xcode.workspace",
		},
		{
			name:    "configuration",
			mutate:  func(cfg *types.BuildConfiguration) { cfg.Configuration = " " },
			wantMsg: "xcode.configuration",
		},
		{
			name:    "sdk",
			mutate:  func(cfg *types.BuildConfiguration) { cfg.SDK = "" },
			wantMsg: "xcode.sdk",
		},
		{
			name:    "target",
			mutate:  func(cfg *types.BuildConfiguration) { cfg.Target = "" },
			wantMsg: "xcode.target",
		},
		{
			name:    "version for ipa",
			mutate:  func(cfg *types.BuildConfiguration) { cfg.Version = "" },
			wantMsg: "xcode.version",
		},
	}
	deriver := NewPathDeriver("/work/demo")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := sampleConfig()
			tt.mutate(&cfg)
			_, err := deriver.IPAPath(cfg)
			require.Error(t, err)
			assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestPathDeriverRequiresRoot(t *testing.T) {
	_, err := NewPathDeriver("").OutputPath(sampleConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "project root directory is not set")

	// Scheme dir and file names do not depend on the root.
	schemeDir, err := NewPathDeriver("").SchemeDir(sampleConfig())
	require.NoError(t, err)
	assert.Equal(t, "Release-iphoneos", schemeDir)
}
