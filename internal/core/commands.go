package core

import (
	"fmt"
	"strings"

	"xctasks/internal/types"
)

const KeychainPasswordEnv = "XKEYPASS"

// CommandBuilder turns a build configuration into typed argument lists for
// the external toolchain. It never runs anything.
type CommandBuilder struct {
	Paths PathDeriver
}

func NewCommandBuilder(paths PathDeriver) CommandBuilder {
	return CommandBuilder{Paths: paths}
}

func execStep(program string, args ...string) types.Step {
	return types.Step{Kind: types.StepKindExec, Program: program, Args: args}
}

func workspaceBundle(cfg types.BuildConfiguration) string {
	return cfg.Workspace + ".xcworkspace"
}

// Xcodebuild runs the given xcodebuild actions with SYMROOT and OBJROOT
// pointed at the derived products directory.
func (b CommandBuilder) Xcodebuild(cfg types.BuildConfiguration, actions ...string) (types.Step, error) {
	roots, err := b.Paths.ProductsRoot(cfg)
	if err != nil {
		return types.Step{}, err
	}
	args := []string{
		"-workspace", workspaceBundle(cfg),
		"-configuration", cfg.Configuration,
		"-scheme", cfg.Scheme,
		"-sdk", cfg.SDK,
	}
	if arch := strings.TrimSpace(cfg.Arch); arch != "" {
		args = append(args, "-arch", arch)
	}
	args = append(args, actions...)
	args = append(args, "SYMROOT="+roots, "OBJROOT="+roots)
	return execStep("xcodebuild", args...), nil
}

// PackageApplication signs the built app bundle into an ipa.
func (b CommandBuilder) PackageApplication(cfg types.BuildConfiguration) (types.Step, error) {
	appPath, err := b.Paths.AppPath(cfg)
	if err != nil {
		return types.Step{}, err
	}
	ipaPath, err := b.Paths.IPAPath(cfg)
	if err != nil {
		return types.Step{}, err
	}
	args := []string{"-sdk", cfg.SDK, "PackageApplication", "-v", appPath}
	if identity := strings.TrimSpace(cfg.Identity); identity != "" {
		args = append(args, "--sign", identity)
	}
	if profile := strings.TrimSpace(cfg.Profile); profile != "" {
		args = append(args, "--embed", profile)
	}
	args = append(args, "-o", ipaPath)
	return execStep("xcrun", args...), nil
}

// VersionBump sets CFBundleShortVersionString and CFBundleVersion. A value
// that resolves empty leaves the project's current one untouched.
func (b CommandBuilder) VersionBump(cfg types.BuildConfiguration) []types.Step {
	var steps []types.Step
	if marketing := firstNonEmpty(cfg.MarketingVersion, cfg.Version); marketing != "" {
		steps = append(steps, execStep("xcrun", "agvtool", "new-marketing-version", marketing))
	}
	if build := firstNonEmpty(cfg.BuildNumber, cfg.Version); build != "" {
		steps = append(steps, execStep("xcrun", "agvtool", "new-version", "-all", build))
	}
	return steps
}

// UnlockKeychain only runs when the keychain password variable is set; the
// password is expanded from the environment at run time.
func (b CommandBuilder) UnlockKeychain(cfg types.BuildConfiguration) types.Step {
	keychain := firstNonEmpty(cfg.KeychainPath, DefaultKeychainPath)
	step := execStep("security", "unlock-keychain", "-p", "${"+KeychainPasswordEnv+"}", keychain)
	step.EnvGuard = KeychainPasswordEnv
	step.Sensitive = true
	return step
}

func (b CommandBuilder) BundleUpdate() types.Step {
	return execStep("bundle", "update")
}

func (b CommandBuilder) PodInstall() types.Step {
	return execStep("pod", "install")
}

func (b CommandBuilder) PodUpdate() types.Step {
	return execStep("pod", "update")
}

// Xctool runs the scheme's tests against the simulator sdk.
func (b CommandBuilder) Xctool(cfg types.BuildConfiguration) (types.Step, error) {
	if err := RequireCoordinates(cfg); err != nil {
		return types.Step{}, err
	}
	return execStep("xctool",
		"-workspace", workspaceBundle(cfg),
		"-scheme", cfg.Scheme,
		"-configuration", cfg.Configuration,
		"-sdk", firstNonEmpty(cfg.TestSDK, DefaultTestSDK),
		"test",
	), nil
}

// Appledoc generates HTML documentation from the source directory.
func (b CommandBuilder) Appledoc(cfg types.BuildConfiguration) (types.Step, error) {
	if err := RequireCoordinates(cfg); err != nil {
		return types.Step{}, err
	}
	args := []string{"--project-name", cfg.Target}
	if org := strings.TrimSpace(cfg.OrganizationName); org != "" {
		args = append(args, "--project-company", org)
	}
	if orgID := strings.TrimSpace(cfg.OrganizationID); orgID != "" {
		args = append(args, "--company-id", orgID)
	}
	if version := strings.TrimSpace(cfg.Version); version != "" {
		args = append(args, "--project-version", version)
	}
	args = append(args,
		"--output", firstNonEmpty(cfg.DocsDir, DefaultDocsDir),
		"--create-html",
		"--no-create-docset",
		firstNonEmpty(cfg.SourceDir, cfg.Target),
	)
	return execStep("appledoc", args...), nil
}

// FrankBuild builds the Frank-instrumented simulator bundle.
func (b CommandBuilder) FrankBuild(cfg types.BuildConfiguration) (types.Step, error) {
	if err := RequireCoordinates(cfg); err != nil {
		return types.Step{}, err
	}
	return execStep("frank", "build",
		fmt.Sprintf("--workspace=%s", workspaceBundle(cfg)),
		fmt.Sprintf("--scheme=%s", cfg.Scheme),
		"--arch=i386",
	), nil
}

// ZipDSYM archives the dSYM bundle next to itself.
func (b CommandBuilder) ZipDSYM(cfg types.BuildConfiguration) (types.Step, error) {
	output, err := b.Paths.OutputPath(cfg)
	if err != nil {
		return types.Step{}, err
	}
	zipFile, err := b.Paths.DSYMZipFile(cfg)
	if err != nil {
		return types.Step{}, err
	}
	dsymDir, err := b.Paths.DSYMDir(cfg)
	if err != nil {
		return types.Step{}, err
	}
	step := execStep("zip", "-r", zipFile, dsymDir)
	step.Dir = output
	return step, nil
}

// TestFlightUpload builds the multipart submission of the ipa and the
// zipped dSYM. A nil credentials block yields an invalid argument error.
func (b CommandBuilder) TestFlightUpload(cfg types.BuildConfiguration) (types.Step, error) {
	ipaPath, err := b.Paths.IPAPath(cfg)
	if err != nil {
		return types.Step{}, err
	}
	zipPath, err := b.Paths.DSYMZipPath(cfg)
	if err != nil {
		return types.Step{}, err
	}
	tf := cfg.TestFlight
	if tf == nil {
		return types.Step{}, missingTestFlight()
	}
	fields := []types.FormField{
		{Name: "api_token", Value: tf.APIToken},
		{Name: "team_token", Value: tf.TeamToken},
		{Name: "notes", Value: tf.Notes},
		{Name: "notify", Value: pythonBool(tf.Notify)},
	}
	if len(tf.DistributionLists) > 0 {
		fields = append(fields, types.FormField{Name: "distribution_lists", Value: strings.Join(tf.DistributionLists, ", ")})
	}
	return types.Step{
		Kind: types.StepKindUpload,
		Upload: &types.UploadRequest{
			URL: firstNonEmpty(tf.Endpoint, DefaultTestFlightURL),
			Files: []types.FormFile{
				{Name: "file", Path: ipaPath},
				{Name: "dsym", Path: zipPath},
			},
			Fields: fields,
		},
	}, nil
}

func makeWritable(ifExists bool, recursive bool, paths ...string) types.Step {
	return types.Step{Kind: types.StepKindWritable, Paths: paths, IfExists: ifExists, Recursive: recursive}
}

func removePath(paths ...string) types.Step {
	return types.Step{Kind: types.StepKindRemove, Paths: paths}
}

func requirePath(message string, paths ...string) types.Step {
	return types.Step{Kind: types.StepKindRequire, Paths: paths, Message: message}
}

func pythonBool(value bool) string {
	if value {
		return "True"
	}
	return "False"
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value)
		}
	}
	return ""
}
