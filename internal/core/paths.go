package core

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"xctasks/internal/types"
)

// PathDeriver computes the canonical artifact locations of a build from its
// configuration. Every value is recomputed on each call; Root is the
// absolute project directory resolved once at startup.
type PathDeriver struct {
	Root string
}

func NewPathDeriver(root string) PathDeriver {
	if strings.TrimSpace(root) == "" {
		return PathDeriver{}
	}
	return PathDeriver{Root: filepath.Clean(root)}
}

// SchemeDir returns "{configuration}-{sdk}".
func (d PathDeriver) SchemeDir(cfg types.BuildConfiguration) (string, error) {
	if err := RequireCoordinates(cfg); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%s", cfg.Configuration, cfg.SDK), nil
}

// ProductsRoot is the SYMROOT/OBJROOT handed to xcodebuild.
func (d PathDeriver) ProductsRoot(cfg types.BuildConfiguration) (string, error) {
	if err := d.requireRoot(); err != nil {
		return "", err
	}
	if err := RequireCoordinates(cfg); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/%s/%s/Build/Products", strings.TrimRight(d.Root, "/"), buildDir(cfg), cfg.Workspace), nil
}

// OutputPath always ends with a slash so file names can be appended.
func (d PathDeriver) OutputPath(cfg types.BuildConfiguration) (string, error) {
	products, err := d.ProductsRoot(cfg)
	if err != nil {
		return "", err
	}
	schemeDir, err := d.SchemeDir(cfg)
	if err != nil {
		return "", err
	}
	return products + "/" + schemeDir + "/", nil
}

func (d PathDeriver) AppFile(cfg types.BuildConfiguration) (string, error) {
	if err := RequireCoordinates(cfg); err != nil {
		return "", err
	}
	return cfg.Target + ".app", nil
}

func (d PathDeriver) AppPath(cfg types.BuildConfiguration) (string, error) {
	return d.join(cfg, d.AppFile)
}

func (d PathDeriver) DSYMDir(cfg types.BuildConfiguration) (string, error) {
	app, err := d.AppFile(cfg)
	if err != nil {
		return "", err
	}
	return app + ".dSYM", nil
}

func (d PathDeriver) DSYMPath(cfg types.BuildConfiguration) (string, error) {
	return d.join(cfg, d.DSYMDir)
}

func (d PathDeriver) DSYMZipFile(cfg types.BuildConfiguration) (string, error) {
	dsym, err := d.DSYMDir(cfg)
	if err != nil {
		return "", err
	}
	return dsym + ".zip", nil
}

func (d PathDeriver) DSYMZipPath(cfg types.BuildConfiguration) (string, error) {
	return d.join(cfg, d.DSYMZipFile)
}

// IPAFile returns "{target}-{version}.ipa"; a version is required.
func (d PathDeriver) IPAFile(cfg types.BuildConfiguration) (string, error) {
	if err := RequireCoordinates(cfg); err != nil {
		return "", err
	}
	if strings.TrimSpace(cfg.Version) == "" {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("missing xcode configuration: xcode.version")
	}
	return fmt.Sprintf("%s-%s.ipa", cfg.Target, cfg.Version), nil
}

func (d PathDeriver) IPAPath(cfg types.BuildConfiguration) (string, error) {
	return d.join(cfg, d.IPAFile)
}

// Derive computes every artifact path at once.
func (d PathDeriver) Derive(cfg types.BuildConfiguration) (types.ArtifactPaths, error) {
	var paths types.ArtifactPaths
	steps := []struct {
		dst *string
		fn  func(types.BuildConfiguration) (string, error)
	}{
		{&paths.SchemeDir, d.SchemeDir},
		{&paths.ProductsRoot, d.ProductsRoot},
		{&paths.OutputPath, d.OutputPath},
		{&paths.AppFile, d.AppFile},
		{&paths.AppPath, d.AppPath},
		{&paths.DSYMDir, d.DSYMDir},
		{&paths.DSYMPath, d.DSYMPath},
		{&paths.DSYMZipFile, d.DSYMZipFile},
		{&paths.DSYMZipPath, d.DSYMZipPath},
		{&paths.IPAFile, d.IPAFile},
		{&paths.IPAPath, d.IPAPath},
	}
	for _, step := range steps {
		value, err := step.fn(cfg)
		if err != nil {
			return types.ArtifactPaths{}, err
		}
		*step.dst = value
	}
	return paths, nil
}

func (d PathDeriver) join(cfg types.BuildConfiguration, name func(types.BuildConfiguration) (string, error)) (string, error) {
	output, err := d.OutputPath(cfg)
	if err != nil {
		return "", err
	}
	file, err := name(cfg)
	if err != nil {
		return "", err
	}
	return output + file, nil
}

func (d PathDeriver) requireRoot() error {
	if strings.TrimSpace(d.Root) == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("project root directory is not set")
	}
	return nil
}

func buildDir(cfg types.BuildConfiguration) string {
	dir := strings.Trim(strings.TrimSpace(cfg.BuildDir), "/")
	if dir == "" {
		return DefaultBuildDir
	}
	return dir
}
