package adapters

import (
	"bytes"
	"errors"
	"io"
	"os"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"xctasks/internal/ports"
	"xctasks/internal/types"
)

const ProjectAPIVersion = "xctasks/v1"

type ProjectFileAdapter struct{}

func NewProjectFileAdapter() ProjectFileAdapter {
	return ProjectFileAdapter{}
}

func (a ProjectFileAdapter) LoadProject(path string) (types.ProjectFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.ProjectFile{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("project file not found").
			WithCause(err)
	}
	var project types.ProjectFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&project); err != nil && !errors.Is(err, io.EOF) {
		return types.ProjectFile{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse project yaml").
			WithCause(err)
	}
	if project.APIVersion != "" && project.APIVersion != ProjectAPIVersion {
		return types.ProjectFile{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("unsupported project api_version: " + project.APIVersion)
	}
	return project, nil
}

var _ ports.ProjectFilePort = ProjectFileAdapter{}
