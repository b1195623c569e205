package ports

import "xctasks/internal/types"

type ProjectFilePort interface {
	LoadProject(path string) (types.ProjectFile, error)
}
