package app

import (
	"context"

	"xctasks/internal/core"
)

func (s Service) Validate(ctx context.Context, req ValidateRequest) (ValidateResult, error) {
	session, err := s.Configure(ctx, ConfigureRequest{ProjectPath: req.ProjectPath, SkipChangelog: true})
	if err != nil {
		return ValidateResult{}, err
	}
	return ValidateResult{
		Workspace: session.Config.Workspace,
		Scheme:    session.Config.Scheme,
		Root:      session.Root,
		Tasks:     len(session.Graph.Names()),
		Upload:    session.Graph.Has(core.TaskUploadTF),
	}, nil
}
