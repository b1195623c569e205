package app

import "context"

func (s Service) Paths(ctx context.Context, req PathsRequest) (PathsResult, error) {
	session, err := s.Configure(ctx, ConfigureRequest{ProjectPath: req.ProjectPath, SkipChangelog: true})
	if err != nil {
		return PathsResult{}, err
	}
	paths, err := session.Paths.Derive(session.Config)
	if err != nil {
		return PathsResult{}, err
	}
	return PathsResult{Root: session.Root, Paths: paths}, nil
}
