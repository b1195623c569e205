package app

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"xctasks/internal/core"
	"xctasks/internal/types"
)

// Configure loads the project file, resolves the project root from its
// location and freezes the task graph. Notes for the upload are filled from
// the CI changelog here, once, so the graph never changes during a run.
func (s Service) Configure(ctx context.Context, req ConfigureRequest) (Session, error) {
	projectPath := strings.TrimSpace(req.ProjectPath)
	if projectPath == "" {
		return Session{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("project file path is required")
	}
	absPath, err := filepath.Abs(projectPath)
	if err != nil {
		return Session{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to resolve project file path").
			WithCause(err)
	}
	project, err := s.ProjectFile.LoadProject(absPath)
	if err != nil {
		return Session{}, err
	}
	cfg := core.ApplyDefaults(project.Xcode)
	if err := core.RequireCoordinates(cfg); err != nil {
		return Session{}, err
	}
	if err := core.ValidateConfiguration(cfg); err != nil {
		return Session{}, err
	}
	cfg.KeychainPath, err = s.expandHome(cfg.KeychainPath)
	if err != nil {
		return Session{}, err
	}
	if !req.SkipChangelog {
		cfg, err = s.fillNotes(ctx, cfg)
		if err != nil {
			return Session{}, err
		}
	}

	root := filepath.Dir(absPath)
	paths := core.NewPathDeriver(root)
	graph, err := core.NewTaskSet(paths).Graph(cfg)
	if err != nil {
		return Session{}, err
	}
	log.Ctx(ctx).Debug().
		Str("project", absPath).
		Str("root", root).
		Int("tasks", len(graph.Names())).
		Msg("project configured")
	return Session{
		ProjectPath: absPath,
		Root:        root,
		Config:      cfg,
		Paths:       paths,
		Graph:       graph,
	}, nil
}

func (s Service) fillNotes(ctx context.Context, cfg types.BuildConfiguration) (types.BuildConfiguration, error) {
	tf := cfg.TestFlight
	if tf == nil || !tf.NotesFromChangelog || strings.TrimSpace(tf.Notes) != "" {
		return cfg, nil
	}
	req := ChangelogRequest{}
	if cfg.Changelog != nil {
		req.ExcludeAuthor = cfg.Changelog.ExcludeAuthor
		req.Strict = cfg.Changelog.Strict
	}
	result, err := s.Changelog(ctx, req)
	if err != nil {
		return cfg, err
	}
	filled := *tf
	filled.Notes = result.Notes
	cfg.TestFlight = &filled
	return cfg, nil
}

func (s Service) expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	homeDir := s.HomeDir
	if homeDir == nil {
		return path, nil
	}
	home, err := homeDir()
	if err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg("failed to resolve home directory for keychain path").
			WithCause(err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
