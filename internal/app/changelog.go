package app

import (
	"context"

	"github.com/rs/zerolog/log"

	"xctasks/internal/core"
)

// Changelog builds release notes from the changes of the current CI build.
// Without a CI context the default notes are returned. Fetch failures fail
// the call only in strict mode; otherwise they are logged and the default
// notes are used.
func (s Service) Changelog(ctx context.Context, req ChangelogRequest) (ChangelogResult, error) {
	ci, ok := core.CIContextFromEnv(s.env())
	if !ok {
		log.Ctx(ctx).Debug().Msg("no CI context, using default release notes")
		return ChangelogResult{Notes: core.DefaultReleaseNotes}, nil
	}
	items, err := s.ChangelogSource.FetchChanges(ctx, ci)
	if err != nil {
		if req.Strict {
			return ChangelogResult{}, err
		}
		log.Ctx(ctx).Warn().
			Err(err).
			Str("job", ci.JobName).
			Str("build", ci.BuildNumber).
			Msg("changelog unavailable, using default release notes")
		return ChangelogResult{Notes: core.DefaultReleaseNotes}, nil
	}
	return ChangelogResult{
		Notes:  core.ReleaseNotes(items, req.ExcludeAuthor),
		FromCI: true,
	}, nil
}
