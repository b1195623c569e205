package core

import (
	"regexp"
	"strings"

	"xctasks/internal/types"
)

// DefaultReleaseNotes is used when no CI context exists or no change
// message survives filtering.
const DefaultReleaseNotes = "User release"

var (
	bulletPrefix = regexp.MustCompile(`^(-\s*|\*\s*)`)
	signedOffBy  = regexp.MustCompile(`(?i)signed-off-by`)
)

// FilterChangelog turns CI change items into release notes: items by
// excludeAuthor are dropped, every remaining message line is stripped of
// list bullets and re-prefixed with "* ", and blank or sign-off lines are
// discarded.
func FilterChangelog(items []types.ChangeItem, excludeAuthor string) []string {
	var lines []string
	for _, item := range items {
		if excludeAuthor != "" && item.Author == excludeAuthor {
			continue
		}
		message := strings.ReplaceAll(item.Message, "'", "")
		for _, line := range strings.Split(message, "\n") {
			line = strings.TrimSpace(line)
			line = strings.TrimSpace(bulletPrefix.ReplaceAllString(line, ""))
			if line == "" || signedOffBy.MatchString(line) {
				continue
			}
			lines = append(lines, "* "+line)
		}
	}
	return lines
}

// ReleaseNotes joins filtered lines, falling back to DefaultReleaseNotes.
func ReleaseNotes(items []types.ChangeItem, excludeAuthor string) string {
	lines := FilterChangelog(items, excludeAuthor)
	if len(lines) == 0 {
		return DefaultReleaseNotes
	}
	return strings.Join(lines, "\n")
}

// CIContextFromEnv reads the Jenkins job identity. ok is false unless all
// three variables are set.
func CIContextFromEnv(env EnvLookup) (types.CIContext, bool) {
	server, okServer := env("JENKINS_URL")
	job, okJob := env("JOB_NAME")
	build, okBuild := env("BUILD_NUMBER")
	if !okServer || !okJob || !okBuild || server == "" || job == "" || build == "" {
		return types.CIContext{}, false
	}
	return types.CIContext{ServerURL: server, JobName: job, BuildNumber: build}, true
}
