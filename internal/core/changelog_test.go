package core

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"xctasks/internal/types"
)

func TestFilterChangelog(t *testing.T) {
	items := []types.ChangeItem{
		{Author: "jenkins", Message: "Bump build number"},
		{Author: "Ada Lovelace", Message: "- Fix crash when rotating\n\n* Don't drop cached images\nSigned-off-by: Ada Lovelace <ada@example.com>"},
		{Author: "Grace Hopper", Message: "   Improve login flow   "},
	}

	got := FilterChangelog(items, "jenkins")
	want := []string{
		"* Fix crash when rotating",
		"* Dont drop cached images",
		"* Improve login flow",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected changelog (-want +got):\n%s", diff)
	}
}

func TestFilterChangelogNoExclusion(t *testing.T) {
	items := []types.ChangeItem{{Author: "", Message: "Initial import"}}
	assert.Equal(t, []string{"* Initial import"}, FilterChangelog(items, ""))
}

func TestFilterChangelogCaseInsensitiveSignOff(t *testing.T) {
	items := []types.ChangeItem{{Author: "a", Message: "SIGNED-OFF-BY: a\nsigned-off-by: b"}}
	assert.Empty(t, FilterChangelog(items, ""))
}

func TestReleaseNotes(t *testing.T) {
	assert.Equal(t, DefaultReleaseNotes, ReleaseNotes(nil, ""))
	assert.Equal(t, DefaultReleaseNotes, ReleaseNotes([]types.ChangeItem{{Author: "jenkins", Message: "bump"}}, "jenkins"))

	notes := ReleaseNotes([]types.ChangeItem{{Author: "a", Message: "one\ntwo"}}, "")
	assert.Equal(t, "* one\n* two", notes)
}

func TestCIContextFromEnv(t *testing.T) {
	env := map[string]string{
		"JENKINS_URL":  "http://ci.local/",
		"JOB_NAME":     "ios-app",
		"BUILD_NUMBER": "118",
	}
	ci, ok := CIContextFromEnv(mapEnv(env))
	assert.True(t, ok)
	assert.Equal(t, types.CIContext{ServerURL: "http://ci.local/", JobName: "ios-app", BuildNumber: "118"}, ci)

	delete(env, "BUILD_NUMBER")
	_, ok = CIContextFromEnv(mapEnv(env))
	assert.False(t, ok)
}
