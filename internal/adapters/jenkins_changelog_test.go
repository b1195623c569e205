package adapters

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xctasks/internal/types"
)

const changesXML = `<changes>
  <item>
    <author><fullName>Ada Lovelace</fullName></author>
    <msg>Fix crash on launch
Signed-off-by: Ada Lovelace</msg>
  </item>
  <item>
    <author><fullName> jenkins </fullName></author>
    <msg>Bump build number</msg>
  </item>
</changes>`

func TestChangesURL(t *testing.T) {
	ci := types.CIContext{ServerURL: "http://ci.local:8080", JobName: "ios-app", BuildNumber: "118"}
	want := "http://ci.local:8080/job/ios-app/118/api/xml?wrapper=changes&xpath=//changeSet//item"
	assert.Equal(t, want, ChangesURL(ci))

	ci.ServerURL = "http://ci.local:8080/"
	assert.Equal(t, want, ChangesURL(ci))
}

func TestParseChangesXML(t *testing.T) {
	items, err := ParseChangesXML([]byte(changesXML))
	require.NoError(t, err)
	want := []types.ChangeItem{
		{Author: "Ada Lovelace", Message: "Fix crash on launch\nSigned-off-by: Ada Lovelace"},
		{Author: "jenkins", Message: "Bump build number"},
	}
	if diff := cmp.Diff(want, items); diff != "" {
		t.Fatalf("unexpected items (-want +got):\n%s", diff)
	}

	empty, err := ParseChangesXML([]byte("<changes/>"))
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = ParseChangesXML([]byte("<changes><item>"))
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
}

func TestJenkinsChangelogAdapterFetch(t *testing.T) {
	var gotPath, gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/xml")
		_, _ = w.Write([]byte(changesXML))
	}))
	defer server.Close()

	adapter := NewJenkinsChangelogAdapter(5 * time.Second)
	items, err := adapter.FetchChanges(t.Context(), types.CIContext{
		ServerURL:   server.URL,
		JobName:     "ios-app",
		BuildNumber: "7",
	})
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, "/job/ios-app/7/api/xml", gotPath)
	assert.Equal(t, "wrapper=changes&xpath=//changeSet//item", gotQuery)
}

func TestJenkinsChangelogAdapterHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "no such build", http.StatusNotFound)
	}))
	defer server.Close()

	adapter := NewJenkinsChangelogAdapter(0)
	_, err := adapter.FetchChanges(t.Context(), types.CIContext{ServerURL: server.URL, JobName: "x", BuildNumber: "1"})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInternal, errbuilder.CodeOf(err))
}
