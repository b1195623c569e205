package adapters

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"xctasks/internal/ports"
	"xctasks/internal/shared"
	"xctasks/internal/types"
)

const defaultChangelogTimeout = 30 * time.Second

// JenkinsChangelogAdapter reads the change set of a Jenkins build through
// the XML remote API.
type JenkinsChangelogAdapter struct {
	Client *http.Client
}

func NewJenkinsChangelogAdapter(timeout time.Duration) JenkinsChangelogAdapter {
	if timeout <= 0 {
		timeout = defaultChangelogTimeout
	}
	return JenkinsChangelogAdapter{Client: &http.Client{Timeout: timeout}}
}

type jenkinsChanges struct {
	Items []jenkinsItem `xml:"item"`
}

type jenkinsItem struct {
	Author jenkinsAuthor `xml:"author"`
	Msg    string        `xml:"msg"`
}

type jenkinsAuthor struct {
	FullName string `xml:"fullName"`
}

// ChangesURL builds the XML API address for one build's change set.
func ChangesURL(ci types.CIContext) string {
	server := strings.TrimSpace(ci.ServerURL)
	if !strings.HasSuffix(server, "/") {
		server += "/"
	}
	return fmt.Sprintf("%sjob/%s/%s/api/xml?wrapper=changes&xpath=//changeSet//item", server, ci.JobName, ci.BuildNumber)
}

func (a JenkinsChangelogAdapter) FetchChanges(ctx context.Context, ci types.CIContext) ([]types.ChangeItem, error) {
	url := ChangesURL(ci)
	log.Debug().Str("url", url).Msg("fetching changelog")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to create changelog request").
			WithCause(err)
	}
	client := a.Client
	if client == nil {
		client = &http.Client{Timeout: defaultChangelogTimeout}
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("changelog request failed").
			WithCause(err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to read changelog response").
			WithCause(err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("changelog request failed").
			WithCause(shared.HTTPStatusErrorWithBody(resp.StatusCode, url, strings.TrimSpace(string(body))))
	}
	return ParseChangesXML(body)
}

// ParseChangesXML decodes a Jenkins change set wrapper document.
func ParseChangesXML(data []byte) ([]types.ChangeItem, error) {
	var changes jenkinsChanges
	if err := xml.Unmarshal(data, &changes); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse changelog xml").
			WithCause(err)
	}
	items := make([]types.ChangeItem, 0, len(changes.Items))
	for _, item := range changes.Items {
		items = append(items, types.ChangeItem{
			Author:  strings.TrimSpace(item.Author.FullName),
			Message: item.Msg,
		})
	}
	return items, nil
}

var _ ports.ChangelogSourcePort = JenkinsChangelogAdapter{}
