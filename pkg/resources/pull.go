package resources

import (
	"context"
	"fmt"
	"regexp"

	"github.com/acoulton/github-v3-api/pkg/ghapi"
)

var (
	issueHTMLURL = regexp.MustCompile(`^https?://github\.com/([^/]+)/([^/]+)/issues/(\d+)$`)
	pullHTMLURL  = regexp.MustCompile(`^https?://github\.com/([^/]+)/([^/]+)/pull/(\d+)$`)
)

// pullURLFromHTML maps a pull request web page to its API path. Issues
// embed pull_request with only html_url set.
func pullURLFromHTML(data map[string]any) (string, bool) {
	htmlURL, _ := data["html_url"].(string)

	m := pullHTMLURL.FindStringSubmatch(htmlURL)
	if m == nil {
		return "", false
	}

	return "repos/" + m[1] + "/" + m[2] + "/pulls/" + m[3], true
}

// PullIssue returns the issue backing a pull request. Older API versions
// report issue_url as a web page; it is rewritten to the API path.
func PullIssue(ctx context.Context, client *ghapi.Client, pull *ghapi.Entity) (*ghapi.Entity, error) {
	issueURL, err := pull.GetString(ctx, "issue_url")
	if err != nil {
		return nil, err
	}

	if issueURL == "" {
		return nil, fmt.Errorf("%s.issue_url: %w", pull.Schema().Name, ghapi.ErrMissingProperty)
	}

	if m := issueHTMLURL.FindStringSubmatch(issueURL); m != nil {
		issueURL = "repos/" + m[1] + "/" + m[2] + "/issues/" + m[3]
	}

	return client.NewEntity(Issue, map[string]any{"url": issueURL})
}

// PullCommits lists the commits of a pull request.
func PullCommits(pull *ghapi.Entity) (*ghapi.Collection, error) {
	return pull.FetchCollection("commits", Commit, nil)
}
