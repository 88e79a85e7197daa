package resources

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/acoulton/github-v3-api/pkg/ghapi"
)

// IssueFilter selects the issues of a repository. Zero values use the API
// defaults below.
type IssueFilter struct {
	Filter    string // default "assigned"
	State     string // default "open"
	Labels    []string
	Sort      string // default "created"
	Direction string // default "desc"
	Since     time.Time
}

func (f IssueFilter) values() url.Values {
	params := url.Values{}
	params.Set("filter", orDefault(f.Filter, "assigned"))
	params.Set("state", orDefault(f.State, "open"))
	params.Set("sort", orDefault(f.Sort, "created"))
	params.Set("direction", orDefault(f.Direction, "desc"))

	if len(f.Labels) > 0 {
		params.Set("labels", strings.Join(f.Labels, ","))
	}

	if !f.Since.IsZero() {
		params.Set("since", f.Since.Format(time.RFC3339))
	}

	return params
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}

	return value
}

// Issues lists the repository's issues.
func Issues(repo *ghapi.Entity, filter IssueFilter) (*ghapi.Collection, error) {
	return repo.FetchCollection("issues", Issue, filter.values())
}

// Pulls lists pull requests in the given state ("open" when empty).
func Pulls(repo *ghapi.Entity, state string) (*ghapi.Collection, error) {
	return repo.FetchCollection("pulls", Pull, url.Values{"state": []string{orDefault(state, "open")}})
}

// RepoIssueEvents lists the events of every issue in the repository.
func RepoIssueEvents(repo *ghapi.Entity) (*ghapi.Collection, error) {
	return repo.FetchCollection("issues/events", IssueEvent, nil)
}

// Labels lists the repository's issue labels.
func Labels(repo *ghapi.Entity) (*ghapi.Collection, error) {
	return repo.FetchCollection("labels", Label, nil)
}

// Milestones lists milestones. Empty arguments use "open", "due_date" and
// "desc".
func Milestones(repo *ghapi.Entity, state, sort, direction string) (*ghapi.Collection, error) {
	params := url.Values{}
	params.Set("state", orDefault(state, "open"))
	params.Set("sort", orDefault(sort, "due_date"))
	params.Set("direction", orDefault(direction, "desc"))

	return repo.FetchCollection("milestones", Milestone, params)
}

// Contributors lists contributors, including anonymous ones when anon is set.
func Contributors(repo *ghapi.Entity, anon bool) (*ghapi.Collection, error) {
	var params url.Values
	if anon {
		params = url.Values{"anon": []string{"1"}}
	}

	return repo.FetchCollection("contributors", User, params)
}

// Teams lists the teams with access to the repository.
func Teams(repo *ghapi.Entity) (*ghapi.Collection, error) {
	return repo.FetchCollection("teams", Team, nil)
}

// Tags lists the repository's tags.
func Tags(repo *ghapi.Entity) (*ghapi.Collection, error) {
	return repo.FetchCollection("tags", Tag, nil)
}

// Branches lists the repository's branches.
func Branches(repo *ghapi.Entity) (*ghapi.Collection, error) {
	return repo.FetchCollection("branches", Branch, nil)
}

// Hooks lists the repository's hooks.
func Hooks(repo *ghapi.Entity) (*ghapi.Collection, error) {
	return repo.FetchCollection("hooks", Hook, nil)
}

// Forks lists forks of the repository.
func Forks(repo *ghapi.Entity) (*ghapi.Collection, error) {
	return repo.FetchCollection("forks", Repo, nil)
}

// Collaborators lists the repository's collaborators.
func Collaborators(repo *ghapi.Entity) (*ghapi.Collection, error) {
	return repo.FetchCollection("collaborators", User, nil)
}

// Languages returns the byte count per language.
func Languages(ctx context.Context, client *ghapi.Client, repo *ghapi.Entity) (map[string]any, error) {
	u, err := repoURL(repo)
	if err != nil {
		return nil, err
	}

	data, err := client.RequestJSON(ctx, http.MethodGet, u+"/languages", nil)
	if err != nil {
		return nil, fmt.Errorf("listing languages: %w", err)
	}

	languages, _ := data.(map[string]any)

	return languages, nil
}

// IsCollaborator reports whether login is a collaborator on the repository.
func IsCollaborator(ctx context.Context, client *ghapi.Client, repo *ghapi.Entity, login string) (bool, error) {
	u, err := repoURL(repo)
	if err != nil {
		return false, err
	}

	resp, err := client.Request(ctx, http.MethodGet, u+"/collaborators/"+login, nil,
		ghapi.ExpectStatus(http.StatusNoContent, http.StatusNotFound))
	if err != nil {
		return false, fmt.Errorf("checking collaborator %s: %w", login, err)
	}

	return resp.StatusCode == http.StatusNoContent, nil
}

// AddCollaborator grants login access to the repository.
func AddCollaborator(ctx context.Context, client *ghapi.Client, repo *ghapi.Entity, login string) error {
	u, err := repoURL(repo)
	if err != nil {
		return err
	}

	_, err = client.Request(ctx, http.MethodPut, u+"/collaborators/"+login, nil,
		ghapi.ExpectStatus(http.StatusNoContent))
	if err != nil {
		return fmt.Errorf("adding collaborator %s: %w", login, err)
	}

	return nil
}

// RemoveCollaborator revokes login's access to the repository.
func RemoveCollaborator(ctx context.Context, client *ghapi.Client, repo *ghapi.Entity, login string) error {
	u, err := repoURL(repo)
	if err != nil {
		return err
	}

	_, err = client.Request(ctx, http.MethodDelete, u+"/collaborators/"+login, nil)
	if err != nil {
		return fmt.Errorf("removing collaborator %s: %w", login, err)
	}

	return nil
}

// UserRepos lists a user's or organization's public repositories.
func UserRepos(owner *ghapi.Entity) (*ghapi.Collection, error) {
	return owner.FetchCollection("repos", Repo, nil)
}

func repoURL(e *ghapi.Entity) (string, error) {
	u, ok := e.URL()
	if !ok {
		return "", fmt.Errorf("%s: %w", e.Schema().Name, ghapi.ErrMissingURL)
	}

	return u, nil
}
