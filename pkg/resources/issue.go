package resources

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/acoulton/github-v3-api/pkg/ghapi"
)

// ErrUnknownLabel is returned when removing a label the issue does not carry.
var ErrUnknownLabel = errors.New("label is not set on issue")

// transformIssue sends labels as a list of names, whatever form they were
// loaded or assigned in.
func transformIssue(_ *ghapi.Entity, data map[string]any) error {
	raw, ok := data["labels"]
	if !ok || raw == nil {
		return nil
	}

	names, err := labelNames(raw)
	if err != nil {
		return err
	}

	data["labels"] = names

	return nil
}

func labelNames(raw any) ([]string, error) {
	switch labels := raw.(type) {
	case []string:
		return labels, nil
	case []any:
		names := make([]string, 0, len(labels))
		for _, label := range labels {
			name, err := labelName(label)
			if err != nil {
				return nil, err
			}

			names = append(names, name)
		}

		return names, nil
	default:
		return nil, fmt.Errorf("labels: %w: got %T", ghapi.ErrInvalidData, raw)
	}
}

func labelName(label any) (string, error) {
	switch l := label.(type) {
	case string:
		return l, nil
	case map[string]any:
		if name, ok := l["name"].(string); ok {
			return name, nil
		}
	case *ghapi.Entity:
		if name, ok := l.AsMap()["name"].(string); ok {
			return name, nil
		}
	}

	return "", fmt.Errorf("label: %w: got %T", ghapi.ErrInvalidData, label)
}

// Comments lists the issue's comments.
func Comments(issue *ghapi.Entity) (*ghapi.Collection, error) {
	return issue.FetchCollection("comments", Comment, nil)
}

// AddComment posts a new comment on the issue.
func AddComment(ctx context.Context, issue *ghapi.Entity, body string) (*ghapi.Entity, error) {
	return issue.CreateChild(ctx, "/comments", Comment, map[string]any{"body": body})
}

// IssueEvents lists the issue's events.
func IssueEvents(issue *ghapi.Entity) (*ghapi.Collection, error) {
	return issue.FetchCollection("events", IssueEvent, nil)
}

// IssueLabels returns the names of the labels on the issue, loading it if
// needed.
func IssueLabels(ctx context.Context, issue *ghapi.Entity) ([]string, error) {
	raw, err := issue.Get(ctx, "labels")
	if err != nil {
		return nil, err
	}

	if raw == nil {
		return nil, nil
	}

	return labelNames(raw)
}

// AddLabels adds labels to the issue. The issue's labels are replaced by the
// full set returned by the API.
func AddLabels(ctx context.Context, client *ghapi.Client, issue *ghapi.Entity, labels ...string) error {
	u, err := repoURL(issue)
	if err != nil {
		return err
	}

	data, err := client.RequestJSON(ctx, http.MethodPost, u+"/labels", labels, ghapi.ExpectStatus(http.StatusOK))
	if err != nil {
		return fmt.Errorf("adding labels: %w", err)
	}

	return issue.Hydrate("labels", data)
}

// RemoveLabel removes one label from the issue.
func RemoveLabel(ctx context.Context, client *ghapi.Client, issue *ghapi.Entity, label string) error {
	current, err := IssueLabels(ctx, issue)
	if err != nil {
		return err
	}

	found := false
	for _, name := range current {
		if name == label {
			found = true

			break
		}
	}

	if !found {
		return fmt.Errorf("%w: %s", ErrUnknownLabel, label)
	}

	u, err := repoURL(issue)
	if err != nil {
		return err
	}

	data, err := client.RequestJSON(ctx, http.MethodDelete, u+"/labels/"+url.PathEscape(label), nil,
		ghapi.ExpectStatus(http.StatusOK))
	if err != nil {
		return fmt.Errorf("removing label %s: %w", label, err)
	}

	return issue.Hydrate("labels", data)
}

// ClearLabels removes every label from the issue.
func ClearLabels(ctx context.Context, client *ghapi.Client, issue *ghapi.Entity) error {
	u, err := repoURL(issue)
	if err != nil {
		return err
	}

	_, err = client.Request(ctx, http.MethodDelete, u+"/labels", nil, ghapi.ExpectStatus(http.StatusNoContent, http.StatusOK))
	if err != nil {
		return fmt.Errorf("clearing labels: %w", err)
	}

	return issue.Hydrate("labels", []any{})
}
