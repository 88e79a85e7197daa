package resources

import (
	"context"

	"github.com/acoulton/github-v3-api/pkg/ghapi"
)

// Session hands out the top-level GitHub resources of one Client. Repos and
// the issues behind pull requests are cached so that repeated lookups share
// one entity.
type Session struct {
	client *ghapi.Client
	repos  map[string]*ghapi.Entity
	issues map[*ghapi.Entity]*ghapi.Entity
}

// NewSession creates a session on client.
func NewSession(client *ghapi.Client) *Session {
	return &Session{
		client: client,
		repos:  make(map[string]*ghapi.Entity),
		issues: make(map[*ghapi.Entity]*ghapi.Entity),
	}
}

// Client returns the session's gateway.
func (s *Session) Client() *ghapi.Client {
	return s.client
}

// CurrentUser returns the authenticated user.
func (s *Session) CurrentUser() (*ghapi.Entity, error) {
	return s.client.NewEntity(User, map[string]any{"url": "user"})
}

// User returns the named user.
func (s *Session) User(login string) (*ghapi.Entity, error) {
	return s.client.NewEntity(User, map[string]any{"url": "users/" + login})
}

// Organization returns the named organization.
func (s *Session) Organization(login string) (*ghapi.Entity, error) {
	return s.client.NewEntity(Organization, map[string]any{"url": "orgs/" + login, "login": login})
}

// Repo returns the repository owner/name.
func (s *Session) Repo(owner, name string) (*ghapi.Entity, error) {
	key := owner + "/" + name
	if repo, ok := s.repos[key]; ok {
		return repo, nil
	}

	repo, err := s.client.NewEntity(Repo, map[string]any{
		"url":   "repos/" + key,
		"owner": owner,
		"name":  name,
	})
	if err != nil {
		return nil, err
	}

	s.repos[key] = repo

	return repo, nil
}

// PullIssue returns the issue backing pull. The issue is built on the first
// call for each pull and reused afterwards.
func (s *Session) PullIssue(ctx context.Context, pull *ghapi.Entity) (*ghapi.Entity, error) {
	if issue, ok := s.issues[pull]; ok {
		return issue, nil
	}

	issue, err := PullIssue(ctx, s.client, pull)
	if err != nil {
		return nil, err
	}

	s.issues[pull] = issue

	return issue, nil
}

// AddSimpleComment comments on the pull request's conversation.
func (s *Session) AddSimpleComment(ctx context.Context, pull *ghapi.Entity, body string) (*ghapi.Entity, error) {
	issue, err := s.PullIssue(ctx, pull)
	if err != nil {
		return nil, err
	}

	return AddComment(ctx, issue, body)
}
