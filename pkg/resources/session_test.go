package resources_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acoulton/github-v3-api/pkg/resources"
)

func TestSession(t *testing.T) {
	t.Parallel()

	stub := newGitHubStub(t, map[string]http.HandlerFunc{
		"GET /user":          respond(http.StatusOK, map[string]any{"login": "me", "id": 1}),
		"GET /users/octocat": respond(http.StatusOK, map[string]any{"login": "octocat", "id": 583231}),
		"GET /orgs/github":   respond(http.StatusOK, map[string]any{"login": "github", "name": "GitHub"}),
		"GET /repos/octocat/Hello-World": respond(http.StatusOK, map[string]any{
			"id":    1296269,
			"name":  "Hello-World",
			"owner": map[string]any{"login": "octocat"},
		}),
	})
	ctx := context.Background()
	session := resources.NewSession(stub.client(t))

	t.Run("current user", func(t *testing.T) {
		user, err := session.CurrentUser()
		require.NoError(t, err)

		u, ok := user.URL()
		assert.True(t, ok)
		assert.Equal(t, "user", u)

		login, err := user.GetString(ctx, "login")
		require.NoError(t, err)
		assert.Equal(t, "me", login)
	})

	t.Run("named user", func(t *testing.T) {
		user, err := session.User("octocat")
		require.NoError(t, err)

		id, err := user.GetInt(ctx, "id")
		require.NoError(t, err)
		assert.Equal(t, 583231, id)
	})

	t.Run("organization", func(t *testing.T) {
		org, err := session.Organization("github")
		require.NoError(t, err)

		name, err := org.GetString(ctx, "name")
		require.NoError(t, err)
		assert.Equal(t, "GitHub", name)
	})
}

func TestSessionRepoIsCached(t *testing.T) {
	t.Parallel()

	stub := newGitHubStub(t, map[string]http.HandlerFunc{
		"GET /repos/octocat/Hello-World": respond(http.StatusOK, map[string]any{
			"id":    1296269,
			"owner": map[string]any{"login": "octocat", "url": "users/octocat"},
		}),
	})
	ctx := context.Background()
	session := resources.NewSession(stub.client(t))

	repo, err := session.Repo("octocat", "Hello-World")
	require.NoError(t, err)

	// name is known without a request
	name, err := repo.GetString(ctx, "name")
	require.NoError(t, err)
	assert.Equal(t, "Hello-World", name)
	assert.Empty(t, stub.recorded())

	again, err := session.Repo("octocat", "Hello-World")
	require.NoError(t, err)
	assert.Same(t, repo, again)

	id, err := repo.GetInt(ctx, "id")
	require.NoError(t, err)
	assert.Equal(t, 1296269, id)

	owner, err := repo.GetEntity(ctx, "owner")
	require.NoError(t, err)
	assert.Equal(t, resources.User, owner.Schema())

	other, err := session.Repo("octocat", "Spoon-Knife")
	require.NoError(t, err)
	assert.NotSame(t, repo, other)
}
