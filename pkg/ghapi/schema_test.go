package ghapi_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acoulton/github-v3-api/pkg/ghapi"
)

func TestRegistry(t *testing.T) {
	t.Parallel()

	t.Run("resolves references", func(t *testing.T) {
		t.Parallel()

		registry := ghapi.NewRegistry()
		registry.Register(
			&ghapi.Schema{Name: "user", Fields: []ghapi.Field{ghapi.Scalar("login")}},
			&ghapi.Schema{Name: "repo", Fields: []ghapi.Field{ghapi.Ref("owner", "user")}},
		)

		require.NoError(t, registry.Resolve())
		assert.Equal(t, []string{"repo", "user"}, registry.Names())

		repo, err := registry.Lookup("repo")
		require.NoError(t, err)
		assert.True(t, repo.Has("owner"))
		assert.False(t, repo.Has("login"))
		assert.Equal(t, []string{"owner"}, repo.FieldNames())
	})

	t.Run("unknown reference", func(t *testing.T) {
		t.Parallel()

		registry := ghapi.NewRegistry()
		registry.Register(&ghapi.Schema{Name: "repo", Fields: []ghapi.Field{ghapi.Ref("owner", "user")}})

		err := registry.Resolve()
		require.ErrorIs(t, err, ghapi.ErrUnknownType)
		assert.Contains(t, err.Error(), "repo.owner")
	})

	t.Run("undeclared default field", func(t *testing.T) {
		t.Parallel()

		registry := ghapi.NewRegistry()
		registry.Register(&ghapi.Schema{Name: "user", DefaultField: "login"})

		require.ErrorIs(t, registry.Resolve(), ghapi.ErrInvalidProperty)
	})

	t.Run("unknown lookup", func(t *testing.T) {
		t.Parallel()

		_, err := ghapi.NewRegistry().Lookup("gist")
		require.ErrorIs(t, err, ghapi.ErrUnknownType)
	})
}

func TestFieldKind_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "scalar", ghapi.KindScalar.String())
	assert.Equal(t, "writable", ghapi.KindWritable.String())
	assert.Equal(t, "entity", ghapi.KindEntity.String())
	assert.Equal(t, "timestamp", ghapi.KindTimestamp.String())
	assert.Equal(t, "FieldKind(9)", ghapi.FieldKind(9).String())
}
