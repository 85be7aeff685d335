package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) (*Repository, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "db", "tally.db")
	repo, err := NewRepository(path)
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo, path
}

func TestRepositoryGetMissing(t *testing.T) {
	repo, _ := newTestRepo(t)

	_, ok, err := repo.Get(context.Background(), "expenses")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRepositoryUpsert(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)

	require.NoError(t, repo.Set(ctx, "expenses", "[]"))
	require.NoError(t, repo.Set(ctx, "expenses", `[{"id":"1"}]`))

	v, ok, err := repo.Get(ctx, "expenses")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":"1"}]`, v)

	ts, err := repo.UpdatedAt(ctx, "expenses")
	require.NoError(t, err)
	assert.False(t, ts.IsZero())
}

func TestRepositoryReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	repo, path := newTestRepo(t)
	require.NoError(t, repo.Set(ctx, "expenses", "[42]"))
	require.NoError(t, repo.Close())

	// Migrations must be idempotent on an existing database.
	reopened, err := NewRepository(path)
	require.NoError(t, err)
	defer reopened.Close()

	v, ok, err := reopened.Get(ctx, "expenses")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[42]", v)
}
