package tokens

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tapetrack/tapectl/internal/common"

	_ "modernc.org/sqlite"
)

func setupRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := Open(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewSQLiteRepository(db)
}

func TestSetGet(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, common.PrimaryTokenKey, "abc"))

	v, err := repo.Get(ctx, common.PrimaryTokenKey)
	require.NoError(t, err)
	require.Equal(t, "abc", v)
}

func TestGetMissingReturnsEmpty(t *testing.T) {
	repo := setupRepo(t)

	v, err := repo.Get(context.Background(), "nope")
	require.NoError(t, err)
	require.Empty(t, v)
}

func TestSetOverwrites(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, common.PrimaryTokenKey, "old"))
	require.NoError(t, repo.Set(ctx, common.PrimaryTokenKey, "new"))

	v, err := repo.Get(ctx, common.PrimaryTokenKey)
	require.NoError(t, err)
	require.Equal(t, "new", v)
}

func TestDelete(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, common.PrimaryTokenKey, "abc"))
	require.NoError(t, repo.Delete(ctx, common.PrimaryTokenKey))

	v, err := repo.Get(ctx, common.PrimaryTokenKey)
	require.NoError(t, err)
	require.Empty(t, v)
}

func TestFirstValidPrefersPrimaryKey(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "token", "legacy"))
	require.NoError(t, repo.Set(ctx, common.PrimaryTokenKey, "primary"))

	v, err := repo.FirstValid(ctx)
	require.NoError(t, err)
	require.Equal(t, "primary", v)
}

func TestFirstValidFallsBackToLegacyKeys(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "access_token", "legacy"))

	v, err := repo.FirstValid(ctx)
	require.NoError(t, err)
	require.Equal(t, "legacy", v)
}

func TestFirstValidSkipsPlaceholders(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, common.PrimaryTokenKey, "undefined"))
	require.NoError(t, repo.Set(ctx, "token", "null"))
	require.NoError(t, repo.Set(ctx, "authToken", "real"))

	v, err := repo.FirstValid(ctx)
	require.NoError(t, err)
	require.Equal(t, "real", v)
}

func TestFirstValidEmptyStore(t *testing.T) {
	repo := setupRepo(t)

	v, err := repo.FirstValid(context.Background())
	require.NoError(t, err)
	require.Empty(t, v)
}

func TestClearAllRemovesEveryKnownKey(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	for _, key := range common.TokenKeys() {
		require.NoError(t, repo.Set(ctx, key, "v-"+key))
	}
	require.NoError(t, repo.ClearAll(ctx))

	for _, key := range common.TokenKeys() {
		v, err := repo.Get(ctx, key)
		require.NoError(t, err)
		require.Empty(t, v)
	}
}
