package localstore_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linkyapp/linky/pkg/adapters/repository/localstore"
	"github.com/linkyapp/linky/pkg/core/domain"
)

func newUserStore(t *testing.T, dir string) *localstore.UserStore {
	t.Helper()
	s, err := localstore.NewUserStore(dir, zerolog.Nop())
	require.NoError(t, err)
	return s
}

func TestUserStore_LoadAbsentMeansSignedOut(t *testing.T) {
	user, err := newUserStore(t, t.TempDir()).Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestUserStore_SaveLoadClear(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s := newUserStore(t, dir)

	user := &domain.User{
		ID:    "u1",
		Name:  "Jane",
		Email: "jane@example.com",
		Plan:  domain.PlanPro,
	}
	require.NoError(t, s.Save(ctx, user))

	loaded, err := newUserStore(t, dir).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, user, loaded)

	require.NoError(t, s.Clear(ctx))
	loaded, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, loaded)

	// Clearing twice is fine.
	require.NoError(t, s.Clear(ctx))
}

func TestUserStore_CorruptRecordTreatedAsSignedOut(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "linky_user.json"), []byte("garbage"), 0o644))

	user, err := newUserStore(t, dir).Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, user)
}
