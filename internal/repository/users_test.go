package repository

import (
	"context"
	"testing"

	"github.com/AnshRaj112/recruiter-gateway/internal/models"
	"github.com/AnshRaj112/recruiter-gateway/internal/rowstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepo(t *testing.T) (UserRepository, *rowstore.MemoryStore) {
	t.Helper()
	store := rowstore.NewMemoryStore()
	return NewUserRepository(store, "711"), store
}

func TestUserRepository_CreateNormalizesEmail(t *testing.T) {
	ctx := context.Background()
	repo, store := newRepo(t)

	u, err := repo.Create(ctx, &models.User{Name: "Ana", Email: "Ana@X.com", PasswordHash: "h"})
	require.NoError(t, err)
	assert.Equal(t, "ana@x.com", u.Email)

	row, err := store.Get(ctx, "711", u.ID)
	require.NoError(t, err)
	assert.Equal(t, "ana@x.com", row.String(models.ColUserEmail))
	assert.Equal(t, "h", row.String(models.ColUserPasswordHash))
}

func TestUserRepository_FindByEmail(t *testing.T) {
	ctx := context.Background()
	repo, _ := newRepo(t)

	missing, err := repo.FindByEmail(ctx, "nobody@x.com")
	require.NoError(t, err)
	assert.Nil(t, missing)

	_, err = repo.Create(ctx, &models.User{Name: "Ana", Email: "ana@x.com"})
	require.NoError(t, err)

	found, err := repo.FindByEmail(ctx, "ANA@x.com")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "Ana", found.Name)
}

func TestUserRepository_RefreshTokenLifecycle(t *testing.T) {
	ctx := context.Background()
	repo, store := newRepo(t)
	u, err := repo.Create(ctx, &models.User{Name: "Ana", Email: "ana@x.com"})
	require.NoError(t, err)

	require.NoError(t, repo.SetRefreshToken(ctx, u.ID, "1//tok"))
	got, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, got.HasGoogleGrant())

	require.NoError(t, repo.ClearRefreshToken(ctx, u.ID))
	row, err := store.Get(ctx, "711", u.ID)
	require.NoError(t, err)
	v, present := row[models.ColUserRefreshToken]
	assert.True(t, present)
	assert.Nil(t, v)
}

func TestUserRepository_UnknownID(t *testing.T) {
	ctx := context.Background()
	repo, _ := newRepo(t)

	_, err := repo.GetByID(ctx, "404")
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.ErrorIs(t, repo.ClearRefreshToken(ctx, "404"), ErrUserNotFound)
}
