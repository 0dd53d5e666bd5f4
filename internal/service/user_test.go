package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/gestaocx/acesso-api/internal/data"
	"github.com/gestaocx/acesso-api/internal/data/cryptoutil"
	apperrors "github.com/gestaocx/acesso-api/internal/errors"
	"github.com/gestaocx/acesso-api/internal/mocks"
	"github.com/gestaocx/acesso-api/internal/testutil"
)

func TestUserService_Upsert_CreateHashesPassword(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(UserServiceOptions{Users: repo})
	ctx := context.Background()

	req := testutil.NewUserRequest().
		WithEmail("Ana@Example.com").
		WithPassword("senha-inicial").
		Build()

	user, err := svc.Upsert(ctx, req)

	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	// email is normalized on validation
	assert.Equal(t, "ana@example.com", user.Email)
	assert.True(t, user.Ativo)

	stored, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.SenhaHash)
	assert.NotEqual(t, "senha-inicial", *stored.SenhaHash)
	ok, legacy := cryptoutil.VerifyPassword(*stored.SenhaHash, "senha-inicial")
	assert.True(t, ok)
	assert.False(t, legacy)
}

func TestUserService_Upsert_CreateWithoutPassword(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(UserServiceOptions{Users: repo})

	user, err := svc.Upsert(context.Background(), testutil.NewUserRequest().Build())

	require.NoError(t, err)
	assert.False(t, user.HasPassword())
}

func TestUserService_Upsert_UpdateByID(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(UserServiceOptions{Users: repo})
	ctx := context.Background()

	created, err := svc.Upsert(ctx, testutil.NewUserRequest().WithEmail("ana@example.com").Build())
	require.NoError(t, err)

	updated, err := svc.Upsert(ctx, testutil.NewUserRequest().
		WithID(created.ID).
		WithEmail("ana@example.com").
		WithNome("Ana Maria Souza").
		Build())

	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	require.NotNil(t, updated.NomeCompleto)
	assert.Equal(t, "Ana Maria Souza", *updated.NomeCompleto)
}

func TestUserService_Upsert_ShortPasswordRejected(t *testing.T) {
	svc := NewUserService(UserServiceOptions{Users: newFakeUserRepo()})

	_, err := svc.Upsert(context.Background(), testutil.NewUserRequest().WithPassword("curta").Build())

	assert.Equal(t, apperrors.ErrCodeValidation, apperrors.GetCode(err))
}

func TestUserService_Upsert_DuplicateEmailConflict(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(UserServiceOptions{Users: repo})
	ctx := context.Background()

	_, err := svc.Upsert(ctx, testutil.NewUserRequest().WithEmail("ana@example.com").Build())
	require.NoError(t, err)

	_, err = svc.Upsert(ctx, testutil.NewUserRequest().WithEmail("ana@example.com").Build())
	assert.Equal(t, apperrors.ErrCodeConflict, apperrors.GetCode(err))
}

func TestUserService_Deactivate(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(UserServiceOptions{Users: repo})
	ctx := context.Background()

	user, err := svc.Upsert(ctx, testutil.NewUserRequest().Build())
	require.NoError(t, err)

	require.NoError(t, svc.Deactivate(ctx, user.ID))

	stored, err := svc.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, stored.Ativo)

	err = svc.Deactivate(ctx, "missing")
	assert.Equal(t, apperrors.ErrCodeNotFound, apperrors.GetCode(err))

	err = svc.Deactivate(ctx, "")
	assert.Equal(t, apperrors.ErrCodeValidation, apperrors.GetCode(err))
}

func TestUserService_List_ActiveOnly(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(UserServiceOptions{Users: repo})
	ctx := context.Background()

	active, err := svc.Upsert(ctx, testutil.NewUserRequest().Build())
	require.NoError(t, err)
	inactive, err := svc.Upsert(ctx, testutil.NewUserRequest().Inactive().Build())
	require.NoError(t, err)

	all, err := svc.List(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	actives, err := svc.List(ctx, true)
	require.NoError(t, err)
	require.Len(t, actives, 1)
	assert.Equal(t, active.ID, actives[0].ID)
	assert.NotEqual(t, inactive.ID, actives[0].ID)
}

func TestUserService_Delete(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(UserServiceOptions{Users: repo})
	ctx := context.Background()

	user, err := svc.Upsert(ctx, testutil.NewUserRequest().Build())
	require.NoError(t, err)

	deleted, err := svc.Delete(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = svc.Delete(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestUserService_GetByEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(UserServiceOptions{Users: repo})
	ctx := context.Background()

	_, err := svc.GetByEmail(ctx, "quem@example.com")
	assert.Equal(t, apperrors.ErrCodeNotFound, apperrors.GetCode(err))

	created, err := svc.Upsert(ctx, testutil.NewUserRequest().WithEmail("ana@example.com").Build())
	require.NoError(t, err)

	found, err := svc.GetByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
}

func TestUserService_Deactivate_UnknownUserMapsToNotFound(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	repo := mocks.NewMockUserRepository(ctrl)
	svc := NewUserService(UserServiceOptions{Users: repo})

	ctx := context.Background()
	repo.EXPECT().
		Deactivate(ctx, "missing-id").
		Return(data.ErrUserNotFound).
		Times(1)

	err := svc.Deactivate(ctx, "missing-id")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}
