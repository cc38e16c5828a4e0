package postgres

import (
	"context"
	"testing"

	"konv/internal/domain/entity"
	"konv/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_Create_DuplicatePhone(t *testing.T) {
	db := openTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := &entity.User{
		ID:           uuid.New(),
		Phone:        "+256700000010",
		PasswordHash: "hash",
		Role:         entity.RoleCustomer,
	}
	require.NoError(t, repo.Create(ctx, user))

	duplicate := &entity.User{
		ID:           uuid.New(),
		Phone:        "+256700000010",
		PasswordHash: "hash",
		Role:         entity.RoleCustomer,
	}
	err := repo.Create(ctx, duplicate)
	assert.ErrorIs(t, err, repository.ErrPhoneTaken)
}

func TestUserRepository_FindByPhone(t *testing.T) {
	db := openTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := seedUser(t, db, entity.RoleCustomer)

	found, err := repo.FindByPhone(ctx, user.Phone)
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	_, err = repo.FindByPhone(ctx, "+256700999999")
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestUserRepository_SoftDelete_HidesUser(t *testing.T) {
	db := openTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := seedUser(t, db, entity.RoleCustomer)

	require.NoError(t, repo.SoftDelete(ctx, user.ID))

	_, err := repo.FindByID(ctx, user.ID)
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}
