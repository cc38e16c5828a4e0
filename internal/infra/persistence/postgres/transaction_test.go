package postgres

import (
	"context"
	"testing"

	"konv/internal/domain/entity"
	"konv/internal/domain/policy"
	"konv/internal/domain/repository"
	"konv/internal/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionManager_CommitsOnSuccess(t *testing.T) {
	db := openTestDB(t)
	tm := NewTransactionManager(db)
	ctx := context.Background()

	user := &entity.User{
		ID:           uuid.New(),
		Phone:        "+256700000030",
		PasswordHash: "hash",
		Role:         entity.RoleCustomer,
	}

	err := tm.Execute(ctx, func(factory repository.RepositoryFactory) error {
		if err := factory.Users().Create(ctx, user); err != nil {
			return err
		}

		return factory.Contacts().Create(ctx, &entity.Contact{
			ID:         uuid.New(),
			CustomerID: user.ID,
			Phone:      user.Phone,
			IsActive:   true,
		})
	})
	require.NoError(t, err)

	found, err := NewUserRepository(db).FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Phone, found.Phone)

	contacts, err := NewContactRepository(db).ListByScope(ctx, policy.OwnerScope{CustomerID: &user.ID})
	require.NoError(t, err)
	assert.Len(t, contacts, 1)
}

func TestTransactionManager_RollsBackOnError(t *testing.T) {
	db := openTestDB(t)
	tm := NewTransactionManager(db)
	ctx := context.Background()

	user := &entity.User{
		ID:           uuid.New(),
		Phone:        "+256700000031",
		PasswordHash: "hash",
		Role:         entity.RoleCustomer,
	}

	boom := errors.New("boom")
	err := tm.Execute(ctx, func(factory repository.RepositoryFactory) error {
		if err := factory.Users().Create(ctx, user); err != nil {
			return err
		}

		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = NewUserRepository(db).FindByID(ctx, user.ID)
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}
