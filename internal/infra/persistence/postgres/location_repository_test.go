package postgres

import (
	"context"
	"testing"

	"konv/internal/domain/entity"
	"konv/internal/domain/policy"
	"konv/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createLocation(t *testing.T, repo repository.LocationRepository, customerID uuid.UUID, name string) *entity.Location {
	t.Helper()

	location := &entity.Location{
		ID:         uuid.New(),
		CustomerID: &customerID,
		Name:       name,
		Latitude:   0.3476,
		Longitude:  32.5825,
	}
	require.NoError(t, repo.Create(context.Background(), location))

	return location
}

func TestLocationRepository_SetActive_SingleActiveInvariant(t *testing.T) {
	db := openTestDB(t)
	repo := NewLocationRepository(db)
	customer := seedUser(t, db, entity.RoleCustomer)
	ctx := context.Background()

	home := createLocation(t, repo, customer.ID, "Home")
	office := createLocation(t, repo, customer.ID, "Office")

	require.NoError(t, repo.SetActive(ctx, customer.ID, home.ID))
	require.NoError(t, repo.SetActive(ctx, customer.ID, office.ID))

	locations, err := repo.ListByScope(ctx, policy.OwnerScope{CustomerID: &customer.ID})
	require.NoError(t, err)
	require.Len(t, locations, 2)

	active := 0
	for _, location := range locations {
		if location.IsActive {
			active++
			assert.Equal(t, office.ID, location.ID)
		}
	}
	assert.Equal(t, 1, active)
}

func TestLocationRepository_SetActive_OwnershipMismatch(t *testing.T) {
	db := openTestDB(t)
	repo := NewLocationRepository(db)
	owner := seedUser(t, db, entity.RoleCustomer)
	stranger := seedUser(t, db, entity.RoleCustomer)
	ctx := context.Background()

	location := createLocation(t, repo, owner.ID, "Home")

	err := repo.SetActive(ctx, stranger.ID, location.ID)
	assert.ErrorIs(t, err, repository.ErrLocationNotFound)
}

func TestDistrictRepository_Create_DuplicateName(t *testing.T) {
	db := openTestDB(t)
	repo := NewDistrictRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &entity.District{ID: uuid.New(), Name: "Kampala"}))

	err := repo.Create(ctx, &entity.District{ID: uuid.New(), Name: "Kampala"})
	assert.ErrorIs(t, err, repository.ErrNameTaken)
}

func TestDistrictRepository_List_OrderedByName(t *testing.T) {
	db := openTestDB(t)
	repo := NewDistrictRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &entity.District{ID: uuid.New(), Name: "Wakiso"}))
	require.NoError(t, repo.Create(ctx, &entity.District{ID: uuid.New(), Name: "Gulu"}))
	require.NoError(t, repo.Create(ctx, &entity.District{ID: uuid.New(), Name: "Mbarara"}))

	districts, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, districts, 3)
	assert.Equal(t, "Gulu", districts[0].Name)
	assert.Equal(t, "Mbarara", districts[1].Name)
	assert.Equal(t, "Wakiso", districts[2].Name)
}
