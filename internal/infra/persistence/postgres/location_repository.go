package postgres

import (
	"context"

	"konv/internal/domain/entity"
	domainerrors "konv/internal/domain/errors"
	"konv/internal/domain/policy"
	"konv/internal/domain/repository"
	"konv/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// locationRepository implements the repository.LocationRepository interface.
type locationRepository struct {
	db *gorm.DB
}

// NewLocationRepository is the constructor for locationRepository.
func NewLocationRepository(db *gorm.DB) repository.LocationRepository {
	return &locationRepository{db: db}
}

func fromLocationDomain(location *entity.Location) *model.LocationModel {
	return &model.LocationModel{
		ID:         location.ID,
		CustomerID: location.CustomerID,
		DistrictID: location.DistrictID,
		Name:       location.Name,
		Latitude:   location.Latitude,
		Longitude:  location.Longitude,
		IsActive:   location.IsActive,
		CreatedAt:  location.CreatedAt,
		UpdatedAt:  location.UpdatedAt,
	}
}

func toLocationDomain(locationM *model.LocationModel) *entity.Location {
	return &entity.Location{
		ID:         locationM.ID,
		CustomerID: locationM.CustomerID,
		DistrictID: locationM.DistrictID,
		Name:       locationM.Name,
		Latitude:   locationM.Latitude,
		Longitude:  locationM.Longitude,
		IsActive:   locationM.IsActive,
		CreatedAt:  locationM.CreatedAt,
		UpdatedAt:  locationM.UpdatedAt,
	}
}

// Create persists a new location.
func (repo *locationRepository) Create(ctx context.Context, location *entity.Location) error {
	locationM := fromLocationDomain(location)

	if err := repo.db.WithContext(ctx).Create(locationM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrValidation.WrapMessage("unknown customer or district for location")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create location")
	}

	location.CreatedAt = locationM.CreatedAt
	location.UpdatedAt = locationM.UpdatedAt

	return nil
}

// FindByID retrieves a location by its unique ID.
func (repo *locationRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Location, error) {
	var locationM model.LocationModel
	if err := repo.db.WithContext(ctx).First(&locationM, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrLocationNotFound
		}

		return nil, errors.Wrap(err, "failed to find location by ID")
	}

	return toLocationDomain(&locationM), nil
}

// ListByScope retrieves locations visible under the access scope.
func (repo *locationRepository) ListByScope(ctx context.Context, scope policy.OwnerScope) ([]*entity.Location, error) {
	if !scope.All && scope.CustomerID == nil {
		return []*entity.Location{}, nil
	}

	query := repo.db.WithContext(ctx).Model(&model.LocationModel{})
	if !scope.All {
		query = query.Where("customer_id = ?", *scope.CustomerID)
	}

	var locationModels []*model.LocationModel
	if err := query.Order("created_at DESC").Find(&locationModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list locations")
	}

	locations := make([]*entity.Location, 0, len(locationModels))
	for _, locationM := range locationModels {
		locations = append(locations, toLocationDomain(locationM))
	}

	return locations, nil
}

// SetActive marks the given location active and every sibling location of the
// same customer inactive. Callers run this inside txManager.Execute.
func (repo *locationRepository) SetActive(ctx context.Context, customerID, locationID uuid.UUID) error {
	deactivate := repo.db.WithContext(ctx).
		Model(&model.LocationModel{}).
		Where("customer_id = ? AND id <> ? AND is_active", customerID, locationID).
		Update("is_active", false)
	if deactivate.Error != nil {
		return domainerrors.NewDatabaseExecuteError(deactivate.Error, "failed to deactivate sibling locations")
	}

	activate := repo.db.WithContext(ctx).
		Model(&model.LocationModel{}).
		Where("id = ? AND customer_id = ?", locationID, customerID).
		Update("is_active", true)
	if activate.Error != nil {
		return domainerrors.NewDatabaseExecuteError(activate.Error, "failed to activate location")
	}
	if activate.RowsAffected == 0 {
		return repository.ErrLocationNotFound
	}

	return nil
}

// SoftDelete marks a location deleted without removing the row.
func (repo *locationRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).Delete(&model.LocationModel{}, "id = ?", id)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete location")
	}
	if result.RowsAffected == 0 {
		return repository.ErrLocationNotFound
	}

	return nil
}

// districtRepository implements the repository.DistrictRepository interface.
type districtRepository struct {
	db *gorm.DB
}

// NewDistrictRepository is the constructor for districtRepository.
func NewDistrictRepository(db *gorm.DB) repository.DistrictRepository {
	return &districtRepository{db: db}
}

func toDistrictDomain(districtM *model.DistrictModel) *entity.District {
	return &entity.District{
		ID:        districtM.ID,
		Name:      districtM.Name,
		CreatedAt: districtM.CreatedAt,
		UpdatedAt: districtM.UpdatedAt,
	}
}

func (repo *districtRepository) Create(ctx context.Context, district *entity.District) error {
	districtM := &model.DistrictModel{
		ID:        district.ID,
		Name:      district.Name,
		CreatedAt: district.CreatedAt,
		UpdatedAt: district.UpdatedAt,
	}

	if err := repo.db.WithContext(ctx).Create(districtM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrNameTaken
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create district")
	}

	return nil
}

func (repo *districtRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.District, error) {
	var districtM model.DistrictModel
	if err := repo.db.WithContext(ctx).First(&districtM, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrDistrictNotFound
		}

		return nil, errors.Wrap(err, "failed to find district by ID")
	}

	return toDistrictDomain(&districtM), nil
}

func (repo *districtRepository) List(ctx context.Context) ([]*entity.District, error) {
	var districtModels []*model.DistrictModel
	if err := repo.db.WithContext(ctx).Order("name").Find(&districtModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list districts")
	}

	districts := make([]*entity.District, 0, len(districtModels))
	for _, districtM := range districtModels {
		districts = append(districts, toDistrictDomain(districtM))
	}

	return districts, nil
}

func (repo *districtRepository) Update(ctx context.Context, district *entity.District) error {
	result := repo.db.WithContext(ctx).
		Model(&model.DistrictModel{}).
		Where("id = ?", district.ID).
		Update("name", district.Name)
	if result.Error != nil {
		if isUniqueConstraintViolation(result.Error) {
			return repository.ErrNameTaken
		}

		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update district")
	}
	if result.RowsAffected == 0 {
		return repository.ErrDistrictNotFound
	}

	return nil
}

func (repo *districtRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).Delete(&model.DistrictModel{}, "id = ?", id)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete district")
	}
	if result.RowsAffected == 0 {
		return repository.ErrDistrictNotFound
	}

	return nil
}
