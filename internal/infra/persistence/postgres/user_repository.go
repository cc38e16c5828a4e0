package postgres

import (
	"context"

	"konv/internal/domain/entity"
	domainerrors "konv/internal/domain/errors"
	"konv/internal/domain/repository"
	"konv/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// userRepository implements the repository.UserRepository interface.
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository is the constructor for userRepository.
func NewUserRepository(db *gorm.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func fromUserDomain(user *entity.User) *model.UserModel {
	return &model.UserModel{
		ID:           user.ID,
		Phone:        user.Phone,
		PasswordHash: user.PasswordHash,
		Role:         user.Role.String(),
		Verified:     user.Verified,
		DateOfBirth:  user.DateOfBirth,
		ProfileImage: user.ProfileImage,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}
}

func toUserDomain(userM *model.UserModel) *entity.User {
	return &entity.User{
		ID:           userM.ID,
		Phone:        userM.Phone,
		PasswordHash: userM.PasswordHash,
		Role:         entity.Role(userM.Role),
		Verified:     userM.Verified,
		DateOfBirth:  userM.DateOfBirth,
		ProfileImage: userM.ProfileImage,
		CreatedAt:    userM.CreatedAt,
		UpdatedAt:    userM.UpdatedAt,
	}
}

// Create persists a new user.
func (repo *userRepository) Create(ctx context.Context, user *entity.User) error {
	userM := fromUserDomain(user)

	if err := repo.db.WithContext(ctx).Create(userM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrPhoneTaken
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create user")
	}

	user.CreatedAt = userM.CreatedAt
	user.UpdatedAt = userM.UpdatedAt

	return nil
}

// FindByID retrieves a user by its unique ID.
func (repo *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var userM model.UserModel
	if err := repo.db.WithContext(ctx).First(&userM, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user by ID")
	}

	return toUserDomain(&userM), nil
}

// FindByPhone retrieves a user by its unique phone number.
func (repo *userRepository) FindByPhone(ctx context.Context, phone string) (*entity.User, error) {
	var userM model.UserModel
	if err := repo.db.WithContext(ctx).First(&userM, "phone = ?", phone).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user by phone")
	}

	return toUserDomain(&userM), nil
}

// Update modifies an existing user record.
func (repo *userRepository) Update(ctx context.Context, user *entity.User) error {
	result := repo.db.WithContext(ctx).
		Model(&model.UserModel{}).
		Where("id = ?", user.ID).
		Updates(map[string]any{
			"phone":         user.Phone,
			"password_hash": user.PasswordHash,
			"role":          user.Role.String(),
			"verified":      user.Verified,
			"date_of_birth": user.DateOfBirth,
			"profile_image": user.ProfileImage,
		})
	if result.Error != nil {
		if isUniqueConstraintViolation(result.Error) {
			return repository.ErrPhoneTaken
		}

		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update user")
	}
	if result.RowsAffected == 0 {
		return repository.ErrUserNotFound
	}

	return nil
}

// SoftDelete marks a user deleted without removing the row.
func (repo *userRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).Delete(&model.UserModel{}, "id = ?", id)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete user")
	}
	if result.RowsAffected == 0 {
		return repository.ErrUserNotFound
	}

	return nil
}

// List retrieves users matching the filter.
func (repo *userRepository) List(ctx context.Context, filter repository.UserFilter) ([]*entity.User, error) {
	query := repo.db.WithContext(ctx).Model(&model.UserModel{})
	if filter.Role != nil {
		query = query.Where("role = ?", filter.Role.String())
	}
	if filter.Verified != nil {
		query = query.Where("verified = ?", *filter.Verified)
	}
	if filter.Phone != nil {
		query = query.Where("phone = ?", *filter.Phone)
	}

	var userModels []*model.UserModel
	if err := query.Order("created_at DESC").Find(&userModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list users")
	}

	users := make([]*entity.User, 0, len(userModels))
	for _, userM := range userModels {
		users = append(users, toUserDomain(userM))
	}

	return users, nil
}
