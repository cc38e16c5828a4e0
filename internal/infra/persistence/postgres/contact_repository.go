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

// contactRepository implements the repository.ContactRepository interface.
type contactRepository struct {
	db *gorm.DB
}

// NewContactRepository is the constructor for contactRepository.
func NewContactRepository(db *gorm.DB) repository.ContactRepository {
	return &contactRepository{db: db}
}

func fromContactDomain(contact *entity.Contact) *model.ContactModel {
	return &model.ContactModel{
		ID:         contact.ID,
		CustomerID: contact.CustomerID,
		Phone:      contact.Phone,
		IsActive:   contact.IsActive,
		CreatedAt:  contact.CreatedAt,
		UpdatedAt:  contact.UpdatedAt,
	}
}

func toContactDomain(contactM *model.ContactModel) *entity.Contact {
	return &entity.Contact{
		ID:         contactM.ID,
		CustomerID: contactM.CustomerID,
		Phone:      contactM.Phone,
		IsActive:   contactM.IsActive,
		CreatedAt:  contactM.CreatedAt,
		UpdatedAt:  contactM.UpdatedAt,
	}
}

// Create persists a new contact.
func (repo *contactRepository) Create(ctx context.Context, contact *entity.Contact) error {
	contactM := fromContactDomain(contact)

	if err := repo.db.WithContext(ctx).Create(contactM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrValidation.WrapMessage("unknown customer for contact")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create contact")
	}

	contact.CreatedAt = contactM.CreatedAt
	contact.UpdatedAt = contactM.UpdatedAt

	return nil
}

// FindByID retrieves a contact by its unique ID.
func (repo *contactRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Contact, error) {
	var contactM model.ContactModel
	if err := repo.db.WithContext(ctx).First(&contactM, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrContactNotFound
		}

		return nil, errors.Wrap(err, "failed to find contact by ID")
	}

	return toContactDomain(&contactM), nil
}

// ListByScope retrieves contacts visible under the access scope.
func (repo *contactRepository) ListByScope(ctx context.Context, scope policy.OwnerScope) ([]*entity.Contact, error) {
	// The empty scope never touches the database.
	if !scope.All && scope.CustomerID == nil {
		return []*entity.Contact{}, nil
	}

	query := repo.db.WithContext(ctx).Model(&model.ContactModel{})
	if !scope.All {
		query = query.Where("customer_id = ?", *scope.CustomerID)
	}

	var contactModels []*model.ContactModel
	if err := query.Order("created_at DESC").Find(&contactModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list contacts")
	}

	contacts := make([]*entity.Contact, 0, len(contactModels))
	for _, contactM := range contactModels {
		contacts = append(contacts, toContactDomain(contactM))
	}

	return contacts, nil
}

// SetActive marks the given contact active and every sibling contact of the
// same customer inactive. Callers run this inside txManager.Execute so both
// updates land atomically.
func (repo *contactRepository) SetActive(ctx context.Context, customerID, contactID uuid.UUID) error {
	deactivate := repo.db.WithContext(ctx).
		Model(&model.ContactModel{}).
		Where("customer_id = ? AND id <> ? AND is_active", customerID, contactID).
		Update("is_active", false)
	if deactivate.Error != nil {
		return domainerrors.NewDatabaseExecuteError(deactivate.Error, "failed to deactivate sibling contacts")
	}

	activate := repo.db.WithContext(ctx).
		Model(&model.ContactModel{}).
		Where("id = ? AND customer_id = ?", contactID, customerID).
		Update("is_active", true)
	if activate.Error != nil {
		return domainerrors.NewDatabaseExecuteError(activate.Error, "failed to activate contact")
	}
	if activate.RowsAffected == 0 {
		return repository.ErrContactNotFound
	}

	return nil
}

// SoftDelete marks a contact deleted without removing the row.
func (repo *contactRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).Delete(&model.ContactModel{}, "id = ?", id)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete contact")
	}
	if result.RowsAffected == 0 {
		return repository.ErrContactNotFound
	}

	return nil
}
