// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "konv/internal/delivery/context"
	"konv/internal/domain/entity"
	domainerrors "konv/internal/domain/errors"
	"konv/internal/domain/policy"
	"konv/internal/domain/repository"
	"konv/internal/domain/service"
	"konv/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// minPasswordLength is the minimum accepted login password length.
const minPasswordLength = 8

// accountService implements the AccountUsecase interface.
type accountService struct {
	txManager    repository.TransactionManager
	userRepo     repository.UserRepository
	contactRepo  repository.ContactRepository
	locationRepo repository.LocationRepository
	districtRepo repository.DistrictRepository
	hasher       service.PasswordHasher
	tokenService service.TokenService
	logger       *slog.Logger
}

// AccountServiceParams holds dependencies for accountService, injected by Fx.
type AccountServiceParams struct {
	fx.In

	TxManager    repository.TransactionManager
	UserRepo     repository.UserRepository
	ContactRepo  repository.ContactRepository
	LocationRepo repository.LocationRepository
	DistrictRepo repository.DistrictRepository
	Hasher       service.PasswordHasher
	TokenService service.TokenService
	Logger       *slog.Logger
}

// NewAccountService is the constructor for accountService.
func NewAccountService(params AccountServiceParams) usecase.AccountUsecase {
	return &accountService{
		txManager:    params.TxManager,
		userRepo:     params.UserRepo,
		contactRepo:  params.ContactRepo,
		locationRepo: params.LocationRepo,
		districtRepo: params.DistrictRepo,
		hasher:       params.Hasher,
		tokenService: params.TokenService,
		logger:       params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *accountService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// RegisterCustomer creates the customer account together with its first
// active contact in one transaction, so a customer never exists without a
// reachable phone number.
func (srv *accountService) RegisterCustomer(ctx context.Context, input *usecase.RegisterCustomerInput) (*entity.User, error) {
	if err := validateCredentials(input.Phone, input.Password); err != nil {
		return nil, err
	}

	hashedPassword, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password during registration", slog.Any("error", err))

		return nil, domainerrors.ErrPasswordHashFailed.WrapMessage("failed to hash password during registration")
	}

	now := time.Now()
	user := &entity.User{
		ID:           uuid.New(),
		Phone:        input.Phone,
		PasswordHash: hashedPassword,
		Role:         entity.RoleCustomer,
		DateOfBirth:  input.DateOfBirth,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if err := repoFactory.Users().Create(ctx, user); err != nil {
			if errors.Is(err, repository.ErrPhoneTaken) {
				return domainerrors.ErrUserAlreadyExists.WrapMessage("phone number already registered")
			}

			return errors.Wrap(err, "failed to create user during registration")
		}

		contact := &entity.Contact{
			ID:         uuid.New(),
			CustomerID: user.ID,
			Phone:      user.Phone,
			IsActive:   true,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := repoFactory.Contacts().Create(ctx, contact); err != nil {
			return errors.Wrap(err, "failed to create initial contact during registration")
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Customer registered", slog.Any("userID", user.ID))

	return user, nil
}

// CreateStaff creates a driver, admin or developer account.
func (srv *accountService) CreateStaff(ctx context.Context, input *usecase.CreateStaffInput) (*entity.User, error) {
	if !input.Role.IsValid() || !input.Role.IsStaff() {
		return nil, domainerrors.ErrValidation.WrapMessage("role must be driver, admin or developer")
	}
	if err := validateCredentials(input.Phone, input.Password); err != nil {
		return nil, err
	}

	hashedPassword, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password during staff creation", slog.Any("error", err))

		return nil, domainerrors.ErrPasswordHashFailed.WrapMessage("failed to hash password during staff creation")
	}

	now := time.Now()
	user := &entity.User{
		ID:           uuid.New(),
		Phone:        input.Phone,
		PasswordHash: hashedPassword,
		Role:         input.Role,
		Verified:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := srv.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrPhoneTaken) {
			return nil, domainerrors.ErrUserAlreadyExists.WrapMessage("phone number already registered")
		}

		return nil, errors.Wrap(err, "failed to create staff user")
	}

	srv.log(ctx).Info("Staff account created", slog.Any("userID", user.ID), slog.Any("role", user.Role))

	return user, nil
}

// Login verifies phone+password and issues a token pair.
func (srv *accountService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.LoginOutput, error) {
	user, err := srv.userRepo.FindByPhone(ctx, input.Phone)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrInvalidCredentials.WrapMessage("unknown phone or wrong password")
		}

		return nil, errors.Wrap(err, "failed to find user by phone")
	}

	if !srv.hasher.Check(input.Password, user.PasswordHash) {
		srv.log(ctx).Warn("Password mismatch during login", slog.Any("userID", user.ID))

		return nil, domainerrors.ErrInvalidCredentials.WrapMessage("unknown phone or wrong password")
	}

	accessToken, refreshToken, err := srv.tokenService.GenerateTokens(user.ID, user.Role)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate tokens during login")
	}

	return &usecase.LoginOutput{
		User: user,
		Tokens: usecase.TokenPair{
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
		},
	}, nil
}

// Refresh exchanges a valid refresh token for a new token pair.
func (srv *accountService) Refresh(ctx context.Context, refreshToken string) (*usecase.TokenPair, error) {
	claims, err := srv.tokenService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, domainerrors.ErrRefreshTokenInvalid.WrapMessage("refresh token rejected")
	}

	// The user may have been deleted or re-roled since the token was issued.
	user, err := srv.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrRefreshTokenInvalid.WrapMessage("refresh token subject no longer exists")
		}

		return nil, errors.Wrap(err, "failed to load user during token refresh")
	}

	accessToken, newRefreshToken, err := srv.tokenService.GenerateTokens(user.ID, user.Role)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate tokens during refresh")
	}

	return &usecase.TokenPair{AccessToken: accessToken, RefreshToken: newRefreshToken}, nil
}

// AddContact saves a contact for the customer, optionally activating it.
func (srv *accountService) AddContact(ctx context.Context, customerID uuid.UUID, input *usecase.AddContactInput) (*entity.Contact, error) {
	if !entity.ValidPhone(input.Phone) {
		return nil, domainerrors.ErrValidation.WrapMessage("invalid phone number")
	}

	now := time.Now()
	contact := &entity.Contact{
		ID:         uuid.New(),
		CustomerID: customerID,
		Phone:      input.Phone,
		IsActive:   false,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if err := repoFactory.Contacts().Create(ctx, contact); err != nil {
			return errors.Wrap(err, "failed to create contact")
		}

		if input.Activate {
			if err := repoFactory.Contacts().SetActive(ctx, customerID, contact.ID); err != nil {
				return errors.Wrap(err, "failed to activate new contact")
			}
			contact.IsActive = true
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return contact, nil
}

// ActivateContact makes the contact the customer's single active one.
func (srv *accountService) ActivateContact(ctx context.Context, customerID, contactID uuid.UUID) error {
	return srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		contact, err := repoFactory.Contacts().FindByID(ctx, contactID)
		if err != nil {
			if errors.Is(err, repository.ErrContactNotFound) {
				return domainerrors.ErrNotFound.WrapMessage("contact not found")
			}

			return errors.Wrap(err, "failed to find contact")
		}

		// Ownership mismatches read as not-found so contact IDs of other
		// customers cannot be probed.
		if contact.CustomerID != customerID {
			return domainerrors.ErrNotFound.WrapMessage("contact not found")
		}

		if err := repoFactory.Contacts().SetActive(ctx, customerID, contactID); err != nil {
			return errors.Wrap(err, "failed to activate contact")
		}

		return nil
	})
}

// ListContacts returns contacts visible to the actor.
func (srv *accountService) ListContacts(ctx context.Context, actor policy.Actor) ([]*entity.Contact, error) {
	contacts, err := srv.contactRepo.ListByScope(ctx, policy.ForOwned(actor))
	if err != nil {
		return nil, errors.Wrap(err, "failed to list contacts")
	}

	return contacts, nil
}

// AddLocation saves a location for the customer, optionally activating it.
func (srv *accountService) AddLocation(ctx context.Context, customerID uuid.UUID, input *usecase.AddLocationInput) (*entity.Location, error) {
	if input.Name == "" {
		return nil, domainerrors.ErrValidation.WrapMessage("location name is required")
	}
	if !entity.ValidCoordinate(input.Latitude) || !entity.ValidCoordinate(input.Longitude) {
		return nil, domainerrors.ErrValidation.WrapMessage("coordinates out of range")
	}

	if input.DistrictID != nil {
		if _, err := srv.districtRepo.FindByID(ctx, *input.DistrictID); err != nil {
			if errors.Is(err, repository.ErrDistrictNotFound) {
				return nil, domainerrors.ErrValidation.WrapMessage("unknown district")
			}

			return nil, errors.Wrap(err, "failed to find district")
		}
	}

	now := time.Now()
	ownerID := customerID
	location := &entity.Location{
		ID:         uuid.New(),
		CustomerID: &ownerID,
		DistrictID: input.DistrictID,
		Name:       input.Name,
		Latitude:   input.Latitude,
		Longitude:  input.Longitude,
		IsActive:   false,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if err := repoFactory.Locations().Create(ctx, location); err != nil {
			return errors.Wrap(err, "failed to create location")
		}

		if input.Activate {
			if err := repoFactory.Locations().SetActive(ctx, customerID, location.ID); err != nil {
				return errors.Wrap(err, "failed to activate new location")
			}
			location.IsActive = true
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return location, nil
}

// ActivateLocation makes the location the customer's single active one.
func (srv *accountService) ActivateLocation(ctx context.Context, customerID, locationID uuid.UUID) error {
	return srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		location, err := repoFactory.Locations().FindByID(ctx, locationID)
		if err != nil {
			if errors.Is(err, repository.ErrLocationNotFound) {
				return domainerrors.ErrNotFound.WrapMessage("location not found")
			}

			return errors.Wrap(err, "failed to find location")
		}

		if location.CustomerID == nil || *location.CustomerID != customerID {
			return domainerrors.ErrNotFound.WrapMessage("location not found")
		}

		if err := repoFactory.Locations().SetActive(ctx, customerID, locationID); err != nil {
			return errors.Wrap(err, "failed to activate location")
		}

		return nil
	})
}

// ListLocations returns locations visible to the actor.
func (srv *accountService) ListLocations(ctx context.Context, actor policy.Actor) ([]*entity.Location, error) {
	locations, err := srv.locationRepo.ListByScope(ctx, policy.ForOwned(actor))
	if err != nil {
		return nil, errors.Wrap(err, "failed to list locations")
	}

	return locations, nil
}

func validateCredentials(phone, password string) error {
	if !entity.ValidPhone(phone) {
		return domainerrors.ErrValidation.WrapMessage("invalid phone number")
	}
	if len(password) < minPasswordLength {
		return domainerrors.ErrValidation.WrapMessage("password is too short")
	}

	return nil
}
