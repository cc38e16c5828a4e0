package impl

import (
	"context"
	"log/slog"
	"testing"

	"konv/internal/domain/entity"
	domainerrors "konv/internal/domain/errors"
	"konv/internal/domain/policy"
	"konv/internal/domain/repository"
	"konv/internal/domain/service"
	mockRepo "konv/internal/mocks/repository"
	mockSvc "konv/internal/mocks/service"
	"konv/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type accountServiceMocks struct {
	userRepo     *mockRepo.MockUserRepository
	contactRepo  *mockRepo.MockContactRepository
	locationRepo *mockRepo.MockLocationRepository
	districtRepo *mockRepo.MockDistrictRepository
	hasher       *mockSvc.MockPasswordHasher
	tokenService *mockSvc.MockTokenService
}

func newAccountService(t *testing.T) (usecase.AccountUsecase, *accountServiceMocks) {
	m := &accountServiceMocks{
		userRepo:     mockRepo.NewMockUserRepository(t),
		contactRepo:  mockRepo.NewMockContactRepository(t),
		locationRepo: mockRepo.NewMockLocationRepository(t),
		districtRepo: mockRepo.NewMockDistrictRepository(t),
		hasher:       mockSvc.NewMockPasswordHasher(t),
		tokenService: mockSvc.NewMockTokenService(t),
	}

	txManager := &mockRepo.StubTransactionManager{
		Factory: &mockRepo.StubRepositoryFactory{
			UserRepo:     m.userRepo,
			ContactRepo:  m.contactRepo,
			LocationRepo: m.locationRepo,
		},
	}

	srv := NewAccountService(AccountServiceParams{
		TxManager:    txManager,
		UserRepo:     m.userRepo,
		ContactRepo:  m.contactRepo,
		LocationRepo: m.locationRepo,
		DistrictRepo: m.districtRepo,
		Hasher:       m.hasher,
		TokenService: m.tokenService,
		Logger:       slog.Default(),
	})

	return srv, m
}

func TestAccountService_RegisterCustomer_CreatesUserAndActiveContact(t *testing.T) {
	srv, m := newAccountService(t)
	ctx := context.Background()

	input := &usecase.RegisterCustomerInput{Phone: "+256700000001", Password: "strong-password"}

	m.hasher.On("Hash", "strong-password").Return("hashed", nil)
	m.userRepo.On("Create", ctx, mock.MatchedBy(func(u *entity.User) bool {
		return u.Phone == input.Phone && u.Role == entity.RoleCustomer && u.PasswordHash == "hashed"
	})).Return(nil)
	m.contactRepo.On("Create", ctx, mock.MatchedBy(func(c *entity.Contact) bool {
		return c.Phone == input.Phone && c.IsActive
	})).Return(nil)

	user, err := srv.RegisterCustomer(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleCustomer, user.Role)
	assert.Equal(t, input.Phone, user.Phone)
}

func TestAccountService_RegisterCustomer_PhoneTaken(t *testing.T) {
	srv, m := newAccountService(t)
	ctx := context.Background()

	input := &usecase.RegisterCustomerInput{Phone: "+256700000001", Password: "strong-password"}

	m.hasher.On("Hash", "strong-password").Return("hashed", nil)
	m.userRepo.On("Create", ctx, mock.Anything).
		Return(errors.Wrap(repository.ErrPhoneTaken, "insert"))

	user, err := srv.RegisterCustomer(ctx, input)
	assert.Nil(t, user)
	assert.ErrorIs(t, err, domainerrors.ErrUserAlreadyExists)
}

func TestAccountService_RegisterCustomer_RejectsBadInput(t *testing.T) {
	srv, _ := newAccountService(t)
	ctx := context.Background()

	_, err := srv.RegisterCustomer(ctx, &usecase.RegisterCustomerInput{Phone: "abc", Password: "strong-password"})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	_, err = srv.RegisterCustomer(ctx, &usecase.RegisterCustomerInput{Phone: "+256700000001", Password: "short"})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestAccountService_CreateStaff_RejectsCustomerRole(t *testing.T) {
	srv, _ := newAccountService(t)

	_, err := srv.CreateStaff(context.Background(), &usecase.CreateStaffInput{
		Phone:    "+256700000002",
		Password: "strong-password",
		Role:     entity.RoleCustomer,
	})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestAccountService_Login_Success(t *testing.T) {
	srv, m := newAccountService(t)
	ctx := context.Background()

	user := &entity.User{ID: uuid.New(), Phone: "+256700000001", PasswordHash: "hashed", Role: entity.RoleCustomer}

	m.userRepo.On("FindByPhone", ctx, user.Phone).Return(user, nil)
	m.hasher.On("Check", "strong-password", "hashed").Return(true)
	m.tokenService.On("GenerateTokens", user.ID, entity.RoleCustomer).Return("access", "refresh", nil)

	out, err := srv.Login(ctx, &usecase.LoginInput{Phone: user.Phone, Password: "strong-password"})
	require.NoError(t, err)
	assert.Equal(t, "access", out.Tokens.AccessToken)
	assert.Equal(t, "refresh", out.Tokens.RefreshToken)
	assert.Equal(t, user, out.User)
}

func TestAccountService_Login_WrongPassword(t *testing.T) {
	srv, m := newAccountService(t)
	ctx := context.Background()

	user := &entity.User{ID: uuid.New(), Phone: "+256700000001", PasswordHash: "hashed"}

	m.userRepo.On("FindByPhone", ctx, user.Phone).Return(user, nil)
	m.hasher.On("Check", "wrong", "hashed").Return(false)

	out, err := srv.Login(ctx, &usecase.LoginInput{Phone: user.Phone, Password: "wrong"})
	assert.Nil(t, out)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestAccountService_Login_UnknownPhone(t *testing.T) {
	srv, m := newAccountService(t)
	ctx := context.Background()

	m.userRepo.On("FindByPhone", ctx, "+256700000009").Return(nil, repository.ErrUserNotFound)

	out, err := srv.Login(ctx, &usecase.LoginInput{Phone: "+256700000009", Password: "whatever"})
	assert.Nil(t, out)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestAccountService_Refresh_InvalidToken(t *testing.T) {
	srv, m := newAccountService(t)

	m.tokenService.On("ValidateRefreshToken", "bogus").Return(nil, errors.New("bad signature"))

	pair, err := srv.Refresh(context.Background(), "bogus")
	assert.Nil(t, pair)
	assert.ErrorIs(t, err, domainerrors.ErrRefreshTokenInvalid)
}

func TestAccountService_Refresh_Success(t *testing.T) {
	srv, m := newAccountService(t)
	ctx := context.Background()

	user := &entity.User{ID: uuid.New(), Role: entity.RoleCustomer}
	claims := &service.Claims{UserID: user.ID, Role: entity.RoleCustomer, Type: "refresh"}

	m.tokenService.On("ValidateRefreshToken", "valid").Return(claims, nil)
	m.userRepo.On("FindByID", ctx, user.ID).Return(user, nil)
	m.tokenService.On("GenerateTokens", user.ID, entity.RoleCustomer).Return("access2", "refresh2", nil)

	pair, err := srv.Refresh(ctx, "valid")
	require.NoError(t, err)
	assert.Equal(t, "access2", pair.AccessToken)
}

func TestAccountService_AddContact_Activate(t *testing.T) {
	srv, m := newAccountService(t)
	ctx := context.Background()
	customerID := uuid.New()

	m.contactRepo.On("Create", ctx, mock.AnythingOfType("*entity.Contact")).Return(nil)
	m.contactRepo.On("SetActive", ctx, customerID, mock.Anything).Return(nil)

	contact, err := srv.AddContact(ctx, customerID, &usecase.AddContactInput{
		Phone:    "+256700000003",
		Activate: true,
	})
	require.NoError(t, err)
	assert.True(t, contact.IsActive)
	assert.Equal(t, customerID, contact.CustomerID)
}

func TestAccountService_ActivateContact_OwnershipMismatch(t *testing.T) {
	srv, m := newAccountService(t)
	ctx := context.Background()

	owner, stranger := uuid.New(), uuid.New()
	contact := &entity.Contact{ID: uuid.New(), CustomerID: owner, Phone: "+256700000004"}

	m.contactRepo.On("FindByID", ctx, contact.ID).Return(contact, nil)

	err := srv.ActivateContact(ctx, stranger, contact.ID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestAccountService_AddLocation_RejectsOutOfRangeCoordinates(t *testing.T) {
	srv, _ := newAccountService(t)

	_, err := srv.AddLocation(context.Background(), uuid.New(), &usecase.AddLocationInput{
		Name:      "Warehouse",
		Latitude:  90.0,
		Longitude: 10.0,
	})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestAccountService_AddLocation_UnknownDistrict(t *testing.T) {
	srv, m := newAccountService(t)
	ctx := context.Background()

	districtID := uuid.New()
	m.districtRepo.On("FindByID", ctx, districtID).Return(nil, repository.ErrDistrictNotFound)

	_, err := srv.AddLocation(ctx, uuid.New(), &usecase.AddLocationInput{
		Name:       "Office",
		Latitude:   1.5,
		Longitude:  32.0,
		DistrictID: &districtID,
	})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestAccountService_ActivateLocation_Success(t *testing.T) {
	srv, m := newAccountService(t)
	ctx := context.Background()

	customerID := uuid.New()
	location := &entity.Location{ID: uuid.New(), CustomerID: &customerID, Name: "Home"}

	m.locationRepo.On("FindByID", ctx, location.ID).Return(location, nil)
	m.locationRepo.On("SetActive", ctx, customerID, location.ID).Return(nil)

	require.NoError(t, srv.ActivateLocation(ctx, customerID, location.ID))
}

func TestAccountService_ListContacts_ScopesToActor(t *testing.T) {
	srv, m := newAccountService(t)
	ctx := context.Background()

	customerID := uuid.New()
	actor := policy.Actor{ID: customerID, Role: entity.RoleCustomer, Authenticated: true}
	contacts := []*entity.Contact{{ID: uuid.New(), CustomerID: customerID}}

	m.contactRepo.On("ListByScope", ctx, mock.MatchedBy(func(scope policy.OwnerScope) bool {
		return !scope.All && scope.CustomerID != nil && *scope.CustomerID == customerID
	})).Return(contacts, nil)

	got, err := srv.ListContacts(ctx, actor)
	require.NoError(t, err)
	assert.Equal(t, contacts, got)
}
