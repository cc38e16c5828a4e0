// Package usecase defines the application's use case interfaces and their
// input/output types.
package usecase

import (
	"context"
	"time"

	"konv/internal/domain/entity"
	"konv/internal/domain/policy"

	"github.com/google/uuid"
)

// RegisterCustomerInput is the input for customer self-registration.
type RegisterCustomerInput struct {
	Phone       string     `json:"phone"`
	Password    string     `json:"password"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
}

// CreateStaffInput is the input for admin-driven staff account creation
// (drivers, admins, developers).
type CreateStaffInput struct {
	Phone    string      `json:"phone"`
	Password string      `json:"password"`
	Role     entity.Role `json:"role"`
}

// LoginInput is the input for phone+password login.
type LoginInput struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// TokenPair carries the issued access and refresh tokens.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// LoginOutput is the result of a successful login.
type LoginOutput struct {
	User   *entity.User `json:"user"`
	Tokens TokenPair    `json:"tokens"`
}

// AddContactInput is the input for saving a new contact.
type AddContactInput struct {
	Phone    string `json:"phone"`
	Activate bool   `json:"activate"`
}

// AddLocationInput is the input for saving a new location.
type AddLocationInput struct {
	Name       string     `json:"name"`
	Latitude   float64    `json:"latitude"`
	Longitude  float64    `json:"longitude"`
	DistrictID *uuid.UUID `json:"district_id,omitempty"`
	Activate   bool       `json:"activate"`
}

// AccountUsecase covers registration, authentication and the customer's saved
// contacts and locations.
type AccountUsecase interface {
	// RegisterCustomer creates the customer user together with its first
	// active contact mirroring the registration phone, in one transaction.
	RegisterCustomer(ctx context.Context, input *RegisterCustomerInput) (*entity.User, error)

	// CreateStaff creates a driver, admin or developer account.
	CreateStaff(ctx context.Context, input *CreateStaffInput) (*entity.User, error)

	// Login verifies phone+password and issues a token pair.
	Login(ctx context.Context, input *LoginInput) (*LoginOutput, error)

	// Refresh exchanges a valid refresh token for a new token pair.
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)

	// AddContact saves a contact for the customer, optionally activating it.
	AddContact(ctx context.Context, customerID uuid.UUID, input *AddContactInput) (*entity.Contact, error)

	// ActivateContact makes the contact the customer's single active one.
	ActivateContact(ctx context.Context, customerID, contactID uuid.UUID) error

	// ListContacts returns contacts visible to the actor.
	ListContacts(ctx context.Context, actor policy.Actor) ([]*entity.Contact, error)

	// AddLocation saves a location for the customer, optionally activating it.
	AddLocation(ctx context.Context, customerID uuid.UUID, input *AddLocationInput) (*entity.Location, error)

	// ActivateLocation makes the location the customer's single active one.
	ActivateLocation(ctx context.Context, customerID, locationID uuid.UUID) error

	// ListLocations returns locations visible to the actor.
	ListLocations(ctx context.Context, actor policy.Actor) ([]*entity.Location, error)
}
