// Package handler contains the HTTP handlers for the application.
package handler

import (
	"log/slog"
	"net/http"

	"konv/internal/delivery/http/middleware"
	"konv/internal/delivery/http/response"
	"konv/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// AccountHandler holds dependencies for account-related handlers.
type AccountHandler struct {
	uc     usecase.AccountUsecase
	logger *slog.Logger
}

// NewAccountHandler is the constructor for AccountHandler, injected by Fx.
func NewAccountHandler(uc usecase.AccountUsecase, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{uc: uc, logger: logger}
}

// Register handles customer self-registration.
func (h *AccountHandler) Register(c echo.Context) error {
	var input *usecase.RegisterCustomerInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid registration input")
	}

	user, err := h.uc.RegisterCustomer(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	// The password hash never leaves the service.
	user.PasswordHash = ""

	return response.Success(c, http.StatusCreated, user, "Customer registered successfully")
}

// CreateStaff handles admin-driven staff account creation.
func (h *AccountHandler) CreateStaff(c echo.Context) error {
	var input *usecase.CreateStaffInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid staff input")
	}

	user, err := h.uc.CreateStaff(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	user.PasswordHash = ""

	return response.Success(c, http.StatusCreated, user, "Staff account created successfully")
}

// Login handles the phone+password login request.
func (h *AccountHandler) Login(c echo.Context) error {
	var input *usecase.LoginInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid login input")
	}

	output, err := h.uc.Login(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	output.User.PasswordHash = ""

	return response.Success(c, http.StatusOK, output, "Login successful")
}

// refreshInput is the request body for token refresh.
type refreshInput struct {
	RefreshToken string `json:"refresh_token"`
}

// Refresh handles the token refresh request.
func (h *AccountHandler) Refresh(c echo.Context) error {
	var input refreshInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid refresh input")
	}

	tokens, err := h.uc.Refresh(c.Request().Context(), input.RefreshToken)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, tokens, "Token refreshed successfully")
}

// AddContact saves a new contact for the authenticated customer.
func (h *AccountHandler) AddContact(c echo.Context) error {
	actor := middleware.GetActor(c)

	var input *usecase.AddContactInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid contact input")
	}

	contact, err := h.uc.AddContact(c.Request().Context(), actor.ID, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, contact, "Contact saved successfully")
}

// ActivateContact makes a contact the customer's single active one.
func (h *AccountHandler) ActivateContact(c echo.Context) error {
	actor := middleware.GetActor(c)

	contactID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid contact ID")
	}

	if err := h.uc.ActivateContact(c.Request().Context(), actor.ID, contactID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Contact activated successfully")
}

// ListContacts returns contacts visible to the actor.
func (h *AccountHandler) ListContacts(c echo.Context) error {
	actor := middleware.GetActor(c)

	contacts, err := h.uc.ListContacts(c.Request().Context(), actor)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, contacts, "")
}

// AddLocation saves a new location for the authenticated customer.
func (h *AccountHandler) AddLocation(c echo.Context) error {
	actor := middleware.GetActor(c)

	var input *usecase.AddLocationInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid location input")
	}

	location, err := h.uc.AddLocation(c.Request().Context(), actor.ID, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, location, "Location saved successfully")
}

// ActivateLocation makes a location the customer's single active one.
func (h *AccountHandler) ActivateLocation(c echo.Context) error {
	actor := middleware.GetActor(c)

	locationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid location ID")
	}

	if err := h.uc.ActivateLocation(c.Request().Context(), actor.ID, locationID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Location activated successfully")
}

// ListLocations returns locations visible to the actor.
func (h *AccountHandler) ListLocations(c echo.Context) error {
	actor := middleware.GetActor(c)

	locations, err := h.uc.ListLocations(c.Request().Context(), actor)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, locations, "")
}
