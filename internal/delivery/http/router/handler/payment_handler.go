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

// PaymentHandler holds dependencies for payment-related handlers.
type PaymentHandler struct {
	uc     usecase.PaymentUsecase
	logger *slog.Logger
}

// NewPaymentHandler is the constructor for PaymentHandler, injected by Fx.
func NewPaymentHandler(uc usecase.PaymentUsecase, logger *slog.Logger) *PaymentHandler {
	return &PaymentHandler{uc: uc, logger: logger}
}

// InitiatePayment records a payment attempt and, for mobile money, prompts
// the customer through the gateway.
func (h *PaymentHandler) InitiatePayment(c echo.Context) error {
	actor := middleware.GetActor(c)

	var input *usecase.InitiatePaymentInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid payment input")
	}

	// Customers pay as themselves.
	if !actor.Role.IsStaff() {
		input.CustomerID = actor.ID
	}

	payment, err := h.uc.InitiatePayment(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, payment, "Payment initiated")
}

// GetPayment returns a single payment.
func (h *PaymentHandler) GetPayment(c echo.Context) error {
	paymentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid payment ID")
	}

	payment, err := h.uc.GetPayment(c.Request().Context(), paymentID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, payment, "")
}

// ListOrderPayments returns every payment attempt against an order.
func (h *PaymentHandler) ListOrderPayments(c echo.Context) error {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid order ID")
	}

	payments, err := h.uc.ListOrderPayments(c.Request().Context(), orderID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, payments, "")
}
