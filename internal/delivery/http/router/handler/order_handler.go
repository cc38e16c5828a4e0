package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"konv/internal/delivery/http/middleware"
	"konv/internal/delivery/http/response"
	"konv/internal/domain/entity"
	"konv/internal/domain/repository"
	"konv/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// OrderHandler holds dependencies for order-related handlers.
type OrderHandler struct {
	uc     usecase.OrderUsecase
	logger *slog.Logger
}

// NewOrderHandler is the constructor for OrderHandler, injected by Fx.
func NewOrderHandler(uc usecase.OrderUsecase, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{uc: uc, logger: logger}
}

// CreateOrder handles placing a new order. Customers order for themselves;
// staff may omit the customer to create a curated-list order.
func (h *OrderHandler) CreateOrder(c echo.Context) error {
	actor := middleware.GetActor(c)

	var input *usecase.CreateOrderInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid order input")
	}

	// Customers can only order for themselves.
	if !actor.Role.IsStaff() {
		input.CustomerID = &actor.ID
		input.IsCuratedList = false
	}

	order, err := h.uc.CreateOrder(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, order, "Order placed successfully")
}

// GetOrder returns a single order within the actor's visibility scope.
func (h *OrderHandler) GetOrder(c echo.Context) error {
	actor := middleware.GetActor(c)

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid order ID")
	}

	order, err := h.uc.GetOrder(c.Request().Context(), actor, orderID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, order, "")
}

// ListOrders returns orders under the actor's visibility scope.
func (h *OrderHandler) ListOrders(c echo.Context) error {
	actor := middleware.GetActor(c)

	var filter repository.OrderFilter
	if status := c.QueryParam("status"); status != "" {
		orderStatus := entity.OrderStatus(status)
		if !orderStatus.IsValid() {
			return response.BindingError(c, "INVALID_INPUT", "Unknown order status")
		}
		filter.Status = &orderStatus
	}
	if driver := c.QueryParam("driver_id"); driver != "" {
		driverID, err := uuid.Parse(driver)
		if err != nil {
			return response.BindingError(c, "INVALID_INPUT", "Invalid driver ID")
		}
		filter.DriverID = &driverID
	}
	if valid := c.QueryParam("valid"); valid != "" {
		parsed, err := strconv.ParseBool(valid)
		if err != nil {
			return response.BindingError(c, "INVALID_INPUT", "Invalid valid flag")
		}
		filter.Valid = &parsed
	}

	orders, err := h.uc.ListOrders(c.Request().Context(), actor, filter)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, orders, "")
}

// CancelOrder cancels a placed order.
func (h *OrderHandler) CancelOrder(c echo.Context) error {
	actor := middleware.GetActor(c)

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid order ID")
	}

	// The scope check runs first so customers cannot cancel orders they
	// cannot even see.
	order, err := h.uc.GetOrder(c.Request().Context(), actor, orderID)
	if err != nil {
		return errors.WithStack(err)
	}

	// Curated-list orders are visible to every customer but owned by none;
	// only the owning customer or staff may cancel.
	owns := order.CustomerID != nil && *order.CustomerID == actor.ID
	if !actor.Role.IsStaff() && !owns {
		return response.Forbidden(c, "NOT_ORDER_OWNER", "Only the order's customer may cancel it")
	}

	if err := h.uc.CancelOrder(c.Request().Context(), orderID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Order cancelled successfully")
}

// RejectOrder rejects a placed order. Staff only.
func (h *OrderHandler) RejectOrder(c echo.Context) error {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid order ID")
	}

	if err := h.uc.RejectOrder(c.Request().Context(), orderID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Order rejected")
}

// deliverInput optionally overrides the delivery timestamp.
type deliverInput struct {
	DeliveredAt *time.Time `json:"delivered_at,omitempty"`
}

// DeliverOrder marks a placed order delivered. Staff only.
func (h *OrderHandler) DeliverOrder(c echo.Context) error {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid order ID")
	}

	var input deliverInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid delivery input")
	}

	if err := h.uc.DeliverOrder(c.Request().Context(), orderID, input.DeliveredAt); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Order delivered")
}

// assignDriverInput names the driver to dispatch.
type assignDriverInput struct {
	DriverID uuid.UUID `json:"driver_id"`
}

// AssignDriver dispatches a driver onto the order. Staff only.
func (h *OrderHandler) AssignDriver(c echo.Context) error {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid order ID")
	}

	var input assignDriverInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid dispatch input")
	}

	if err := h.uc.AssignDriver(c.Request().Context(), orderID, input.DriverID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Driver assigned")
}

// ListTrackers returns the order's event trail.
func (h *OrderHandler) ListTrackers(c echo.Context) error {
	actor := middleware.GetActor(c)

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid order ID")
	}

	trackers, err := h.uc.ListTrackers(c.Request().Context(), actor, orderID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, trackers, "")
}

// TrackingQR streams the order's tracking number as a PNG QR code.
func (h *OrderHandler) TrackingQR(c echo.Context) error {
	actor := middleware.GetActor(c)

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid order ID")
	}

	png, err := h.uc.TrackingQR(c.Request().Context(), actor, orderID)
	if err != nil {
		return errors.WithStack(err)
	}

	return c.Blob(http.StatusOK, "image/png", png)
}

// InvalidateItem soft-invalidates a line item. Staff only.
func (h *OrderHandler) InvalidateItem(c echo.Context) error {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid order ID")
	}

	itemID, err := uuid.Parse(c.Param("itemID"))
	if err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid item ID")
	}

	if err := h.uc.InvalidateItem(c.Request().Context(), orderID, itemID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Order item invalidated")
}
