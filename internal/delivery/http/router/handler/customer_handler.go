package handler

import (
	"log/slog"
	"net/http"

	"posledger/internal/delivery/http/response"
	"posledger/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// CustomerHandler holds dependencies for customer-related handlers.
type CustomerHandler struct {
	uc     usecase.CustomerUsecase
	logger *slog.Logger
}

// NewCustomerHandler is the constructor for CustomerHandler, injected by Fx.
func NewCustomerHandler(uc usecase.CustomerUsecase, logger *slog.Logger) *CustomerHandler {
	return &CustomerHandler{
		uc:     uc,
		logger: logger,
	}
}

// Register handles the customer registration request.
func (h *CustomerHandler) Register(c echo.Context) error {
	var input usecase.RegisterCustomerInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid customer input")
	}

	if err := c.Validate(&input); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	customer, err := h.uc.RegisterCustomer(c.Request().Context(), &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, customer, "Customer registered successfully")
}

// Get handles the customer lookup request.
func (h *CustomerHandler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid customer id")
	}

	customer, err := h.uc.GetCustomer(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, customer, "")
}

// CreditStatus returns the customer's current grace-period standing.
func (h *CustomerHandler) CreditStatus(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid customer id")
	}

	standing, err := h.uc.CreditStatus(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, standing, "")
}
