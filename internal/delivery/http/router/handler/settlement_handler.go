package handler

import (
	"log/slog"
	"net/http"

	"posledger/internal/delivery/http/middleware"
	"posledger/internal/delivery/http/response"
	"posledger/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// SettlementHandler holds dependencies for settlement-related handlers.
type SettlementHandler struct {
	uc     usecase.SettlementUsecase
	logger *slog.Logger
}

// NewSettlementHandler is the constructor for SettlementHandler, injected by Fx.
func NewSettlementHandler(uc usecase.SettlementUsecase, logger *slog.Logger) *SettlementHandler {
	return &SettlementHandler{
		uc:     uc,
		logger: logger,
	}
}

// Settle applies a payment against the customer's outstanding credit.
func (h *SettlementHandler) Settle(c echo.Context) error {
	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid customer id")
	}

	var input usecase.SettleCreditInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid settlement input")
	}
	input.CustomerID = customerID

	if err := c.Validate(&input); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	if userID := middleware.GetUserID(c); userID != uuid.Nil {
		input.RecordedBy = &userID
	}

	customer, err := h.uc.SettleCredit(c.Request().Context(), &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, customer, "Credit settled successfully")
}

// ListPayments returns the customer's settlement history.
func (h *SettlementHandler) ListPayments(c echo.Context) error {
	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid customer id")
	}

	payments, err := h.uc.ListPayments(c.Request().Context(), customerID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, payments, "")
}
