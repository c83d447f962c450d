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

// SaleHandler holds dependencies for sale-related handlers.
type SaleHandler struct {
	uc     usecase.SaleUsecase
	logger *slog.Logger
}

// NewSaleHandler is the constructor for SaleHandler, injected by Fx.
func NewSaleHandler(uc usecase.SaleUsecase, logger *slog.Logger) *SaleHandler {
	return &SaleHandler{
		uc:     uc,
		logger: logger,
	}
}

// Create handles the sale creation request.
func (h *SaleHandler) Create(c echo.Context) error {
	var input usecase.CreateSaleInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid sale input")
	}

	if err := c.Validate(&input); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	sale, err := h.uc.CreateSale(c.Request().Context(), &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, sale, "Sale created successfully")
}

// Get handles the sale lookup request.
func (h *SaleHandler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid sale id")
	}

	sale, err := h.uc.GetSale(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, sale, "")
}

// ReceiptQR streams the PNG QR code for the sale's printed receipt.
func (h *SaleHandler) ReceiptQR(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid sale id")
	}

	png, err := h.uc.ReceiptQR(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return c.Blob(http.StatusOK, "image/png", png)
}
