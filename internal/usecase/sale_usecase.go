// Package usecase defines the application's use-case interfaces and their
// request/response DTOs.
package usecase

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"posledger/internal/domain/entity"
)

// SaleLineInput is one requested cart line. A zero unit price means "use the
// product's current selling price".
type SaleLineInput struct {
	ProductID uuid.UUID       `json:"product_id" validate:"required"`
	Quantity  int             `json:"quantity" validate:"required,min=1"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// CreateSaleInput is the request for creating a sale. Either the explicit
// cash/card/credit split or a single PaymentMethod may be supplied; when the
// split is given it must sum to PaidAmount.
type CreateSaleInput struct {
	CustomerID    *uuid.UUID           `json:"customer_id,omitempty"` // nil for walk-in
	Lines         []SaleLineInput      `json:"lines" validate:"required,min=1,dive"`
	DiscountValue decimal.Decimal      `json:"discount_value"`
	PaidAmount    decimal.Decimal      `json:"paid_amount"`
	CashAmount    decimal.Decimal      `json:"cash_amount"`
	CardAmount    decimal.Decimal      `json:"card_amount"`
	CreditAmount  decimal.Decimal      `json:"credit_amount"`
	PaymentMethod entity.PaymentMethod `json:"payment_method,omitempty"`
	Status        entity.SaleStatus    `json:"status,omitempty"` // defaults to approved
}

// SaleUsecase turns carts into persisted sales atomically.
type SaleUsecase interface {
	// CreateSale validates the cart, enforces stock and credit rules, and
	// persists the sale with its line items in one all-or-nothing
	// transaction. Domain events are published only after commit.
	CreateSale(ctx context.Context, input *CreateSaleInput) (*entity.Sale, error)

	// GetSale retrieves a sale with its line items.
	GetSale(ctx context.Context, id uuid.UUID) (*entity.Sale, error)

	// ReceiptQR renders the PNG QR code for a sale's printed receipt.
	ReceiptQR(ctx context.Context, saleID uuid.UUID) ([]byte, error)
}
