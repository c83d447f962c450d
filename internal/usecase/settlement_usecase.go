package usecase

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"posledger/internal/domain/entity"
)

// SettleCreditInput is the request for applying a payment against a
// customer's outstanding credit balance.
type SettleCreditInput struct {
	CustomerID      uuid.UUID            `json:"customer_id" validate:"required"`
	Amount          decimal.Decimal      `json:"amount" validate:"required"`
	Method          entity.PaymentMethod `json:"method,omitempty"` // defaults to cash
	SaleID          *uuid.UUID           `json:"sale_id,omitempty"`
	ReferenceNumber string               `json:"reference_number,omitempty"`
	RecordedBy      *uuid.UUID           `json:"-"` // taken from the authenticated user
}

// SettlementUsecase applies payments against pooled outstanding credit.
// Calls are deliberately not idempotent: every call records a new payment.
type SettlementUsecase interface {
	// SettleCredit validates the amount against the outstanding balance,
	// updates the credit ledger, persists a Payment record and returns the
	// updated customer snapshot.
	SettleCredit(ctx context.Context, input *SettleCreditInput) (*entity.Customer, error)

	// ListPayments returns a customer's settlement history, newest first.
	ListPayments(ctx context.Context, customerID uuid.UUID) ([]*entity.Payment, error)
}
