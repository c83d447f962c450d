package usecase

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"posledger/internal/domain/entity"
)

// RegisterCustomerInput is the request for registering a customer.
// CreditPeriodDays is a whole day count; the legacy "N days" string format is
// not accepted.
type RegisterCustomerInput struct {
	Name             string          `json:"name" validate:"required"`
	Phone            string          `json:"phone"`
	Email            string          `json:"email" validate:"omitempty,email"`
	CreditLimit      decimal.Decimal `json:"credit_limit"`
	CreditPeriodDays int             `json:"credit_period_days" validate:"required,min=1"`
}

// CustomerUsecase manages customer registration and credit-standing reads.
type CustomerUsecase interface {
	// RegisterCustomer creates a customer with a generated unique code and
	// zeroed balances.
	RegisterCustomer(ctx context.Context, input *RegisterCustomerInput) (*entity.Customer, error)

	// GetCustomer retrieves a customer by ID.
	GetCustomer(ctx context.Context, id uuid.UUID) (*entity.Customer, error)

	// CreditStatus evaluates the customer's grace-period standing lazily at
	// call time. It never mutates stored state.
	CreditStatus(ctx context.Context, id uuid.UUID) (*entity.CreditStanding, error)
}
