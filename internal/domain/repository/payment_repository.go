package repository

import (
	"context"

	"github.com/google/uuid"

	"posledger/internal/domain/entity"
)

// PaymentRepository persists settlement records. Payments are append-only;
// they are never mutated after creation.
type PaymentRepository interface {
	// Create persists a new payment record.
	Create(ctx context.Context, payment *entity.Payment) error

	// ListByCustomer returns a customer's payments, newest first.
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*entity.Payment, error)
}
