// Package repository defines the persistence contracts of the domain layer.
package repository

import (
	"context"

	"github.com/google/uuid"

	"posledger/internal/domain/entity"
	"posledger/internal/errors"
)

// ErrCustomerNotFound is returned when a customer does not exist.
var ErrCustomerNotFound = errors.New("customer not found")

// CustomerRepository persists customers and their credit-ledger fields.
type CustomerRepository interface {
	// Create persists a new customer.
	Create(ctx context.Context, customer *entity.Customer) error

	// FindByID retrieves a customer by ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error)

	// FindByIDForUpdate retrieves a customer by ID, taking a row lock so
	// concurrent credit charges and settlements against the same customer
	// are serialized. Only meaningful inside a transaction.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Customer, error)

	// FindByCode retrieves a customer by its generated code.
	FindByCode(ctx context.Context, code string) (*entity.Customer, error)

	// Update persists the customer's mutable fields, including all balance
	// columns and the grace-period timestamps.
	Update(ctx context.Context, customer *entity.Customer) error
}
