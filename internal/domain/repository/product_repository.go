package repository

import (
	"context"

	"github.com/google/uuid"

	"posledger/internal/domain/entity"
	"posledger/internal/errors"
)

// ErrProductNotFound is returned when a product does not exist.
var ErrProductNotFound = errors.New("product not found")

// ProductRepository persists products and their stock counters.
type ProductRepository interface {
	// Create persists a new product.
	Create(ctx context.Context, product *entity.Product) error

	// FindByID retrieves a product by ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)

	// FindByIDForUpdate retrieves a product by ID, taking a row lock so
	// concurrent sales against the same product cannot lose stock updates.
	// Only meaningful inside a transaction.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Product, error)

	// Update persists the product's mutable fields, including the quantity.
	Update(ctx context.Context, product *entity.Product) error

	// ListLowStock returns products whose quantity is at or below their
	// low-stock threshold.
	ListLowStock(ctx context.Context) ([]*entity.Product, error)
}
