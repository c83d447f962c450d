package usecase

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"posledger/internal/domain/entity"
)

// Stock-changed action tags carried on StockUpdatedEvent.
const (
	StockActionSale                 = "sale"
	StockActionRestock              = "restock"
	StockActionPurchaseOrderReceipt = "purchase_order_receipt"
	StockActionSaleReturn           = "sale_return"
)

// CreateProductInput is the request for creating a product.
type CreateProductInput struct {
	Code         string          `json:"code" validate:"required"`
	BatchNumber  *string         `json:"batch_number,omitempty"`
	Name         string          `json:"name" validate:"required"`
	Category     string          `json:"category"`
	Quantity     int             `json:"quantity" validate:"min=0"`
	LowStock     int             `json:"low_stock" validate:"min=0"`
	ReorderPoint int             `json:"reorder_point" validate:"min=0"`
	BuyingPrice  decimal.Decimal `json:"buying_price"`
	SellingPrice decimal.Decimal `json:"selling_price"`
	Tax          decimal.Decimal `json:"tax"`
	Discount     decimal.Decimal `json:"discount"`
}

// InventoryUsecase manages products and the restock side of the stock ledger.
// Sale-side deductions go through SaleUsecase so they share the sale's
// transaction.
type InventoryUsecase interface {
	// CreateProduct persists a new product.
	CreateProduct(ctx context.Context, input *CreateProductInput) (*entity.Product, error)

	// GetProduct retrieves a product by ID.
	GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error)

	// IncreaseStock adds qty units to a product, row-locked, and emits a
	// stock-updated event tagged with the action (restock, purchase-order
	// receipt, sale return).
	IncreaseStock(ctx context.Context, productID uuid.UUID, qty int, action string) (*entity.Product, error)

	// ListLowStock returns products at or below their low-stock threshold.
	ListLowStock(ctx context.Context) ([]*entity.Product, error)
}
