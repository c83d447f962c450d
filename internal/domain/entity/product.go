package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domainerrors "posledger/internal/domain/errors"
)

// Product represents an inventory item together with its stock counters.
type Product struct {
	ID          uuid.UUID `json:"id"`
	Code        string    `json:"code"`                   // unique product code
	BatchNumber *string   `json:"batch_number,omitempty"` // unique when present
	Name        string    `json:"name"`
	Category    string    `json:"category"`

	Quantity     int `json:"quantity"`
	LowStock     int `json:"low_stock"` // reorder alert threshold
	ReorderPoint int `json:"reorder_point"`

	BuyingPrice  decimal.Decimal `json:"buying_price"`
	SellingPrice decimal.Decimal `json:"selling_price"`
	Tax          decimal.Decimal `json:"tax"`
	Discount     decimal.Decimal `json:"discount"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsLowStock reports whether the product has fallen to the reorder threshold.
func (p *Product) IsLowStock() bool {
	return p.Quantity <= p.LowStock
}

// IsOutOfStock reports whether no units remain.
func (p *Product) IsOutOfStock() bool {
	return p.Quantity == 0
}

// ProfitMargin returns (sellingPrice - buyingPrice) / buyingPrice * 100,
// or zero when the buying price is zero.
func (p *Product) ProfitMargin() decimal.Decimal {
	if p.BuyingPrice.IsZero() {
		return decimal.Zero
	}

	return p.SellingPrice.Sub(p.BuyingPrice).
		Div(p.BuyingPrice).
		Mul(decimal.NewFromInt(100))
}

// Deduct removes qty units from stock. It fails with InsufficientStockError
// when fewer units are available than requested, leaving the quantity
// unchanged.
func (p *Product) Deduct(qty int) error {
	if qty > p.Quantity {
		return domainerrors.NewInsufficientStockError(p.ID, qty, p.Quantity)
	}
	p.Quantity -= qty

	return nil
}

// Restock adds qty units to stock. Negative quantities are rejected.
func (p *Product) Restock(qty int) error {
	if qty < 0 {
		return domainerrors.ErrValidationFailed.WithDetails("restock quantity must not be negative")
	}
	p.Quantity += qty

	return nil
}
