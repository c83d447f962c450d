package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleStatus is the lifecycle state of a sale.
type SaleStatus string

const (
	SaleStatusPending  SaleStatus = "pending"
	SaleStatusApproved SaleStatus = "approved"
	SaleStatusDraft    SaleStatus = "draft"
)

// PaymentMethod names a tender type on a sale or settlement.
type PaymentMethod string

const (
	PaymentMethodCash   PaymentMethod = "cash"
	PaymentMethodCard   PaymentMethod = "card"
	PaymentMethodCredit PaymentMethod = "credit"
)

// Sale is the persisted transaction header. CustomerID is nil for walk-in
// sales, which can never carry a credit portion.
type Sale struct {
	ID         uuid.UUID  `json:"id"`
	BillNumber string     `json:"bill_number"`
	CustomerID *uuid.UUID `json:"customer_id,omitempty"`
	Status     SaleStatus `json:"status"`

	TotalQuantity int             `json:"total_quantity"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	DueAmount     decimal.Decimal `json:"due_amount"`
	CashAmount    decimal.Decimal `json:"cash_amount"`
	CardAmount    decimal.Decimal `json:"card_amount"`
	CreditAmount  decimal.Decimal `json:"credit_amount"`
	DiscountValue decimal.Decimal `json:"discount_value"`

	Items []*SaleItem `json:"items"`

	CreatedAt time.Time `json:"created_at"`
}

// SaleItem is one product line within a sale. UnitPrice and UnitCost are
// snapshots taken at sale time so historical profit stays correct when the
// product's pricing later changes.
type SaleItem struct {
	ID        uuid.UUID `json:"id"`
	SaleID    uuid.UUID `json:"sale_id"`
	ProductID uuid.UUID `json:"product_id"`

	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// Total returns quantity × unit price.
func (i *SaleItem) Total() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Profit returns (unitPrice - unitCost) × quantity for this line.
func (i *SaleItem) Profit() decimal.Decimal {
	return i.UnitPrice.Sub(i.UnitCost).Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// ComputeTotals fills TotalQuantity, TotalAmount and DueAmount from the line
// items and the discount. Line totals are recomputed from their snapshots.
func (s *Sale) ComputeTotals() {
	s.TotalQuantity = 0
	total := decimal.Zero
	for _, item := range s.Items {
		item.LineTotal = item.Total()
		s.TotalQuantity += item.Quantity
		total = total.Add(item.LineTotal)
	}
	s.TotalAmount = total.Sub(s.DiscountValue)
	s.DueAmount = s.TotalAmount.Sub(s.PaidAmount)
}

// Profit returns the summed line profit of the whole sale.
func (s *Sale) Profit() decimal.Decimal {
	profit := decimal.Zero
	for _, item := range s.Items {
		profit = profit.Add(item.Profit())
	}

	return profit
}
