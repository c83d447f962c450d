package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment is the immutable record of a settlement or partial payment applied
// to a customer's outstanding credit. Payments are pooled against the
// customer's balance, not allocated to a specific invoice; SaleID is kept
// only when the caller supplied one for reference.
type Payment struct {
	ID              uuid.UUID       `json:"id"`
	CustomerID      uuid.UUID       `json:"customer_id"`
	SaleID          *uuid.UUID      `json:"sale_id,omitempty"`
	Amount          decimal.Decimal `json:"amount"`
	Method          PaymentMethod   `json:"method"`
	PaymentDate     time.Time       `json:"payment_date"`
	ReferenceNumber string          `json:"reference_number,omitempty"`
	RecordedBy      *uuid.UUID      `json:"recorded_by,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}
