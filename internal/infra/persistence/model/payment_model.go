package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentModel mirrors the 'payments' table. Rows are append-only; reference
// numbers are recorded verbatim and deliberately not unique.
type PaymentModel struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	CustomerID uuid.UUID  `gorm:"type:uuid;not null;index"`
	SaleID     *uuid.UUID `gorm:"type:uuid;index"`

	Amount          decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Method          string          `gorm:"type:varchar(10);not null"`
	PaymentDate     time.Time       `gorm:"not null;index"`
	ReferenceNumber string          `gorm:"type:varchar(100)"`
	RecordedBy      *uuid.UUID      `gorm:"type:uuid"`

	CreatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (PaymentModel) TableName() string {
	return "payments"
}
