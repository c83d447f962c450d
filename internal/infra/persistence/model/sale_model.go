package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleModel mirrors the 'sales' table. The bill number is generated inside
// the sale transaction from the bill_number sequence.
type SaleModel struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	BillNumber string     `gorm:"type:varchar(20);unique;not null"`
	CustomerID *uuid.UUID `gorm:"type:uuid;index"`
	Status     string     `gorm:"type:varchar(20);not null;default:'approved'"`

	TotalQuantity int             `gorm:"not null;default:0"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	PaidAmount    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	DueAmount     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	CashAmount    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	CardAmount    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	CreditAmount  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	DiscountValue decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`

	Customer *CustomerModel  `gorm:"foreignKey:CustomerID"`
	Items    []SaleItemModel `gorm:"foreignKey:SaleID"`

	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (SaleModel) TableName() string {
	return "sales"
}

// SaleItemModel mirrors the 'sale_items' table. Unit price and cost are
// snapshots taken at sale time.
type SaleItemModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	SaleID    uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index"`

	Quantity  int             `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	UnitCost  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	LineTotal decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	CreatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (SaleItemModel) TableName() string {
	return "sale_items"
}
