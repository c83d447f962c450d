package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductModel mirrors the 'products' table. Products are soft deleted so
// historical sale lines keep a valid reference.
type ProductModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	Code        string    `gorm:"type:varchar(50);uniqueIndex:idx_products_code_batch;not null"`
	BatchNumber *string   `gorm:"type:varchar(50);uniqueIndex:idx_products_code_batch"`
	Name        string    `gorm:"type:varchar(100);not null"`
	Category    string    `gorm:"type:varchar(50);index"`

	Quantity     int `gorm:"not null;default:0"`
	LowStock     int `gorm:"not null;default:0"`
	ReorderPoint int `gorm:"not null;default:0"`

	BuyingPrice  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	SellingPrice decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Tax          decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Discount     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// TableName explicitly sets the table name for GORM.
func (ProductModel) TableName() string {
	return "products"
}
