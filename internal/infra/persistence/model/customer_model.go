// Package model holds the GORM table mappings of the persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CustomerModel mirrors the 'customers' table. PostgreSQL generates UUIDs via
// uuid_generate_v7(). All money columns are decimal(12,2); credit_spend is the
// outstanding balance the grace-period state machine runs on.
type CustomerModel struct {
	ID    uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	Code  string    `gorm:"type:varchar(20);unique;not null"`
	Name  string    `gorm:"type:varchar(100);not null"`
	Phone string    `gorm:"type:varchar(30)"`
	Email string    `gorm:"type:varchar(255)"`

	CreditLimit      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	CreditSpend      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	CashBalance      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	CardBalance      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	CreditBalance    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	NetBalance       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TotalBalance     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	CreditPeriodDays int             `gorm:"not null;default:30"`

	CreditLimitReachedAt  *time.Time
	CreditPeriodExpiresAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (CustomerModel) TableName() string {
	return "customers"
}
