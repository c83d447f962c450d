package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"posledger/internal/domain/entity"
	"posledger/internal/errors"
)

// ErrSaleNotFound is returned when a sale does not exist.
var ErrSaleNotFound = errors.New("sale not found")

// SalesSummary is the aggregate used by the daily dashboard report.
type SalesSummary struct {
	Day         time.Time       `json:"day"`
	SaleCount   int64           `json:"sale_count"`
	GrossTotal  decimal.Decimal `json:"gross_total"`
	CashTotal   decimal.Decimal `json:"cash_total"`
	CardTotal   decimal.Decimal `json:"card_total"`
	CreditTotal decimal.Decimal `json:"credit_total"`
	ProfitTotal decimal.Decimal `json:"profit_total"`
}

// SaleRepository persists sales and their line items.
type SaleRepository interface {
	// Create persists a sale together with all of its line items.
	Create(ctx context.Context, sale *entity.Sale) error

	// FindByID retrieves a sale with its line items.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Sale, error)

	// SummaryByDay aggregates sales for the calendar day containing the
	// given instant (UTC day boundaries).
	SummaryByDay(ctx context.Context, day time.Time) (*SalesSummary, error)
}
