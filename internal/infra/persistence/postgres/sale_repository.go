package postgres

import (
	"context"
	"time"

	"posledger/internal/domain/entity"
	domainerrors "posledger/internal/domain/errors"
	"posledger/internal/domain/repository"
	"posledger/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// saleRepository implements the domain.SaleRepository interface using GORM.
type saleRepository struct {
	db *gorm.DB
}

// NewSaleRepository is the constructor for saleRepository.
func NewSaleRepository(db *gorm.DB) repository.SaleRepository {
	return &saleRepository{db: db}
}

// Create persists a sale together with all of its line items. GORM cascades
// the Items association into sale_items in the same statement batch.
func (repo *saleRepository) Create(ctx context.Context, sale *entity.Sale) error {
	saleM := fromSaleDomain(sale)

	if err := repo.db.WithContext(ctx).Create(saleM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.NewConcurrencyConflictError("sale")
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("missing required sale information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create sale")
	}

	sale.CreatedAt = saleM.CreatedAt

	return nil
}

// FindByID retrieves a sale with its line items.
func (repo *saleRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	var saleM model.SaleModel

	err := repo.db.WithContext(ctx).
		Preload("Items").
		Where("id = ?", id).
		First(&saleM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrSaleNotFound
		}

		return nil, errors.Wrap(err, "failed to find sale by id")
	}

	return toSaleDomain(&saleM), nil
}

// saleSummaryRow receives the header aggregate of SummaryByDay.
type saleSummaryRow struct {
	SaleCount   int64
	GrossTotal  decimal.Decimal
	CashTotal   decimal.Decimal
	CardTotal   decimal.Decimal
	CreditTotal decimal.Decimal
}

// saleProfitRow receives the line-item profit aggregate of SummaryByDay.
type saleProfitRow struct {
	ProfitTotal decimal.Decimal
}

// SummaryByDay aggregates sales for the UTC calendar day containing the given
// instant. Profit comes from the line-item snapshots, so later price changes
// never rewrite history.
func (repo *saleRepository) SummaryByDay(ctx context.Context, day time.Time) (*repository.SalesSummary, error) {
	utc := day.UTC()
	dayStart := time.Date(utc.Year(), utc.Month(), utc.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.AddDate(0, 0, 1)

	var header saleSummaryRow
	err := repo.db.WithContext(ctx).
		Model(&model.SaleModel{}).
		Select("COUNT(*) AS sale_count, "+
			"COALESCE(SUM(total_amount), 0) AS gross_total, "+
			"COALESCE(SUM(cash_amount), 0) AS cash_total, "+
			"COALESCE(SUM(card_amount), 0) AS card_total, "+
			"COALESCE(SUM(credit_amount), 0) AS credit_total").
		Where("created_at >= ? AND created_at < ?", dayStart, dayEnd).
		Scan(&header).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to aggregate sales")
	}

	var profit saleProfitRow
	err = repo.db.WithContext(ctx).
		Model(&model.SaleItemModel{}).
		Select("COALESCE(SUM((sale_items.unit_price - sale_items.unit_cost) * sale_items.quantity), 0) AS profit_total").
		Joins("JOIN sales ON sales.id = sale_items.sale_id").
		Where("sales.created_at >= ? AND sales.created_at < ?", dayStart, dayEnd).
		Scan(&profit).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to aggregate sale profit")
	}

	return &repository.SalesSummary{
		Day:         dayStart,
		SaleCount:   header.SaleCount,
		GrossTotal:  header.GrossTotal,
		CashTotal:   header.CashTotal,
		CardTotal:   header.CardTotal,
		CreditTotal: header.CreditTotal,
		ProfitTotal: profit.ProfitTotal,
	}, nil
}

func toSaleDomain(data *model.SaleModel) *entity.Sale {
	items := make([]*entity.SaleItem, len(data.Items))
	for i := range data.Items {
		items[i] = toSaleItemDomain(&data.Items[i])
	}

	return &entity.Sale{
		ID:            data.ID,
		BillNumber:    data.BillNumber,
		CustomerID:    data.CustomerID,
		Status:        entity.SaleStatus(data.Status),
		TotalQuantity: data.TotalQuantity,
		TotalAmount:   data.TotalAmount,
		PaidAmount:    data.PaidAmount,
		DueAmount:     data.DueAmount,
		CashAmount:    data.CashAmount,
		CardAmount:    data.CardAmount,
		CreditAmount:  data.CreditAmount,
		DiscountValue: data.DiscountValue,
		Items:         items,
		CreatedAt:     data.CreatedAt,
	}
}

func fromSaleDomain(data *entity.Sale) *model.SaleModel {
	items := make([]model.SaleItemModel, len(data.Items))
	for i, item := range data.Items {
		items[i] = model.SaleItemModel{
			ID:        item.ID,
			SaleID:    data.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			UnitCost:  item.UnitCost,
			LineTotal: item.LineTotal,
		}
	}

	return &model.SaleModel{
		ID:            data.ID,
		BillNumber:    data.BillNumber,
		CustomerID:    data.CustomerID,
		Status:        string(data.Status),
		TotalQuantity: data.TotalQuantity,
		TotalAmount:   data.TotalAmount,
		PaidAmount:    data.PaidAmount,
		DueAmount:     data.DueAmount,
		CashAmount:    data.CashAmount,
		CardAmount:    data.CardAmount,
		CreditAmount:  data.CreditAmount,
		DiscountValue: data.DiscountValue,
		Items:         items,
		CreatedAt:     data.CreatedAt,
	}
}

func toSaleItemDomain(data *model.SaleItemModel) *entity.SaleItem {
	return &entity.SaleItem{
		ID:        data.ID,
		SaleID:    data.SaleID,
		ProductID: data.ProductID,
		Quantity:  data.Quantity,
		UnitPrice: data.UnitPrice,
		UnitCost:  data.UnitCost,
		LineTotal: data.LineTotal,
	}
}
