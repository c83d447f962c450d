package impl

import (
	"context"
	"testing"
	"time"

	"posledger/internal/domain/entity"
	"posledger/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDailySummary_AggregatesTheRequestedDayOnly(t *testing.T) {
	ctx := context.Background()
	customer := testCustomer("100.00", 7)
	product := testProduct("P-001", 100, "3.00", "5.00")
	fixture := newServiceFixture([]*entity.Customer{customer}, []*entity.Product{product})
	saleSvc := fixture.saleService()

	_, err := saleSvc.CreateSale(ctx, &usecase.CreateSaleInput{
		Lines: []usecase.SaleLineInput{
			{ProductID: product.ID, Quantity: 2},
		},
		PaidAmount:    dec("10.00"),
		PaymentMethod: entity.PaymentMethodCash,
	})
	require.NoError(t, err)

	_, err = saleSvc.CreateSale(ctx, &usecase.CreateSaleInput{
		CustomerID: &customer.ID,
		Lines: []usecase.SaleLineInput{
			{ProductID: product.ID, Quantity: 3},
		},
		PaidAmount:    dec("15.00"),
		PaymentMethod: entity.PaymentMethodCredit,
	})
	require.NoError(t, err)

	summary, err := NewReportService(fixture.sales).DailySummary(ctx, time.Now())
	require.NoError(t, err)

	assert.Equal(t, int64(2), summary.SaleCount)
	assertDecimalEqual(t, "25.00", summary.GrossTotal)
	assertDecimalEqual(t, "10.00", summary.CashTotal)
	assertDecimalEqual(t, "0", summary.CardTotal)
	assertDecimalEqual(t, "15.00", summary.CreditTotal)
	assertDecimalEqual(t, "10.00", summary.ProfitTotal)
}

func TestDailySummary_EmptyDay(t *testing.T) {
	fixture := newServiceFixture(nil, nil)

	summary, err := NewReportService(fixture.sales).DailySummary(context.Background(), time.Now().AddDate(0, 0, -30))
	require.NoError(t, err)

	assert.Zero(t, summary.SaleCount)
	assertDecimalEqual(t, "0", summary.GrossTotal)
	assertDecimalEqual(t, "0", summary.ProfitTotal)
}
