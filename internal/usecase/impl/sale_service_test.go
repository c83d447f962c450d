package impl

import (
	"context"
	"fmt"
	"testing"

	"posledger/internal/domain/entity"
	domainerrors "posledger/internal/domain/errors"
	"posledger/internal/domain/service"
	"posledger/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSale_CashWalkIn(t *testing.T) {
	ctx := context.Background()
	product := testProduct("P-001", 10, "3.00", "5.00")
	fixture := newServiceFixture(nil, []*entity.Product{product})
	svc := fixture.saleService()

	sale, err := svc.CreateSale(ctx, &usecase.CreateSaleInput{
		Lines: []usecase.SaleLineInput{
			{ProductID: product.ID, Quantity: 2},
		},
		PaidAmount:    dec("10.00"),
		PaymentMethod: entity.PaymentMethodCash,
	})
	require.NoError(t, err)

	assert.Equal(t, "BILL00000001", sale.BillNumber)
	assert.Equal(t, entity.SaleStatusApproved, sale.Status)
	assert.Nil(t, sale.CustomerID)
	assert.Equal(t, 2, sale.TotalQuantity)
	assertDecimalEqual(t, "10.00", sale.TotalAmount)
	assertDecimalEqual(t, "10.00", sale.CashAmount)
	assertDecimalEqual(t, "0", sale.CardAmount)
	assertDecimalEqual(t, "0", sale.CreditAmount)
	assertDecimalEqual(t, "0", sale.DueAmount)

	require.Len(t, sale.Items, 1)
	assertDecimalEqual(t, "5.00", sale.Items[0].UnitPrice)
	assertDecimalEqual(t, "3.00", sale.Items[0].UnitCost)
	assertDecimalEqual(t, "10.00", sale.Items[0].LineTotal)

	stored, err := fixture.products.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, stored.Quantity)

	events := fixture.publisher.published()
	require.Len(t, events, 2)
	stockEvent, ok := events[0].(service.StockUpdatedEvent)
	require.True(t, ok)
	assert.Equal(t, product.ID, stockEvent.ProductID)
	assert.Equal(t, 10, stockEvent.OldQuantity)
	assert.Equal(t, 8, stockEvent.NewQuantity)
	assert.Equal(t, usecase.StockActionSale, stockEvent.Action)

	completed, ok := events[1].(service.SaleCompletedEvent)
	require.True(t, ok)
	assert.Equal(t, sale.ID, completed.SaleID)
	assert.Equal(t, "BILL00000001", completed.BillNumber)
	assertDecimalEqual(t, "10.00", completed.TotalAmount)
	assertDecimalEqual(t, "4.00", completed.ProfitAmount)

	fetched, err := svc.GetSale(ctx, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, sale.BillNumber, fetched.BillNumber)
}

func TestCreateSale_AppliesDiscount(t *testing.T) {
	ctx := context.Background()
	product := testProduct("P-001", 10, "3.00", "5.00")
	fixture := newServiceFixture(nil, []*entity.Product{product})

	sale, err := fixture.saleService().CreateSale(ctx, &usecase.CreateSaleInput{
		Lines: []usecase.SaleLineInput{
			{ProductID: product.ID, Quantity: 2},
		},
		DiscountValue: dec("1.50"),
		PaidAmount:    dec("8.50"),
		PaymentMethod: entity.PaymentMethodCash,
	})
	require.NoError(t, err)

	assertDecimalEqual(t, "8.50", sale.TotalAmount)
	assertDecimalEqual(t, "0", sale.DueAmount)
}

func TestCreateSale_LinePriceOverridesProductPrice(t *testing.T) {
	ctx := context.Background()
	product := testProduct("P-001", 10, "3.00", "5.00")
	fixture := newServiceFixture(nil, []*entity.Product{product})

	sale, err := fixture.saleService().CreateSale(ctx, &usecase.CreateSaleInput{
		Lines: []usecase.SaleLineInput{
			{ProductID: product.ID, Quantity: 1, UnitPrice: dec("4.25")},
		},
		PaidAmount:    dec("4.25"),
		PaymentMethod: entity.PaymentMethodCash,
	})
	require.NoError(t, err)

	assertDecimalEqual(t, "4.25", sale.Items[0].UnitPrice)
	assertDecimalEqual(t, "4.25", sale.TotalAmount)
}

func TestCreateSale_InputValidation(t *testing.T) {
	ctx := context.Background()
	productID := uuid.New()

	tests := []struct {
		name  string
		input *usecase.CreateSaleInput
	}{
		{
			name:  "empty cart",
			input: &usecase.CreateSaleInput{},
		},
		{
			name: "non positive quantity",
			input: &usecase.CreateSaleInput{
				Lines: []usecase.SaleLineInput{{ProductID: productID, Quantity: 0}},
			},
		},
		{
			name: "duplicate product lines",
			input: &usecase.CreateSaleInput{
				Lines: []usecase.SaleLineInput{
					{ProductID: productID, Quantity: 1},
					{ProductID: productID, Quantity: 2},
				},
			},
		},
		{
			name: "negative discount",
			input: &usecase.CreateSaleInput{
				Lines:         []usecase.SaleLineInput{{ProductID: productID, Quantity: 1}},
				DiscountValue: dec("-1"),
			},
		},
		{
			name: "unknown payment method",
			input: &usecase.CreateSaleInput{
				Lines:         []usecase.SaleLineInput{{ProductID: productID, Quantity: 1}},
				PaymentMethod: "barter",
			},
		},
		{
			name: "method and split together",
			input: &usecase.CreateSaleInput{
				Lines:         []usecase.SaleLineInput{{ProductID: productID, Quantity: 1}},
				PaymentMethod: entity.PaymentMethodCash,
				CashAmount:    dec("5"),
				PaidAmount:    dec("5"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fixture := newServiceFixture(nil, nil)

			_, err := fixture.saleService().CreateSale(ctx, tt.input)

			var appErr domainerrors.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, "VALIDATION_FAILED", appErr.ErrorCode())
			assert.Zero(t, fixture.txManager.executions)
		})
	}
}

func TestCreateSale_SplitMustSumToPaidAmount(t *testing.T) {
	ctx := context.Background()
	product := testProduct("P-001", 10, "3.00", "5.00")
	fixture := newServiceFixture(nil, []*entity.Product{product})

	_, err := fixture.saleService().CreateSale(ctx, &usecase.CreateSaleInput{
		Lines: []usecase.SaleLineInput{
			{ProductID: product.ID, Quantity: 2},
		},
		PaidAmount: dec("10.00"),
		CashAmount: dec("5.00"),
		CardAmount: dec("2.00"),
	})

	var appErr domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "VALIDATION_FAILED", appErr.ErrorCode())
	assert.Zero(t, fixture.txManager.executions)
	assert.Zero(t, fixture.sales.count())
}

func TestCreateSale_RejectsWalkInCredit(t *testing.T) {
	ctx := context.Background()
	product := testProduct("P-001", 10, "3.00", "5.00")
	fixture := newServiceFixture(nil, []*entity.Product{product})

	_, err := fixture.saleService().CreateSale(ctx, &usecase.CreateSaleInput{
		Lines: []usecase.SaleLineInput{
			{ProductID: product.ID, Quantity: 1},
		},
		PaidAmount:    dec("5.00"),
		PaymentMethod: entity.PaymentMethodCredit,
	})

	assert.ErrorIs(t, err, domainerrors.ErrWalkInCredit)
	assert.Zero(t, fixture.txManager.executions)
}

func TestCreateSale_InsufficientStockLeavesNothingBehind(t *testing.T) {
	ctx := context.Background()
	plenty := testProduct("P-001", 10, "3.00", "5.00")
	scarce := testProduct("P-002", 1, "2.00", "4.00")
	fixture := newServiceFixture(nil, []*entity.Product{plenty, scarce})

	_, err := fixture.saleService().CreateSale(ctx, &usecase.CreateSaleInput{
		Lines: []usecase.SaleLineInput{
			{ProductID: plenty.ID, Quantity: 2},
			{ProductID: scarce.ID, Quantity: 5},
		},
		PaidAmount:    dec("30.00"),
		PaymentMethod: entity.PaymentMethodCash,
	})

	var stockErr *domainerrors.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, scarce.ID, stockErr.ProductID)
	assert.Equal(t, 5, stockErr.Requested)
	assert.Equal(t, 1, stockErr.Available)

	// Neither line may have consumed stock.
	stored, err := fixture.products.FindByID(ctx, plenty.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, stored.Quantity)
	stored, err = fixture.products.FindByID(ctx, scarce.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.Quantity)

	assert.Zero(t, fixture.sales.count())
	assert.Empty(t, fixture.publisher.published())
}

func TestCreateSale_PaidAmountOverTotalRejected(t *testing.T) {
	ctx := context.Background()
	product := testProduct("P-001", 10, "3.00", "5.00")
	fixture := newServiceFixture(nil, []*entity.Product{product})

	_, err := fixture.saleService().CreateSale(ctx, &usecase.CreateSaleInput{
		Lines: []usecase.SaleLineInput{
			{ProductID: product.ID, Quantity: 1},
		},
		PaidAmount:    dec("50.00"),
		PaymentMethod: entity.PaymentMethodCash,
	})

	var appErr domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "VALIDATION_FAILED", appErr.ErrorCode())

	stored, findErr := fixture.products.FindByID(ctx, product.ID)
	require.NoError(t, findErr)
	assert.Equal(t, 10, stored.Quantity)
	assert.Zero(t, fixture.sales.count())
}

func TestCreateSale_CreditWithinLimit(t *testing.T) {
	ctx := context.Background()
	customer := testCustomer("100.00", 7)
	product := testProduct("P-001", 10, "3.00", "5.00")
	fixture := newServiceFixture([]*entity.Customer{customer}, []*entity.Product{product})

	sale, err := fixture.saleService().CreateSale(ctx, &usecase.CreateSaleInput{
		CustomerID: &customer.ID,
		Lines: []usecase.SaleLineInput{
			{ProductID: product.ID, Quantity: 4},
		},
		PaidAmount:    dec("20.00"),
		PaymentMethod: entity.PaymentMethodCredit,
	})
	require.NoError(t, err)
	assertDecimalEqual(t, "20.00", sale.CreditAmount)

	stored, err := fixture.customers.FindByID(ctx, customer.ID)
	require.NoError(t, err)
	assertDecimalEqual(t, "20.00", stored.CreditSpend)
	assert.Nil(t, stored.CreditLimitReachedAt)
	assert.Nil(t, stored.CreditPeriodExpiresAt)

	for _, event := range fixture.publisher.published() {
		assert.NotEqual(t, "credit.exceeded", event.EventName())
	}
}

func TestCreateSale_CreditCrossingLimitStartsEpisode(t *testing.T) {
	ctx := context.Background()
	customer := testCustomer("100.00", 7)
	customer.CreditSpend = dec("80.00")
	customer.CreditBalance = dec("80.00")
	customer.NetBalance = dec("80.00")
	product := testProduct("P-001", 10, "20.00", "30.00")
	fixture := newServiceFixture([]*entity.Customer{customer}, []*entity.Product{product})

	_, err := fixture.saleService().CreateSale(ctx, &usecase.CreateSaleInput{
		CustomerID: &customer.ID,
		Lines: []usecase.SaleLineInput{
			{ProductID: product.ID, Quantity: 1},
		},
		PaidAmount:    dec("30.00"),
		PaymentMethod: entity.PaymentMethodCredit,
	})
	require.NoError(t, err)

	stored, err := fixture.customers.FindByID(ctx, customer.ID)
	require.NoError(t, err)
	assertDecimalEqual(t, "110.00", stored.CreditSpend)
	require.NotNil(t, stored.CreditLimitReachedAt)
	require.NotNil(t, stored.CreditPeriodExpiresAt)
	assert.Equal(t,
		stored.CreditLimitReachedAt.AddDate(0, 0, customer.CreditPeriodDays),
		*stored.CreditPeriodExpiresAt)

	events := fixture.publisher.published()
	require.NotEmpty(t, events)
	exceeded, ok := events[0].(service.CreditExceededEvent)
	require.True(t, ok)
	assert.Equal(t, customer.ID, exceeded.CustomerID)
	assertDecimalEqual(t, "10.00", exceeded.ExceededAmount)
}

func TestCreateSale_CreditBlockedAfterExpiry(t *testing.T) {
	ctx := context.Background()
	customer := testCustomer("100.00", 7)
	customer.CreditSpend = dec("120.00")
	reachedAt := timeDaysAgo(10)
	expiresAt := timeDaysAgo(3)
	customer.CreditLimitReachedAt = &reachedAt
	customer.CreditPeriodExpiresAt = &expiresAt
	product := testProduct("P-001", 10, "3.00", "5.00")
	fixture := newServiceFixture([]*entity.Customer{customer}, []*entity.Product{product})

	_, err := fixture.saleService().CreateSale(ctx, &usecase.CreateSaleInput{
		CustomerID: &customer.ID,
		Lines: []usecase.SaleLineInput{
			{ProductID: product.ID, Quantity: 1},
		},
		PaidAmount:    dec("5.00"),
		PaymentMethod: entity.PaymentMethodCredit,
	})

	var blocked *domainerrors.PurchaseBlockedError
	require.ErrorAs(t, err, &blocked)
	assert.Equal(t, customer.ID, blocked.CustomerID)

	// A blocked customer must not consume stock or move any ledger.
	storedProduct, findErr := fixture.products.FindByID(ctx, product.ID)
	require.NoError(t, findErr)
	assert.Equal(t, 10, storedProduct.Quantity)
	storedCustomer, findErr := fixture.customers.FindByID(ctx, customer.ID)
	require.NoError(t, findErr)
	assertDecimalEqual(t, "120.00", storedCustomer.CreditSpend)
	assert.Zero(t, fixture.sales.count())
	assert.Empty(t, fixture.publisher.published())
}

func TestCreateSale_MixedCashAndCredit(t *testing.T) {
	ctx := context.Background()
	customer := testCustomer("100.00", 7)
	product := testProduct("P-001", 10, "20.00", "35.00")
	fixture := newServiceFixture([]*entity.Customer{customer}, []*entity.Product{product})

	sale, err := fixture.saleService().CreateSale(ctx, &usecase.CreateSaleInput{
		CustomerID: &customer.ID,
		Lines: []usecase.SaleLineInput{
			{ProductID: product.ID, Quantity: 1},
		},
		PaidAmount:   dec("35.00"),
		CashAmount:   dec("20.00"),
		CreditAmount: dec("15.00"),
	})
	require.NoError(t, err)

	assertDecimalEqual(t, "20.00", sale.CashAmount)
	assertDecimalEqual(t, "15.00", sale.CreditAmount)

	stored, err := fixture.customers.FindByID(ctx, customer.ID)
	require.NoError(t, err)
	assertDecimalEqual(t, "15.00", stored.CreditSpend)
	assertDecimalEqual(t, "20.00", stored.CashBalance)
	assertDecimalEqual(t, "35.00", stored.TotalBalance)
	assert.Nil(t, stored.CreditPeriodExpiresAt)
}

func TestCreateSale_RetriesOnceOnConcurrencyConflict(t *testing.T) {
	ctx := context.Background()
	product := testProduct("P-001", 10, "3.00", "5.00")
	fixture := newServiceFixture(nil, []*entity.Product{product})
	fixture.txManager.conflictsBeforeSuccess = 1
	fixture.txManager.conflictErr = domainerrors.NewConcurrencyConflictError("product")

	sale, err := fixture.saleService().CreateSale(ctx, &usecase.CreateSaleInput{
		Lines: []usecase.SaleLineInput{
			{ProductID: product.ID, Quantity: 1},
		},
		PaidAmount:    dec("5.00"),
		PaymentMethod: entity.PaymentMethodCash,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, fixture.txManager.executions)
	assert.Equal(t, 1, fixture.sales.count())
	assert.Equal(t, "BILL00000001", sale.BillNumber)
}

func TestCreateSale_RepeatedConflictSurfaces(t *testing.T) {
	ctx := context.Background()
	product := testProduct("P-001", 10, "3.00", "5.00")
	fixture := newServiceFixture(nil, []*entity.Product{product})
	fixture.txManager.conflictsBeforeSuccess = 2
	fixture.txManager.conflictErr = domainerrors.NewConcurrencyConflictError("product")

	_, err := fixture.saleService().CreateSale(ctx, &usecase.CreateSaleInput{
		Lines: []usecase.SaleLineInput{
			{ProductID: product.ID, Quantity: 1},
		},
		PaidAmount:    dec("5.00"),
		PaymentMethod: entity.PaymentMethodCash,
	})

	var conflict *domainerrors.ConcurrencyConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, 2, fixture.txManager.executions)
	assert.Zero(t, fixture.sales.count())
}

func TestCreateSale_PublishFailureDoesNotFailSale(t *testing.T) {
	ctx := context.Background()
	product := testProduct("P-001", 10, "3.00", "5.00")
	fixture := newServiceFixture(nil, []*entity.Product{product})
	fixture.publisher.err = fmt.Errorf("broker unreachable")

	sale, err := fixture.saleService().CreateSale(ctx, &usecase.CreateSaleInput{
		Lines: []usecase.SaleLineInput{
			{ProductID: product.ID, Quantity: 1},
		},
		PaidAmount:    dec("5.00"),
		PaymentMethod: entity.PaymentMethodCash,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, fixture.sales.count())
	assert.NotEmpty(t, sale.BillNumber)
	assert.Empty(t, fixture.publisher.published())
}

func TestCreateSale_BillNumbersAreSequential(t *testing.T) {
	ctx := context.Background()
	product := testProduct("P-001", 100, "3.00", "5.00")
	fixture := newServiceFixture(nil, []*entity.Product{product})
	svc := fixture.saleService()

	for i := 1; i <= 3; i++ {
		sale, err := svc.CreateSale(ctx, &usecase.CreateSaleInput{
			Lines: []usecase.SaleLineInput{
				{ProductID: product.ID, Quantity: 1},
			},
			PaidAmount:    dec("5.00"),
			PaymentMethod: entity.PaymentMethodCash,
		})
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("BILL%08d", i), sale.BillNumber)
	}
}

func TestGetSale_NotFound(t *testing.T) {
	fixture := newServiceFixture(nil, nil)

	_, err := fixture.saleService().GetSale(context.Background(), uuid.New())

	var appErr domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "SALE_NOT_FOUND", appErr.ErrorCode())
}

func TestReceiptQR_CarriesBillNumber(t *testing.T) {
	ctx := context.Background()
	product := testProduct("P-001", 10, "3.00", "5.00")
	fixture := newServiceFixture(nil, []*entity.Product{product})
	svc := fixture.saleService()

	sale, err := svc.CreateSale(ctx, &usecase.CreateSaleInput{
		Lines: []usecase.SaleLineInput{
			{ProductID: product.ID, Quantity: 1},
		},
		PaidAmount:    dec("5.00"),
		PaymentMethod: entity.PaymentMethodCash,
	})
	require.NoError(t, err)

	png, err := svc.ReceiptQR(ctx, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("qr:"+sale.BillNumber), png)
}
