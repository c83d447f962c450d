package impl

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"sync"
	"testing"
	"time"

	"posledger/internal/domain/entity"
	"posledger/internal/domain/repository"
	"posledger/internal/domain/service"
	"posledger/internal/usecase"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func dec(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func assertDecimalEqual(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, got.Equal(dec(want)), "want %s, got %s", want, got)
}

func timeDaysAgo(days int) time.Time {
	return time.Now().AddDate(0, 0, -days)
}

func testProduct(code string, qty int, buying, selling string) *entity.Product {
	now := time.Now()

	return &entity.Product{
		ID:           uuid.New(),
		Code:         code,
		Name:         "Product " + code,
		Quantity:     qty,
		LowStock:     2,
		BuyingPrice:  dec(buying),
		SellingPrice: dec(selling),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func testCustomer(creditLimit string, periodDays int) *entity.Customer {
	now := time.Now()

	return &entity.Customer{
		ID:               uuid.New(),
		Code:             "CUST000042",
		Name:             "Test Customer",
		CreditLimit:      dec(creditLimit),
		CreditSpend:      decimal.Zero,
		CashBalance:      decimal.Zero,
		CardBalance:      decimal.Zero,
		CreditBalance:    decimal.Zero,
		NetBalance:       decimal.Zero,
		TotalBalance:     decimal.Zero,
		CreditPeriodDays: periodDays,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// serviceFixture wires every service against shared in-memory repositories so
// a test can drive one use case and inspect what the others would see.
type serviceFixture struct {
	customers *memCustomerRepo
	products  *memProductRepo
	sales     *memSaleRepo
	payments  *memPaymentRepo
	sequences *memSequenceRepo
	txManager *fakeTxManager
	publisher *capturePublisher
}

func newServiceFixture(customers []*entity.Customer, products []*entity.Product) *serviceFixture {
	fixture := &serviceFixture{
		customers: newMemCustomerRepo(customers...),
		products:  newMemProductRepo(products...),
		sales:     newMemSaleRepo(),
		payments:  newMemPaymentRepo(),
		sequences: newMemSequenceRepo(),
		publisher: &capturePublisher{},
	}
	fixture.txManager = &fakeTxManager{
		factory: &fakeRepoFactory{
			customers: fixture.customers,
			products:  fixture.products,
			sales:     fixture.sales,
			payments:  fixture.payments,
			sequences: fixture.sequences,
		},
	}

	return fixture
}

func (f *serviceFixture) saleService() usecase.SaleUsecase {
	return NewSaleService(f.txManager, f.sales, stubQRService{}, f.publisher, newDiscardLogger())
}

func (f *serviceFixture) settlementService() usecase.SettlementUsecase {
	return NewSettlementService(f.txManager, f.payments, newDiscardLogger())
}

func (f *serviceFixture) customerService() usecase.CustomerUsecase {
	return NewCustomerService(f.txManager, f.customers, newDiscardLogger())
}

func (f *serviceFixture) inventoryService() usecase.InventoryUsecase {
	return NewInventoryService(f.txManager, f.products, f.publisher, newDiscardLogger())
}

// fakeTxManager runs the callback directly against a fixed factory. Setting
// conflictsBeforeSuccess makes the first N attempts fail with a concurrency
// conflict so retry behavior can be exercised.
type fakeTxManager struct {
	factory                repository.RepositoryFactory
	conflictsBeforeSuccess int
	conflictErr            error
	executions             int
}

func (f *fakeTxManager) Execute(_ context.Context, fn func(repository.RepositoryFactory) error) error {
	f.executions++
	if f.conflictsBeforeSuccess > 0 {
		f.conflictsBeforeSuccess--

		return f.conflictErr
	}

	return fn(f.factory)
}

type fakeRepoFactory struct {
	customers *memCustomerRepo
	products  *memProductRepo
	sales     *memSaleRepo
	payments  *memPaymentRepo
	sequences *memSequenceRepo
}

func (f *fakeRepoFactory) NewCustomerRepository() repository.CustomerRepository { return f.customers }
func (f *fakeRepoFactory) NewProductRepository() repository.ProductRepository   { return f.products }
func (f *fakeRepoFactory) NewSaleRepository() repository.SaleRepository         { return f.sales }
func (f *fakeRepoFactory) NewPaymentRepository() repository.PaymentRepository   { return f.payments }
func (f *fakeRepoFactory) NewSequenceRepository() repository.SequenceRepository { return f.sequences }

type memCustomerRepo struct {
	mu   sync.Mutex
	byID map[uuid.UUID]*entity.Customer
}

func newMemCustomerRepo(customers ...*entity.Customer) *memCustomerRepo {
	repo := &memCustomerRepo{byID: make(map[uuid.UUID]*entity.Customer)}
	for _, customer := range customers {
		repo.byID[customer.ID] = cloneCustomer(customer)
	}

	return repo
}

func cloneCustomer(c *entity.Customer) *entity.Customer {
	cp := *c

	return &cp
}

func (r *memCustomerRepo) Create(_ context.Context, customer *entity.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[customer.ID] = cloneCustomer(customer)

	return nil
}

func (r *memCustomerRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	customer, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrCustomerNotFound
	}

	return cloneCustomer(customer), nil
}

func (r *memCustomerRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	return r.FindByID(ctx, id)
}

func (r *memCustomerRepo) FindByCode(_ context.Context, code string) (*entity.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, customer := range r.byID {
		if customer.Code == code {
			return cloneCustomer(customer), nil
		}
	}

	return nil, repository.ErrCustomerNotFound
}

func (r *memCustomerRepo) Update(_ context.Context, customer *entity.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[customer.ID] = cloneCustomer(customer)

	return nil
}

type memProductRepo struct {
	mu   sync.Mutex
	byID map[uuid.UUID]*entity.Product
}

func newMemProductRepo(products ...*entity.Product) *memProductRepo {
	repo := &memProductRepo{byID: make(map[uuid.UUID]*entity.Product)}
	for _, product := range products {
		repo.byID[product.ID] = cloneProduct(product)
	}

	return repo
}

func cloneProduct(p *entity.Product) *entity.Product {
	cp := *p

	return &cp
}

func (r *memProductRepo) Create(_ context.Context, product *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[product.ID] = cloneProduct(product)

	return nil
}

func (r *memProductRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	product, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}

	return cloneProduct(product), nil
}

func (r *memProductRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	return r.FindByID(ctx, id)
}

func (r *memProductRepo) Update(_ context.Context, product *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[product.ID] = cloneProduct(product)

	return nil
}

func (r *memProductRepo) ListLowStock(_ context.Context) ([]*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var products []*entity.Product
	for _, product := range r.byID {
		if product.IsLowStock() {
			products = append(products, cloneProduct(product))
		}
	}
	sort.Slice(products, func(i, j int) bool { return products[i].Quantity < products[j].Quantity })

	return products, nil
}

type memSaleRepo struct {
	mu   sync.Mutex
	byID map[uuid.UUID]*entity.Sale
}

func newMemSaleRepo() *memSaleRepo {
	return &memSaleRepo{byID: make(map[uuid.UUID]*entity.Sale)}
}

func (r *memSaleRepo) Create(_ context.Context, sale *entity.Sale) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[sale.ID] = sale

	return nil
}

func (r *memSaleRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sale, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrSaleNotFound
	}

	return sale, nil
}

func (r *memSaleRepo) SummaryByDay(_ context.Context, day time.Time) (*repository.SalesSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	utc := day.UTC()
	dayStart := time.Date(utc.Year(), utc.Month(), utc.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.AddDate(0, 0, 1)

	summary := &repository.SalesSummary{Day: dayStart}
	for _, sale := range r.byID {
		created := sale.CreatedAt.UTC()
		if created.Before(dayStart) || !created.Before(dayEnd) {
			continue
		}
		summary.SaleCount++
		summary.GrossTotal = summary.GrossTotal.Add(sale.TotalAmount)
		summary.CashTotal = summary.CashTotal.Add(sale.CashAmount)
		summary.CardTotal = summary.CardTotal.Add(sale.CardAmount)
		summary.CreditTotal = summary.CreditTotal.Add(sale.CreditAmount)
		summary.ProfitTotal = summary.ProfitTotal.Add(sale.Profit())
	}

	return summary, nil
}

func (r *memSaleRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.byID)
}

type memPaymentRepo struct {
	mu       sync.Mutex
	payments []*entity.Payment
}

func newMemPaymentRepo() *memPaymentRepo {
	return &memPaymentRepo{}
}

func (r *memPaymentRepo) Create(_ context.Context, payment *entity.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.payments = append(r.payments, payment)

	return nil
}

func (r *memPaymentRepo) ListByCustomer(_ context.Context, customerID uuid.UUID) ([]*entity.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var payments []*entity.Payment
	for _, payment := range r.payments {
		if payment.CustomerID == customerID {
			payments = append(payments, payment)
		}
	}
	sort.Slice(payments, func(i, j int) bool { return payments[i].PaymentDate.After(payments[j].PaymentDate) })

	return payments, nil
}

type memSequenceRepo struct {
	mu     sync.Mutex
	values map[string]int64
}

func newMemSequenceRepo() *memSequenceRepo {
	return &memSequenceRepo{values: make(map[string]int64)}
}

func (r *memSequenceRepo) Next(_ context.Context, name string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values[name]++

	return r.values[name], nil
}

// capturePublisher records published events in order.
type capturePublisher struct {
	mu     sync.Mutex
	events []service.Event
	err    error
}

func (p *capturePublisher) Publish(_ context.Context, event service.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)

	return nil
}

func (p *capturePublisher) Close() error { return nil }

func (p *capturePublisher) published() []service.Event {
	p.mu.Lock()
	defer p.mu.Unlock()

	return append([]service.Event(nil), p.events...)
}

// stubQRService returns a deterministic payload instead of a real PNG.
type stubQRService struct{}

func (stubQRService) GenerateReceiptQR(billNumber string) ([]byte, error) {
	return []byte("qr:" + billNumber), nil
}
