package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"posledger/internal/delivery/http/validator"
	"posledger/internal/domain/entity"
	"posledger/internal/domain/repository"
	"posledger/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newRequestContext builds an echo context the way the server wires it, with
// the go-playground validator registered. An empty body sends no content type,
// mirroring a bare POST.
func newRequestContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = validator.New()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()

	return e.NewContext(req, rec), rec
}

type stubSettlementUsecase struct {
	settled *usecase.SettleCreditInput
}

func (s *stubSettlementUsecase) SettleCredit(_ context.Context, input *usecase.SettleCreditInput) (*entity.Customer, error) {
	s.settled = input

	return &entity.Customer{ID: input.CustomerID}, nil
}

func (s *stubSettlementUsecase) ListPayments(context.Context, uuid.UUID) ([]*entity.Payment, error) {
	return nil, nil
}

type stubSaleUsecase struct {
	created *usecase.CreateSaleInput
}

func (s *stubSaleUsecase) CreateSale(_ context.Context, input *usecase.CreateSaleInput) (*entity.Sale, error) {
	s.created = input

	return &entity.Sale{ID: uuid.New()}, nil
}

func (s *stubSaleUsecase) GetSale(context.Context, uuid.UUID) (*entity.Sale, error) {
	return nil, repository.ErrSaleNotFound
}

func (s *stubSaleUsecase) ReceiptQR(context.Context, uuid.UUID) ([]byte, error) {
	return nil, repository.ErrSaleNotFound
}

type stubCustomerUsecase struct {
	registered *usecase.RegisterCustomerInput
}

func (s *stubCustomerUsecase) RegisterCustomer(_ context.Context, input *usecase.RegisterCustomerInput) (*entity.Customer, error) {
	s.registered = input

	return &entity.Customer{ID: uuid.New()}, nil
}

func (s *stubCustomerUsecase) GetCustomer(context.Context, uuid.UUID) (*entity.Customer, error) {
	return nil, repository.ErrCustomerNotFound
}

func (s *stubCustomerUsecase) CreditStatus(context.Context, uuid.UUID) (*entity.CreditStanding, error) {
	return nil, repository.ErrCustomerNotFound
}

type stubInventoryUsecase struct {
	increased bool
}

func (s *stubInventoryUsecase) CreateProduct(context.Context, *usecase.CreateProductInput) (*entity.Product, error) {
	return &entity.Product{ID: uuid.New()}, nil
}

func (s *stubInventoryUsecase) GetProduct(context.Context, uuid.UUID) (*entity.Product, error) {
	return nil, repository.ErrProductNotFound
}

func (s *stubInventoryUsecase) IncreaseStock(context.Context, uuid.UUID, int, string) (*entity.Product, error) {
	s.increased = true

	return &entity.Product{}, nil
}

func (s *stubInventoryUsecase) ListLowStock(context.Context) ([]*entity.Product, error) {
	return nil, nil
}

func TestSettle_EmptyBodyReturnsValidationError(t *testing.T) {
	uc := &stubSettlementUsecase{}
	h := NewSettlementHandler(uc, newDiscardLogger())
	c, rec := newRequestContext(http.MethodPost, "/", "")
	c.SetParamNames("id")
	c.SetParamValues(uuid.New().String())

	require.NoError(t, h.Settle(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_ERROR")
	assert.Nil(t, uc.settled)
}

func TestSettle_CustomerIDComesFromPath(t *testing.T) {
	uc := &stubSettlementUsecase{}
	h := NewSettlementHandler(uc, newDiscardLogger())
	customerID := uuid.New()
	c, rec := newRequestContext(http.MethodPost, "/", `{"amount":"50.00"}`)
	c.SetParamNames("id")
	c.SetParamValues(customerID.String())

	require.NoError(t, h.Settle(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, uc.settled)
	assert.Equal(t, customerID, uc.settled.CustomerID)
	assert.True(t, uc.settled.Amount.Equal(decimal.RequireFromString("50.00")))
}

func TestCreateSale_EmptyBodyReturnsValidationError(t *testing.T) {
	uc := &stubSaleUsecase{}
	h := NewSaleHandler(uc, newDiscardLogger())
	c, rec := newRequestContext(http.MethodPost, "/", "")

	require.NoError(t, h.Create(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_ERROR")
	assert.Nil(t, uc.created)
}

func TestCreateSale_MalformedBodyReturnsBindingError(t *testing.T) {
	uc := &stubSaleUsecase{}
	h := NewSaleHandler(uc, newDiscardLogger())
	c, rec := newRequestContext(http.MethodPost, "/", `{"lines": not-json`)

	require.NoError(t, h.Create(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_INPUT")
	assert.Nil(t, uc.created)
}

func TestRegisterCustomer_EmptyBodyReturnsValidationError(t *testing.T) {
	uc := &stubCustomerUsecase{}
	h := NewCustomerHandler(uc, newDiscardLogger())
	c, rec := newRequestContext(http.MethodPost, "/", "")

	require.NoError(t, h.Register(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_ERROR")
	assert.Nil(t, uc.registered)
}

func TestCreateProduct_EmptyBodyReturnsValidationError(t *testing.T) {
	h := NewProductHandler(&stubInventoryUsecase{}, newDiscardLogger())
	c, rec := newRequestContext(http.MethodPost, "/", "")

	require.NoError(t, h.Create(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_ERROR")
}

func TestIncreaseStock_EmptyBodyReturnsValidationError(t *testing.T) {
	uc := &stubInventoryUsecase{}
	h := NewProductHandler(uc, newDiscardLogger())
	c, rec := newRequestContext(http.MethodPost, "/", "")
	c.SetParamNames("id")
	c.SetParamValues(uuid.New().String())

	require.NoError(t, h.IncreaseStock(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_ERROR")
	assert.False(t, uc.increased)
}
