// Package impl contains the application-specific business rules implementations.
package impl

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	deliveryContext "posledger/internal/delivery/context"
	"posledger/internal/domain/entity"
	domainerrors "posledger/internal/domain/errors"
	"posledger/internal/domain/repository"
	"posledger/internal/domain/service"
	"posledger/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// paymentSplit is the resolved cash/card/credit breakdown of a sale's paid
// amount.
type paymentSplit struct {
	cash   decimal.Decimal
	card   decimal.Decimal
	credit decimal.Decimal
}

type saleService struct {
	txManager repository.TransactionManager
	saleRepo  repository.SaleRepository
	qrService service.ReceiptQRService
	publisher service.EventPublisher
	logger    *slog.Logger
}

// NewSaleService creates a new sale service instance.
func NewSaleService(
	txManager repository.TransactionManager,
	saleRepo repository.SaleRepository,
	qrService service.ReceiptQRService,
	publisher service.EventPublisher,
	logger *slog.Logger,
) usecase.SaleUsecase {
	return &saleService{
		txManager: txManager,
		saleRepo:  saleRepo,
		qrService: qrService,
		publisher: publisher,
		logger:    logger,
	}
}

// CreateSale validates the cart, then runs the whole settlement in a single
// transaction. A concurrency conflict is retried once before surfacing.
func (srv *saleService) CreateSale(ctx context.Context, input *usecase.CreateSaleInput) (*entity.Sale, error) {
	if err := validateSaleInput(input); err != nil {
		return nil, err
	}

	split, err := resolvePaymentSplit(input)
	if err != nil {
		return nil, err
	}

	sale, events, err := srv.createSaleTx(ctx, input, split)

	var conflict *domainerrors.ConcurrencyConflictError
	if errors.As(err, &conflict) {
		srv.logger.Warn("sale transaction hit a concurrency conflict, retrying once",
			"entity", conflict.Entity)
		sale, events, err = srv.createSaleTx(ctx, input, split)
	}

	if err != nil {
		return nil, err
	}

	srv.publishEvents(ctx, events)

	return sale, nil
}

// GetSale retrieves a sale with its line items.
func (srv *saleService) GetSale(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	sale, err := srv.saleRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrSaleNotFound) {
			return nil, domainerrors.ErrSaleNotFound.WithDetails(id.String())
		}

		return nil, errors.Wrap(err, "failed to find sale")
	}

	return sale, nil
}

// ReceiptQR renders the PNG QR code carrying the sale's bill number.
func (srv *saleService) ReceiptQR(ctx context.Context, saleID uuid.UUID) ([]byte, error) {
	sale, err := srv.GetSale(ctx, saleID)
	if err != nil {
		return nil, err
	}

	png, err := srv.qrService.GenerateReceiptQR(sale.BillNumber)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate receipt QR code")
	}

	return png, nil
}

// createSaleTx runs one attempt of the sale settlement. The returned events
// must only be published after this call succeeds, since a rolled back
// attempt must stay invisible to subscribers.
func (srv *saleService) createSaleTx(
	ctx context.Context,
	input *usecase.CreateSaleInput,
	split paymentSplit,
) (*entity.Sale, []service.Event, error) {
	requestID := deliveryContext.GetRequestIDFromContext(ctx)
	now := time.Now()

	var (
		sale   *entity.Sale
		events []service.Event
	)

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		productRepo := repoFactory.NewProductRepository()
		customerRepo := repoFactory.NewCustomerRepository()
		saleRepo := repoFactory.NewSaleRepository()
		seqRepo := repoFactory.NewSequenceRepository()

		// Lock products in ID order so two concurrent carts sharing products
		// cannot deadlock on each other.
		lines := make([]usecase.SaleLineInput, len(input.Lines))
		copy(lines, input.Lines)
		sort.Slice(lines, func(i, j int) bool {
			return lines[i].ProductID.String() < lines[j].ProductID.String()
		})

		products := make([]*entity.Product, len(lines))
		for i, line := range lines {
			product, err := productRepo.FindByIDForUpdate(ctx, line.ProductID)
			if err != nil {
				if errors.Is(err, repository.ErrProductNotFound) {
					return domainerrors.ErrProductNotFound.WithDetails(line.ProductID.String())
				}

				return errors.Wrap(err, "failed to lock product")
			}
			products[i] = product
		}

		// Check every line before touching any counter so a shortfall on a
		// later line cannot leave earlier deductions behind.
		for i, line := range lines {
			if products[i].Quantity < line.Quantity {
				return domainerrors.NewInsufficientStockError(products[i].ID, line.Quantity, products[i].Quantity)
			}
		}

		items := make([]*entity.SaleItem, len(lines))
		for i, line := range lines {
			unitPrice := line.UnitPrice
			if unitPrice.IsZero() {
				unitPrice = products[i].SellingPrice
			}
			items[i] = &entity.SaleItem{
				ID:        uuid.New(),
				ProductID: products[i].ID,
				Quantity:  line.Quantity,
				UnitPrice: unitPrice,
				UnitCost:  products[i].BuyingPrice,
			}
		}

		status := input.Status
		if status == "" {
			status = entity.SaleStatusApproved
		}

		sale = &entity.Sale{
			ID:            uuid.New(),
			CustomerID:    input.CustomerID,
			Status:        status,
			PaidAmount:    input.PaidAmount,
			CashAmount:    split.cash,
			CardAmount:    split.card,
			CreditAmount:  split.credit,
			DiscountValue: input.DiscountValue,
			Items:         items,
			CreatedAt:     now,
		}
		sale.ComputeTotals()

		if input.PaidAmount.GreaterThan(sale.TotalAmount) {
			return domainerrors.ErrValidationFailed.WithDetails("paid amount exceeds the sale total")
		}

		// Credit is charged before any stock counter moves so a blocked
		// customer cannot consume inventory.
		if input.CustomerID != nil {
			customer, err := customerRepo.FindByIDForUpdate(ctx, *input.CustomerID)
			if err != nil {
				if errors.Is(err, repository.ErrCustomerNotFound) {
					return domainerrors.ErrCustomerNotFound.WithDetails(input.CustomerID.String())
				}

				return errors.Wrap(err, "failed to lock customer")
			}

			if split.credit.IsPositive() {
				exceeded, err := customer.ApplyCreditCharge(split.credit, now)
				if err != nil {
					return err
				}
				if exceeded {
					events = append(events, service.CreditExceededEvent{
						RequestID:      requestID,
						CustomerID:     customer.ID,
						ExceededAmount: customer.CreditSpend.Sub(customer.CreditLimit),
					})
				}
			}

			customer.RecordSalePayment(split.cash, split.card, sale.TotalAmount)

			if err := customerRepo.Update(ctx, customer); err != nil {
				return errors.Wrap(err, "failed to update customer ledger")
			}
		}

		for i, line := range lines {
			oldQuantity := products[i].Quantity
			if err := products[i].Deduct(line.Quantity); err != nil {
				return err
			}
			if err := productRepo.Update(ctx, products[i]); err != nil {
				return errors.Wrap(err, "failed to update product stock")
			}

			events = append(events, service.StockUpdatedEvent{
				RequestID:   requestID,
				ProductID:   products[i].ID,
				OldQuantity: oldQuantity,
				NewQuantity: products[i].Quantity,
				Action:      usecase.StockActionSale,
			})
		}

		// The bill number is taken inside the transaction so an aborted sale
		// releases its value together with everything else.
		seq, err := seqRepo.Next(ctx, repository.SequenceBillNumber)
		if err != nil {
			return errors.Wrap(err, "failed to allocate bill number")
		}
		sale.BillNumber = fmt.Sprintf("BILL%08d", seq)

		if err := saleRepo.Create(ctx, sale); err != nil {
			return errors.Wrap(err, "failed to create sale")
		}

		events = append(events, service.SaleCompletedEvent{
			RequestID:    requestID,
			SaleID:       sale.ID,
			BillNumber:   sale.BillNumber,
			TotalAmount:  sale.TotalAmount,
			ProfitAmount: sale.Profit(),
		})

		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return sale, events, nil
}

// publishEvents delivers committed events best effort. Failures are logged
// and never fail the already committed sale.
func (srv *saleService) publishEvents(ctx context.Context, events []service.Event) {
	for _, event := range events {
		if err := srv.publisher.Publish(ctx, event); err != nil {
			srv.logger.Error("failed to publish event",
				"event", event.EventName(), "error", err)
		}
	}
}

// validateSaleInput collects all request-shape problems into one
// VALIDATION_FAILED error instead of failing on the first.
func validateSaleInput(input *usecase.CreateSaleInput) error {
	var problems []string

	if len(input.Lines) == 0 {
		problems = append(problems, "at least one line item is required")
	}

	seen := make(map[uuid.UUID]struct{}, len(input.Lines))
	for i, line := range input.Lines {
		if line.ProductID == uuid.Nil {
			problems = append(problems, fmt.Sprintf("line %d: product id is required", i+1))
		}
		if line.Quantity <= 0 {
			problems = append(problems, fmt.Sprintf("line %d: quantity must be positive", i+1))
		}
		if line.UnitPrice.IsNegative() {
			problems = append(problems, fmt.Sprintf("line %d: unit price must not be negative", i+1))
		}
		if _, dup := seen[line.ProductID]; dup {
			problems = append(problems, fmt.Sprintf("line %d: duplicate product, merge the quantities", i+1))
		}
		seen[line.ProductID] = struct{}{}
	}

	if input.DiscountValue.IsNegative() {
		problems = append(problems, "discount must not be negative")
	}
	if input.PaidAmount.IsNegative() {
		problems = append(problems, "paid amount must not be negative")
	}
	for _, amount := range []struct {
		name  string
		value decimal.Decimal
	}{
		{"cash amount", input.CashAmount},
		{"card amount", input.CardAmount},
		{"credit amount", input.CreditAmount},
	} {
		if amount.value.IsNegative() {
			problems = append(problems, amount.name+" must not be negative")
		}
	}

	switch input.PaymentMethod {
	case "", entity.PaymentMethodCash, entity.PaymentMethodCard, entity.PaymentMethodCredit:
	default:
		problems = append(problems, fmt.Sprintf("unknown payment method %q", input.PaymentMethod))
	}

	hasSplit := !input.CashAmount.IsZero() || !input.CardAmount.IsZero() || !input.CreditAmount.IsZero()
	if input.PaymentMethod != "" && hasSplit {
		problems = append(problems, "specify either payment_method or an explicit amount split, not both")
	}

	switch input.Status {
	case "", entity.SaleStatusApproved, entity.SaleStatusPending, entity.SaleStatusDraft:
	default:
		problems = append(problems, fmt.Sprintf("unknown sale status %q", input.Status))
	}

	if len(problems) > 0 {
		return domainerrors.ErrValidationFailed.WithDetails(strings.Join(problems, "; "))
	}

	return nil
}

// resolvePaymentSplit turns the request's tender fields into one explicit
// cash/card/credit breakdown and enforces the walk-in rule.
func resolvePaymentSplit(input *usecase.CreateSaleInput) (paymentSplit, error) {
	var split paymentSplit

	switch input.PaymentMethod {
	case entity.PaymentMethodCash:
		split.cash = input.PaidAmount
	case entity.PaymentMethodCard:
		split.card = input.PaidAmount
	case entity.PaymentMethodCredit:
		split.credit = input.PaidAmount
	default:
		split.cash = input.CashAmount
		split.card = input.CardAmount
		split.credit = input.CreditAmount
		if !split.cash.Add(split.card).Add(split.credit).Equal(input.PaidAmount) {
			return paymentSplit{}, domainerrors.ErrValidationFailed.
				WithDetails("cash, card and credit amounts must sum to the paid amount")
		}
	}

	if split.credit.IsPositive() && input.CustomerID == nil {
		return paymentSplit{}, domainerrors.ErrWalkInCredit
	}

	return split, nil
}
