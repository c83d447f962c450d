package impl

import (
	"context"
	"log/slog"
	"time"

	"posledger/internal/domain/entity"
	domainerrors "posledger/internal/domain/errors"
	"posledger/internal/domain/repository"
	"posledger/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

type settlementService struct {
	txManager   repository.TransactionManager
	paymentRepo repository.PaymentRepository
	logger      *slog.Logger
}

// NewSettlementService creates a new settlement service instance.
func NewSettlementService(
	txManager repository.TransactionManager,
	paymentRepo repository.PaymentRepository,
	logger *slog.Logger,
) usecase.SettlementUsecase {
	return &settlementService{
		txManager:   txManager,
		paymentRepo: paymentRepo,
		logger:      logger,
	}
}

// SettleCredit applies a payment against the customer's pooled outstanding
// balance. Ledger update and payment record land in one transaction.
func (srv *settlementService) SettleCredit(ctx context.Context, input *usecase.SettleCreditInput) (*entity.Customer, error) {
	if input.CustomerID == uuid.Nil {
		return nil, domainerrors.ErrValidationFailed.WithDetails("customer id is required")
	}

	method := input.Method
	if method == "" {
		method = entity.PaymentMethodCash
	}
	switch method {
	case entity.PaymentMethodCash, entity.PaymentMethodCard:
	default:
		return nil, domainerrors.ErrValidationFailed.WithDetails("settlements accept cash or card only")
	}

	now := time.Now()

	var customer *entity.Customer

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		customerRepo := repoFactory.NewCustomerRepository()
		paymentRepo := repoFactory.NewPaymentRepository()

		locked, err := customerRepo.FindByIDForUpdate(ctx, input.CustomerID)
		if err != nil {
			if errors.Is(err, repository.ErrCustomerNotFound) {
				return domainerrors.ErrCustomerNotFound.WithDetails(input.CustomerID.String())
			}

			return errors.Wrap(err, "failed to lock customer")
		}

		if err := locked.SettleCredit(input.Amount, method, now); err != nil {
			return err
		}

		payment := &entity.Payment{
			ID:              uuid.New(),
			CustomerID:      locked.ID,
			SaleID:          input.SaleID,
			Amount:          input.Amount,
			Method:          method,
			PaymentDate:     now,
			ReferenceNumber: input.ReferenceNumber,
			RecordedBy:      input.RecordedBy,
			CreatedAt:       now,
		}
		if err := paymentRepo.Create(ctx, payment); err != nil {
			return errors.Wrap(err, "failed to create payment record")
		}

		if err := customerRepo.Update(ctx, locked); err != nil {
			return errors.Wrap(err, "failed to update customer ledger")
		}

		customer = locked

		return nil
	})
	if err != nil {
		return nil, err
	}

	srv.logger.Info("credit settled",
		"customerID", customer.ID,
		"amount", input.Amount.String(),
		"outstanding", customer.CreditSpend.String())

	return customer, nil
}

// ListPayments returns a customer's settlement history, newest first.
func (srv *settlementService) ListPayments(ctx context.Context, customerID uuid.UUID) ([]*entity.Payment, error) {
	payments, err := srv.paymentRepo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list payments")
	}

	return payments, nil
}
