package impl

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"posledger/internal/domain/entity"
	domainerrors "posledger/internal/domain/errors"
	"posledger/internal/domain/repository"
	"posledger/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

type customerService struct {
	txManager    repository.TransactionManager
	customerRepo repository.CustomerRepository
	logger       *slog.Logger
}

// NewCustomerService creates a new customer service instance.
func NewCustomerService(
	txManager repository.TransactionManager,
	customerRepo repository.CustomerRepository,
	logger *slog.Logger,
) usecase.CustomerUsecase {
	return &customerService{
		txManager:    txManager,
		customerRepo: customerRepo,
		logger:       logger,
	}
}

// RegisterCustomer creates a customer with a generated code and zeroed
// balances.
func (srv *customerService) RegisterCustomer(ctx context.Context, input *usecase.RegisterCustomerInput) (*entity.Customer, error) {
	var problems []string
	if strings.TrimSpace(input.Name) == "" {
		problems = append(problems, "name is required")
	}
	if input.CreditLimit.IsNegative() {
		problems = append(problems, "credit limit must not be negative")
	}
	if input.CreditPeriodDays <= 0 {
		problems = append(problems, "credit period days must be positive")
	}
	if len(problems) > 0 {
		return nil, domainerrors.ErrValidationFailed.WithDetails(strings.Join(problems, "; "))
	}

	now := time.Now()

	var customer *entity.Customer

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		seq, err := repoFactory.NewSequenceRepository().Next(ctx, repository.SequenceCustomerCode)
		if err != nil {
			return errors.Wrap(err, "failed to allocate customer code")
		}

		customer = &entity.Customer{
			ID:               uuid.New(),
			Code:             fmt.Sprintf("CUST%06d", seq),
			Name:             strings.TrimSpace(input.Name),
			Phone:            input.Phone,
			Email:            input.Email,
			CreditLimit:      input.CreditLimit,
			CreditSpend:      decimal.Zero,
			CashBalance:      decimal.Zero,
			CardBalance:      decimal.Zero,
			CreditBalance:    decimal.Zero,
			NetBalance:       decimal.Zero,
			TotalBalance:     decimal.Zero,
			CreditPeriodDays: input.CreditPeriodDays,
			CreatedAt:        now,
			UpdatedAt:        now,
		}

		if err := repoFactory.NewCustomerRepository().Create(ctx, customer); err != nil {
			return errors.Wrap(err, "failed to create customer")
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	srv.logger.Info("customer registered", "customerID", customer.ID, "code", customer.Code)

	return customer, nil
}

// GetCustomer retrieves a customer by ID.
func (srv *customerService) GetCustomer(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	customer, err := srv.customerRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCustomerNotFound) {
			return nil, domainerrors.ErrCustomerNotFound.WithDetails(id.String())
		}

		return nil, errors.Wrap(err, "failed to find customer")
	}

	return customer, nil
}

// CreditStatus evaluates the customer's standing lazily at read time. Stored
// state is never touched, so expiry needs no background job.
func (srv *customerService) CreditStatus(ctx context.Context, id uuid.UUID) (*entity.CreditStanding, error) {
	customer, err := srv.GetCustomer(ctx, id)
	if err != nil {
		return nil, err
	}

	standing := customer.Standing(time.Now())

	return &standing, nil
}
