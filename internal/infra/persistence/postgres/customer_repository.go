package postgres

import (
	"context"

	"posledger/internal/domain/entity"
	domainerrors "posledger/internal/domain/errors"
	"posledger/internal/domain/repository"
	"posledger/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// customerRepository implements the domain.CustomerRepository interface using GORM.
type customerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository is the constructor for customerRepository.
// It returns the repository as a domain interface, adhering to dependency inversion.
func NewCustomerRepository(db *gorm.DB) repository.CustomerRepository {
	return &customerRepository{db: db}
}

// Create persists a new customer.
func (repo *customerRepository) Create(ctx context.Context, customer *entity.Customer) error {
	customerM := fromCustomerDomain(customer)

	if err := repo.db.WithContext(ctx).Create(customerM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrCustomerAlreadyExists.WrapMessage("customer code already exists")
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("missing required customer information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create customer")
	}

	customer.CreatedAt = customerM.CreatedAt
	customer.UpdatedAt = customerM.UpdatedAt

	return nil
}

// FindByID retrieves a customer by ID.
func (repo *customerRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	var customerM model.CustomerModel

	err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&customerM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrCustomerNotFound
		}

		return nil, errors.Wrap(err, "failed to find customer by id")
	}

	return toCustomerDomain(&customerM), nil
}

// FindByIDForUpdate retrieves a customer by ID holding a FOR UPDATE row lock.
func (repo *customerRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	var customerM model.CustomerModel

	err := repo.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&customerM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrCustomerNotFound
		}
		if isConcurrencyConflict(err) {
			return nil, domainerrors.NewConcurrencyConflictError("customer")
		}

		return nil, errors.Wrap(err, "failed to lock customer by id")
	}

	return toCustomerDomain(&customerM), nil
}

// FindByCode retrieves a customer by its generated code.
func (repo *customerRepository) FindByCode(ctx context.Context, code string) (*entity.Customer, error) {
	var customerM model.CustomerModel

	err := repo.db.WithContext(ctx).
		Where("code = ?", code).
		First(&customerM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrCustomerNotFound
		}

		return nil, errors.Wrap(err, "failed to find customer by code")
	}

	return toCustomerDomain(&customerM), nil
}

// Update persists the customer's mutable fields, including all balance columns
// and the grace-period timestamps. The timestamps are written explicitly so
// clearing an episode (both set back to NULL) reaches the database.
func (repo *customerRepository) Update(ctx context.Context, customer *entity.Customer) error {
	customerM := fromCustomerDomain(customer)

	err := repo.db.WithContext(ctx).
		Model(&model.CustomerModel{}).
		Where("id = ?", customerM.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(customerM).Error
	if err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrCustomerAlreadyExists.WrapMessage("customer code already exists")
		}
		if isConcurrencyConflict(err) {
			return domainerrors.NewConcurrencyConflictError("customer")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to update customer")
	}

	return nil
}

func toCustomerDomain(data *model.CustomerModel) *entity.Customer {
	return &entity.Customer{
		ID:                    data.ID,
		Code:                  data.Code,
		Name:                  data.Name,
		Phone:                 data.Phone,
		Email:                 data.Email,
		CreditLimit:           data.CreditLimit,
		CreditSpend:           data.CreditSpend,
		CashBalance:           data.CashBalance,
		CardBalance:           data.CardBalance,
		CreditBalance:         data.CreditBalance,
		NetBalance:            data.NetBalance,
		TotalBalance:          data.TotalBalance,
		CreditPeriodDays:      data.CreditPeriodDays,
		CreditLimitReachedAt:  data.CreditLimitReachedAt,
		CreditPeriodExpiresAt: data.CreditPeriodExpiresAt,
		CreatedAt:             data.CreatedAt,
		UpdatedAt:             data.UpdatedAt,
	}
}

func fromCustomerDomain(data *entity.Customer) *model.CustomerModel {
	return &model.CustomerModel{
		ID:                    data.ID,
		Code:                  data.Code,
		Name:                  data.Name,
		Phone:                 data.Phone,
		Email:                 data.Email,
		CreditLimit:           data.CreditLimit,
		CreditSpend:           data.CreditSpend,
		CashBalance:           data.CashBalance,
		CardBalance:           data.CardBalance,
		CreditBalance:         data.CreditBalance,
		NetBalance:            data.NetBalance,
		TotalBalance:          data.TotalBalance,
		CreditPeriodDays:      data.CreditPeriodDays,
		CreditLimitReachedAt:  data.CreditLimitReachedAt,
		CreditPeriodExpiresAt: data.CreditPeriodExpiresAt,
		CreatedAt:             data.CreatedAt,
		UpdatedAt:             data.UpdatedAt,
	}
}
