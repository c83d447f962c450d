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
)

// paymentRepository implements the domain.PaymentRepository interface using GORM.
type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository is the constructor for paymentRepository.
func NewPaymentRepository(db *gorm.DB) repository.PaymentRepository {
	return &paymentRepository{db: db}
}

// Create persists a new payment record. Payments are append-only.
func (repo *paymentRepository) Create(ctx context.Context, payment *entity.Payment) error {
	paymentM := fromPaymentDomain(payment)

	if err := repo.db.WithContext(ctx).Create(paymentM).Error; err != nil {
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("missing required payment information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create payment")
	}

	payment.CreatedAt = paymentM.CreatedAt

	return nil
}

// ListByCustomer returns a customer's payments, newest first.
func (repo *paymentRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*entity.Payment, error) {
	var paymentMs []model.PaymentModel

	err := repo.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("payment_date DESC, created_at DESC").
		Find(&paymentMs).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list payments by customer")
	}

	payments := make([]*entity.Payment, len(paymentMs))
	for i := range paymentMs {
		payments[i] = toPaymentDomain(&paymentMs[i])
	}

	return payments, nil
}

func toPaymentDomain(data *model.PaymentModel) *entity.Payment {
	return &entity.Payment{
		ID:              data.ID,
		CustomerID:      data.CustomerID,
		SaleID:          data.SaleID,
		Amount:          data.Amount,
		Method:          entity.PaymentMethod(data.Method),
		PaymentDate:     data.PaymentDate,
		ReferenceNumber: data.ReferenceNumber,
		RecordedBy:      data.RecordedBy,
		CreatedAt:       data.CreatedAt,
	}
}

func fromPaymentDomain(data *entity.Payment) *model.PaymentModel {
	return &model.PaymentModel{
		ID:              data.ID,
		CustomerID:      data.CustomerID,
		SaleID:          data.SaleID,
		Amount:          data.Amount,
		Method:          string(data.Method),
		PaymentDate:     data.PaymentDate,
		ReferenceNumber: data.ReferenceNumber,
		RecordedBy:      data.RecordedBy,
		CreatedAt:       data.CreatedAt,
	}
}
